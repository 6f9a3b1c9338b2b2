// Package schema reflects Go structs into JSON schema documents for prompts,
// config documentation and provider metadata.
package schema

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// ToJSONSchema converts a struct to a JSON schema
func ToJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// ToIndentedJSONSchema is ToJSONSchema with two-space indentation, for
// embedding in prompts and printing from the CLI.
func ToIndentedJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.ExpandedStruct = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// GetKeychainFields returns the json names of the fields tagged keychain:"true".
// Embedded structs are walked.
func GetKeychainFields(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return []string{}
	}

	fields := []string{}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			fields = append(fields, GetKeychainFields(reflect.New(field.Type).Elem().Interface())...)

			continue
		}

		if field.Tag.Get("keychain") != "true" {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tag, _, _ = strings.Cut(tag, ",")

			if tag != "" && tag != "-" {
				name = tag
			}
		}

		fields = append(fields, name)
	}

	return fields
}
