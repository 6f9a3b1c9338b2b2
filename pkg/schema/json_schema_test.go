package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type JsonSchemaTestSuite struct {
	suite.Suite
}

func TestJsonSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(JsonSchemaTestSuite))
}

type baseConfig struct {
	Token string `json:"token" keychain:"true"`
}

type testConfig struct {
	baseConfig

	Symbol string `json:"symbol" jsonschema:"title=Symbol,description=The symbol to watch,default=BTC"`
	Secret string `json:"secret,omitempty" keychain:"true"`
	Plain  string
}

func (suite *JsonSchemaTestSuite) TestToJSONSchema() {
	schema, err := ToJSONSchema(testConfig{})
	suite.NoError(err)
	suite.Contains(schema, `"symbol"`)

	var doc map[string]any
	suite.NoError(json.Unmarshal([]byte(schema), &doc))
	suite.Equal("object", doc["type"])
}

func (suite *JsonSchemaTestSuite) TestToIndentedJSONSchema() {
	schema, err := ToIndentedJSONSchema(testConfig{})
	suite.NoError(err)
	suite.Contains(schema, "\n  ")
	suite.Contains(schema, `"The symbol to watch"`)
}

func (suite *JsonSchemaTestSuite) TestGetKeychainFields() {
	suite.Equal([]string{"token", "secret"}, GetKeychainFields(testConfig{}))
	suite.Equal([]string{"token", "secret"}, GetKeychainFields(&testConfig{}))
	suite.Empty(GetKeychainFields("not a struct"))
}
