package provider

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// HistoryConfig contains configuration for the bulk historical source.
type HistoryConfig struct {
	Provider      ProviderType  `json:"provider" yaml:"provider" jsonschema:"title=Provider,description=Bulk historical data provider,enum=coingecko,enum=binance,enum=polygon,default=coingecko" validate:"required,oneof=coingecko binance polygon"`
	BaseURL       string        `json:"baseUrl" yaml:"base_url" split_words:"true" jsonschema:"title=Base URL,description=Override of the provider REST base URL" validate:"omitempty,url"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout" jsonschema:"title=Timeout,description=Per-request timeout" validate:"min=0"`
	PolygonApiKey string        `json:"polygonApiKey" yaml:"polygon_api_key" envconfig:"POLYGON_API_KEY" jsonschema:"title=Polygon API Key,description=Required when provider is polygon" keychain:"true" validate:"required_if=Provider polygon"`
}

// FeedConfig contains configuration for the push trade feed.
type FeedConfig struct {
	URL string `json:"url" yaml:"url" jsonschema:"title=URL,description=Websocket base URL of the combined trade stream" validate:"required,url"`
	// Throttle is the minimum time between two applied ticks across all assets
	Throttle time.Duration `json:"throttle" yaml:"throttle" jsonschema:"title=Throttle,description=Minimum interval between applied ticks" validate:"min=0"`
	// HandshakeTimeout bounds the websocket dial
	HandshakeTimeout time.Duration `json:"handshakeTimeout" yaml:"handshake_timeout" split_words:"true" jsonschema:"title=Handshake Timeout" validate:"min=0"`
}

// Validate validates the HistoryConfig fields.
func (c *HistoryConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid history config", err)
	}

	return nil
}

// Validate validates the FeedConfig fields.
func (c *FeedConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, fmt.Sprintf("invalid feed config for %q", c.URL), err)
	}

	return nil
}
