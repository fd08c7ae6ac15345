package dataapi

import (
	"time"

	apperrors "github.com/kbukum/dataapi/errors"
	"github.com/kbukum/dataapi/httpclient"
	"github.com/kbukum/dataapi/validation"
)

const defaultTimeout = 30 * time.Second

// Format selects the request body encoding.
type Format string

const (
	// FormatJSON sends plain JSON bodies (application/json).
	FormatJSON Format = "json"
	// FormatEJSON sends relaxed Extended JSON bodies (application/ejson).
	FormatEJSON Format = "ejson"
)

// ContentType returns the Content-Type header value for the format.
func (f Format) ContentType() string {
	if f == FormatEJSON {
		return "application/ejson"
	}
	return "application/json"
}

// Config is the connection configuration shared by every client a Factory
// produces. It is copied at factory creation and never mutated afterwards.
type Config struct {
	// BaseURI is the gateway action URL; endpoints are appended verbatim.
	BaseURI string `yaml:"base_uri" mapstructure:"base_uri" validate:"required,url"`
	// DataSource is the cluster name sent as "dataSource".
	DataSource string `yaml:"data_source" mapstructure:"data_source" validate:"required"`
	// Database is the database name sent as "database".
	Database string `yaml:"database" mapstructure:"database" validate:"required"`
	// APIKey is sent only in the api-key header.
	APIKey string `yaml:"-" json:"-" mapstructure:"api_key" validate:"required"`

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Format is the request body encoding. Defaults to json.
	Format Format `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json ejson"`
	// TLS configures the transport when the default transport is used.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Format == "" {
		c.Format = FormatJSON
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return apperrors.Validation(err.Error()).WithCause(err)
		}
	}
	return nil
}

// httpConfig derives the transport configuration.
func (c *Config) httpConfig() httpclient.Config {
	return httpclient.Config{
		Timeout: c.Timeout,
		TLS:     c.TLS,
	}
}
