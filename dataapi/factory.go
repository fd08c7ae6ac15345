package dataapi

import (
	"github.com/kbukum/dataapi/httpclient"
	"github.com/kbukum/dataapi/logger"
)

// Factory produces independent clients sharing one immutable Config and
// one transport.
type Factory struct {
	cfg  Config
	opts *options
}

// NewFactory validates cfg and prepares the shared transport.
func NewFactory(cfg Config, opts ...Option) (*Factory, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.WithFields(map[string]any{
		"data_source": cfg.DataSource,
		"database":    cfg.Database,
	})

	if o.doer == nil {
		hc, err := httpclient.New(cfg.httpConfig())
		if err != nil {
			return nil, err
		}
		o.doer = hc
	}

	return &Factory{cfg: cfg, opts: o}, nil
}

// New returns a fresh client with an empty endpoint and a seeded query.
func (f *Factory) New() *Client {
	return newClient(&f.cfg, f.opts)
}

// CreateClient returns a constructor for independent clients, e.g.
//
//	newClient, err := dataapi.CreateClient(cfg)
//	c := newClient()
func CreateClient(cfg Config, opts ...Option) (func() *Client, error) {
	f, err := NewFactory(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return f.New, nil
}
