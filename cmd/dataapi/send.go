package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mitchellh/cli"

	"github.com/kbukum/dataapi/config"
	"github.com/kbukum/dataapi/dataapi"
	apperrors "github.com/kbukum/dataapi/errors"
	"github.com/kbukum/dataapi/logger"
	"github.com/kbukum/dataapi/observability"
)

// SendCommand issues one request and prints the response body.
type SendCommand struct {
	UI cli.Ui

	// Stdin is read when -query is "-". Defaults to os.Stdin.
	Stdin io.Reader

	flagConfig     string
	flagEnvFile    string
	flagEndpoint   string
	flagQuery      string
	flagCollection string
	flagBaseURI    string
	flagDataSource string
	flagDatabase   string
	flagFormat     string
	flagTimeout    time.Duration
	flagStrict     bool
	flagCheck      bool
	flagJSONErrors bool
}

func (c *SendCommand) Synopsis() string {
	return "Send one request to the data gateway"
}

func (c *SendCommand) Help() string {
	var buf bytes.Buffer
	fs := c.flags()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	return `Usage: dataapi send -endpoint <endpoint> [options]

  Sends one POST to <base_uri><endpoint> with the merged query and prints
  the JSON response. The API key is read from dataapi.api_key in the config
  file or from the DATAAPI_API_KEY environment variable.

  Exit codes: 0 on a 2xx response, 1 on any error or non-2xx response.

Options:

` + buf.String()
}

func (c *SendCommand) flags() *flag.FlagSet {
	f := flag.NewFlagSet("send", flag.ContinueOnError)
	f.SetOutput(io.Discard)

	f.StringVar(&c.flagConfig, "config", "", "Path to config.yml (searched for when empty).")
	f.StringVar(&c.flagEnvFile, "env-file", "", "Path to a .env file (searched for when empty).")
	f.StringVar(&c.flagEndpoint, "endpoint", "", "(Required) Endpoint, e.g. /find.")
	f.StringVar(&c.flagQuery, "query", "", `Query JSON object, or "-" to read it from stdin.`)
	f.StringVar(&c.flagCollection, "collection", "", "Collection name merged into the query.")
	f.StringVar(&c.flagBaseURI, "base-uri", "", "Overrides dataapi.base_uri.")
	f.StringVar(&c.flagDataSource, "data-source", "", "Overrides dataapi.data_source.")
	f.StringVar(&c.flagDatabase, "database", "", "Overrides dataapi.database.")
	f.StringVar(&c.flagFormat, "format", "", "Overrides dataapi.format (json or ejson).")
	f.DurationVar(&c.flagTimeout, "timeout", 0, "Overrides dataapi.timeout.")
	f.BoolVar(&c.flagStrict, "strict", false, "Require operation fields besides dataSource and database.")
	f.BoolVar(&c.flagCheck, "check", false, "Fail when the response lacks the endpoint's result fields.")
	f.BoolVar(&c.flagJSONErrors, "json-errors", false, "Report request errors as a JSON document.")
	return f
}

func (c *SendCommand) Run(args []string) int {
	if err := c.flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagEndpoint == "" {
		c.UI.Error("endpoint flag is required")
		return 1
	}

	cfg, err := c.loadConfig()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	query, err := c.readQuery()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading query: %v", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	opts := []dataapi.Option{dataapi.WithLogger(log)}
	if c.flagStrict {
		opts = append(opts, dataapi.WithStrictQuery())
	}
	if c.flagCheck {
		opts = append(opts, dataapi.WithResultCheck())
	}
	if cfg.Telemetry.Enabled {
		telemetryOpts, shutdown, err := setupTelemetry(ctx, cfg)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error initializing telemetry: %v", err))
			return 1
		}
		defer shutdown()
		opts = append(opts, telemetryOpts...)
	}

	newClient, err := dataapi.CreateClient(cfg.DataAPI, opts...)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	endpoint := dataapi.Endpoint(c.flagEndpoint)
	if !endpoint.Valid() {
		c.UI.Warn(fmt.Sprintf("endpoint %q is not a known endpoint; sending anyway", endpoint))
	}

	client := newClient()
	client.SetEndpoint(endpoint)
	client.MergeQuery(query)

	resp, err := dataapi.Do[json.RawMessage](ctx, client)
	if err != nil {
		c.reportError(dataapi.ToAppError(err), err)
		return 1
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp.Data, "", "  "); err != nil {
		out.Reset()
		out.Write(resp.Data)
	}
	c.UI.Output(out.String())

	if !resp.IsSuccess() {
		c.UI.Error(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
		return 1
	}
	return 0
}

func (c *SendCommand) reportError(appErr *apperrors.AppError, err error) {
	if !c.flagJSONErrors {
		c.UI.Error(fmt.Sprintf("[%s] %v", appErr.Code, err))
		return
	}
	data, mErr := json.MarshalIndent(appErr.ToResponse(), "", "  ")
	if mErr != nil {
		c.UI.Error(fmt.Sprintf("[%s] %v", appErr.Code, err))
		return
	}
	c.UI.Error(string(data))
}

func (c *SendCommand) loadConfig() (*config.AppConfig, error) {
	var opts []config.Option
	if c.flagConfig != "" {
		opts = append(opts, config.WithConfigFile(c.flagConfig))
	}
	if c.flagEnvFile != "" {
		opts = append(opts, config.WithEnvFile(c.flagEnvFile))
	}

	var cfg config.AppConfig
	if err := config.Load(cliName, &cfg, opts...); err != nil {
		return nil, err
	}

	if c.flagBaseURI != "" {
		cfg.DataAPI.BaseURI = c.flagBaseURI
	}
	if c.flagDataSource != "" {
		cfg.DataAPI.DataSource = c.flagDataSource
	}
	if c.flagDatabase != "" {
		cfg.DataAPI.Database = c.flagDatabase
	}
	if c.flagFormat != "" {
		cfg.DataAPI.Format = dataapi.Format(c.flagFormat)
	}
	if c.flagTimeout > 0 {
		cfg.DataAPI.Timeout = c.flagTimeout
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SendCommand) readQuery() (dataapi.Query, error) {
	raw := c.flagQuery
	if raw == "-" {
		in := c.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}

	query := dataapi.Query{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &query); err != nil {
			return nil, fmt.Errorf("query must be a JSON object: %w", err)
		}
		if query == nil {
			return nil, fmt.Errorf("query must be a JSON object, got null")
		}
	}
	if c.flagCollection != "" {
		query["collection"] = c.flagCollection
	}
	return query, nil
}

// setupTelemetry starts OTLP trace and metric export for one command run.
func setupTelemetry(ctx context.Context, cfg *config.AppConfig) ([]dataapi.Option, func(), error) {
	tracerCfg := observability.DefaultTracerConfig(cfg.Name)
	tracerCfg.Environment = cfg.Environment
	tracerCfg.Endpoint = cfg.Telemetry.Endpoint
	tracerCfg.Insecure = cfg.Telemetry.Insecure
	tracerCfg.SampleRate = cfg.Telemetry.SampleRate

	tp, err := observability.InitTracer(ctx, tracerCfg)
	if err != nil {
		return nil, nil, err
	}

	meterCfg := observability.DefaultMeterConfig(cfg.Name)
	meterCfg.Environment = cfg.Environment
	meterCfg.Endpoint = cfg.Telemetry.Endpoint
	meterCfg.Insecure = cfg.Telemetry.Insecure

	mp, err := observability.InitMeter(ctx, meterCfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}

	metrics, err := observability.NewMetrics(mp.Meter(observability.TracerName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.GetGlobalLogger().WithError(err).Warn("tracer shutdown failed")
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			logger.GetGlobalLogger().WithError(err).Warn("meter shutdown failed")
		}
	}

	opts := []dataapi.Option{
		dataapi.WithTracerProvider(tp),
		dataapi.WithMetrics(metrics),
	}
	return opts, shutdown, nil
}
