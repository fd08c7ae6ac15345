// Package config loads the dataapi command configuration from a YAML file,
// an optional .env file and the process environment.
//
//	var cfg config.AppConfig
//	if err := config.Load("dataapi", &cfg); err != nil {
//		return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// Environment variables map onto nested keys by splitting on underscores,
// so DATAAPI_API_KEY sets dataapi.api_key and LOGGING_LEVEL sets
// logging.level. The environment always wins over the file.
package config
