// Package logger provides structured logging for dataapi using zerolog.
//
// Library code defaults to Nop so that creating clients has no output
// side effects. Applications opt in by passing a configured logger:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "dataapi")
//	client := factory.New() // built with dataapi.WithLogger(log)
package logger
