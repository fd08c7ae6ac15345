// Package validation validates configuration structs using struct tags
// and reports failures as errors.AppError values with per-field details.
//
//	type Config struct {
//	    BaseURI string `json:"base_uri" validate:"required,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
