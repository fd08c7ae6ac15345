// Package errors provides the structured error type shared by dataapi
// packages. It carries a machine-readable code, an HTTP status hint and
// retryable detection so hosts can turn client failures into RFC 7807
// style responses.
package errors
