// Package client wraps the carnet gRPC API for the terminal client. It
// attaches the workspace session id to every call and maps gRPC status
// codes back onto the shared sentinel errors.
package client
