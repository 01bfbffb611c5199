// Package cli implements the interactive carnet terminal client: a small
// REPL over the gRPC API that renders the roster as a table and ID cards
// as bordered boxes.
package cli
