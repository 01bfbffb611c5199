// Package common contains shared constants and sentinel errors used across
// carnet components.
package common

// SessionHeaderName is the gRPC metadata key used to carry the workspace
// session id on outbound requests.
const SessionHeaderName = "session_id"
