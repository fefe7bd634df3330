package session

import "errors"

var (
	// ErrUnreachable means the liveness probe could not reach the server.
	ErrUnreachable = errors.New("server unreachable")
	// ErrNotConfigured means no provider configuration has been saved yet.
	ErrNotConfigured = errors.New("no provider configured")
	// ErrRequestFailed means the backend did not produce an answer.
	ErrRequestFailed = errors.New("request failed")
	// ErrNoModels means the backend listed no models to choose from.
	ErrNoModels = errors.New("no models available")
	// ErrAPIKeyRequired means the backend needs an API key and none was given.
	// Authenticated backends are not supported yet.
	ErrAPIKeyRequired = errors.New("provider requires an API key")
	// ErrCancelled means the user backed out of a prompt.
	ErrCancelled = errors.New("cancelled")
)
