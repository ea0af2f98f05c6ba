package server

import "encoding/json"

// Task names accepted by the server.
const (
	TaskRun         = "run"
	TaskExit        = "exit"
	TaskCloseServer = "close-server"
)

// Response status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Request is one newline-delimited JSON request.
type Request struct {
	// Task selects the operation: run, exit, or close-server.
	Task string `json:"task"`

	// Config is the inference-job configuration, opaque to the server.
	Config json.RawMessage `json:"config,omitempty"`

	// BasePath resolves config-relative resources. Empty means the
	// server process's current directory.
	BasePath string `json:"base-path,omitempty"`

	// Options are ordered engine startup options. They only take effect
	// on the request that first starts the environment.
	Options []string `json:"options,omitempty"`
}

// Response is one newline-delimited JSON response.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}
