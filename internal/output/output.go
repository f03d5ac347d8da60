// Package output formats CLI results as JSON or plain text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Format represents an output format.
type Format int

const (
	// FormatPlain outputs human-readable text.
	FormatPlain Format = iota
	// FormatJSON outputs indented JSON.
	FormatJSON
)

// Detect returns the format based on the flag and environment. Plain is
// the default.
func Detect(jsonFlag bool) Format {
	if jsonFlag || os.Getenv("KANMD_OUTPUT") == "json" {
		return FormatJSON
	}
	return FormatPlain
}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error as JSON.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	resp := ErrorResponse{Error: msg, Code: code, Details: details}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp) // best-effort; if the writer fails there is nothing left to do
}
