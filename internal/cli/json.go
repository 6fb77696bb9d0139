package cli

import (
	"encoding/json"
	"fmt"
)

// Response is the envelope every --json command writes to stdout.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed command. Code is one of the stable codes in
// errors.go.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem reported alongside a result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Meta carries result counts.
type Meta struct {
	Count int `json:"count,omitempty"`
}

func (a *App) outputJSON(resp Response) {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func (a *App) outputSuccess(data interface{}, meta *Meta) {
	a.outputJSON(Response{OK: true, Data: data, Meta: meta})
}

func (a *App) outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	a.outputJSON(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

func (a *App) outputError(code, message string, details interface{}, suggestion string) {
	a.outputJSON(Response{Error: &ErrorInfo{
		Code:       code,
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
	}})
}

// handleError converts err into the command's failure. In JSON mode the
// envelope is written here and the returned error is silent; in text mode
// Run prints the message and suggestion. The exit code follows the error.
func (a *App) handleError(code string, err error, suggestion string) error {
	return a.handleErrorWithDetails(code, err, suggestion, nil)
}

func (a *App) handleErrorMsg(code, message, suggestion string) error {
	return a.handleError(code, fmt.Errorf("%s", message), suggestion)
}

// handleErrorWithDetails is handleError with structured details for the
// JSON envelope.
func (a *App) handleErrorWithDetails(code string, err error, suggestion string, details interface{}) error {
	exit := &ExitError{Code: exitCodeFor(err), Err: err, Suggestion: suggestion}
	if a.jsonOutput {
		a.outputError(code, err.Error(), details, suggestion)
		exit.Silent = true
	}
	return exit
}
