package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"inventory-tracker/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (not found, validation, insufficient stock, etc.)
	ExitCommandError = 2 // Command error (bad arguments, unknown command, etc.)
)

// ErrCodeCommand is the code reported for errors that are not domain errors.
const ErrCodeCommand = "COMMAND_ERROR"

var domainErrors = []*model.DomainError{
	model.ErrValidation,
	model.ErrDuplicateKey,
	model.ErrNotFound,
	model.ErrInsufficientStock,
	model.ErrMalformedRecord,
	model.ErrPersistence,
}

// errorCode returns the domain error code of err, or ErrCodeCommand.
func errorCode(err error) string {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return target.Code
		}
	}
	return ErrCodeCommand
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errorCode(err) == ErrCodeCommand:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics go here so JSON on Writer stays parseable
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs data as a JSON envelope, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	if err := text(tw); err != nil {
		return err
	}
	return tw.Flush()
}

// Error outputs err in the configured format. Validation failures carry
// their field list as details.
func (f *OutputFormatter) Error(err error) error {
	code := errorCode(err)

	var details any
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		details = verr.Fields
	}

	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: err.Error(),
				Details: details,
			},
		})
	}

	_, werr := fmt.Fprintf(f.errWriter(), "Error [%s]: %s\n", code, err.Error())
	return werr
}

// Warn writes a diagnostic line to the error writer.
func (f *OutputFormatter) Warn(format string, args ...any) {
	fmt.Fprintf(f.errWriter(), "warning: "+format+"\n", args...)
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
