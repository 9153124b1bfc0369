package core

import (
	"encoding/json"
	"errors"
	"io"
)

// CLIResponse is the structured JSON summary printed when the json output
// tool is selected and the run ends before a report could be rendered.
//
// Schema:
//
//	{
//	  "success": true|false,
//	  "data": { ... },          // run summary (omitted on error)
//	  "error": {                 // present only on failure
//	    "code": "PATCH_CONFLICT",
//	    "message": "Human-readable description"
//	  }
//	}
type CLIResponse struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data,omitempty"`
	Error   *CLIErrorDetail `json:"error,omitempty"`
}

// CLIErrorDetail contains machine-readable error code and human-readable message.
type CLIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Process exit codes.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 2
)

// Machine-readable error codes for the JSON summary.
const (
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeAcquisition      = "ACQUISITION_ERROR"
	ErrCodePatchConflict    = "PATCH_CONFLICT"
	ErrCodeSrpmBuild        = "SRPM_BUILD_ERROR"
	ErrCodeBinaryBuild      = "BINARY_BUILD_ERROR"
	ErrCodeBuildEnvironment = "BUILD_ENVIRONMENT_ERROR"
	ErrCodeChecker          = "CHECKER_ERROR"
	ErrCodePlugin           = "PLUGIN_ERROR"
	ErrCodeInterrupted      = "USER_INTERRUPT"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// EmitCLIResponse writes resp as indented JSON.
func EmitCLIResponse(w io.Writer, resp CLIResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// EmitCLIError writes an error CLIResponse for err and returns its exit code.
func EmitCLIError(w io.Writer, err error) int {
	_ = EmitCLIResponse(w, CLIResponse{ //nolint:errcheck
		Success: false,
		Error:   &CLIErrorDetail{Code: ErrCodeForError(err), Message: err.Error()},
	})
	return ExitCodeForError(err)
}

// ExitCodeForError maps a run error to the process exit code.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsInterrupt(err):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// ErrCodeForError maps a run error to its machine-readable code.
func ErrCodeForError(err error) string {
	var (
		srpm *SrpmBuildError
		bin  *BinaryBuildError
		env  *BuildEnvironmentError
		chk  *CheckerError
	)
	switch {
	case err == nil:
		return ""
	case IsInterrupt(err):
		return ErrCodeInterrupted
	case IsConfigurationError(err):
		return ErrCodeConfiguration
	case IsAcquisitionError(err):
		return ErrCodeAcquisition
	case IsPatchConflict(err):
		return ErrCodePatchConflict
	case errors.As(err, &srpm):
		return ErrCodeSrpmBuild
	case errors.As(err, &bin):
		return ErrCodeBinaryBuild
	case errors.As(err, &env):
		return ErrCodeBuildEnvironment
	case errors.As(err, &chk):
		return ErrCodeChecker
	case IsPluginError(err):
		return ErrCodePlugin
	default:
		return ErrCodeInternalError
	}
}
