package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidArguments indicates a required input is missing or malformed
	InvalidArguments ErrorCode = "INVALID_ARGUMENTS"
	// ModuleNotFound indicates the requested submodule is not in the project tree
	ModuleNotFound ErrorCode = "MODULE_NOT_FOUND"
	// ProviderConnection indicates the build model provider is unreachable or misbehaving
	ProviderConnection ErrorCode = "PROVIDER_CONNECTION"
	// ArchiveRead indicates an archive could not be opened or read
	ArchiveRead ErrorCode = "ARCHIVE_READ"
	// UnsupportedLocation indicates a location that is neither a source file nor an archive
	UnsupportedLocation ErrorCode = "UNSUPPORTED_LOCATION"
	// DecompilationFailed indicates the external decompiler failed or produced no output
	DecompilationFailed ErrorCode = "DECOMPILATION_FAILED"
	// SourceReadFailed indicates a plain source file could not be read
	SourceReadFailed ErrorCode = "SOURCE_READ_FAILED"
	// ConfigInvalid indicates the configuration file is unreadable or invalid
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// Error is a gcf error with a stable code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error with the default suggested fixes for its code
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// NewInvalidArgumentsError reports a missing or malformed input.
func NewInvalidArgumentsError(param, reason string) *Error {
	msg := fmt.Sprintf("invalid argument %q", param)
	if reason != "" {
		msg += ": " + reason
	}
	return New(InvalidArguments, msg, nil).WithDetails(map[string]string{"param": param})
}

// NewModuleNotFoundError reports a submodule path absent from the project tree.
func NewModuleNotFoundError(submodulePath string, available []string) *Error {
	return New(ModuleNotFound, fmt.Sprintf("submodule not found: %s", submodulePath), nil).
		WithDetails(map[string]interface{}{
			"submodulePath": submodulePath,
			"available":     available,
		})
}

// NewProviderConnectionError reports a build model provider failure.
func NewProviderConnectionError(projectRoot string, cause error) *Error {
	return New(ProviderConnection, fmt.Sprintf("failed to load build model for %s", projectRoot), cause)
}

// NewUnsupportedLocationError reports a location that cannot be retrieved from.
func NewUnsupportedLocationError(location string) *Error {
	return New(UnsupportedLocation, fmt.Sprintf("unsupported location type: %s", location), nil)
}

// NewDecompilationError reports a failed decompiler run.
func NewDecompilationError(className string, cause error) *Error {
	return New(DecompilationFailed, fmt.Sprintf("failed to decompile %s", className), cause)
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ModuleNotFound: {
		{
			Type:        RunCommand,
			Command:     "gcf modules ${project_root}",
			Safe:        true,
			Description: "List the modules Gradle reports for this project",
		},
		{
			Type:        OpenDocs,
			URL:         "https://docs.gradle.org/current/userguide/multi_project_builds.html",
			Description: "Submodules are declared with include in settings.gradle",
		},
	},
	ProviderConnection: {
		{
			Type:        RunCommand,
			Command:     "./gradlew help",
			Safe:        true,
			Description: "Check that the Gradle build configures successfully",
		},
		{
			Type:        RunCommand,
			Command:     "gcf model dump ${project_root} --output model.json",
			Safe:        true,
			Description: "Capture a model snapshot and reuse it with --model-file",
		},
	},
	DecompilationFailed: {
		{
			Type:        InstallTool,
			Tool:        "cfr",
			URL:         "https://www.benf.org/other/cfr/",
			Description: "Install the CFR decompiler and point decompiler.cfrJar at it",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "gcf config show ${project_root}",
			Safe:        true,
			Description: "Show the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
