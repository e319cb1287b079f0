package errors

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrorCode represents the type of error that occurred
type ErrorCode string

const (
	// Lookup errors
	ErrorCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrorCodeUnknownKind      ErrorCode = "UNKNOWN_KIND"

	// Input validation errors
	ErrorCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrorCodeInvalidGroup    ErrorCode = "INVALID_GROUP"
	ErrorCodeInvalidManifest ErrorCode = "INVALID_MANIFEST"

	// Generation errors
	ErrorCodeDuplicateFile ErrorCode = "DUPLICATE_FILE"

	// System errors
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// FunctionError represents a comprehensive error with context
type FunctionError struct {
	Code        ErrorCode         `json:"code"`
	Message     string            `json:"message"`
	ResourceRef *ResourceRef      `json:"resourceRef,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Cause       error             `json:"-"`
}

// ResourceRef identifies the resource an error refers to
type ResourceRef struct {
	Kind    string `json:"kind"`
	Group   string `json:"group,omitempty"`
	Version string `json:"version,omitempty"`
	Package string `json:"package,omitempty"`
}

// Error implements the error interface
func (e *FunctionError) Error() string {
	var parts []string

	if e.ResourceRef != nil {
		switch {
		case e.ResourceRef.Group != "" && e.ResourceRef.Version != "":
			parts = append(parts, fmt.Sprintf("resource %s/%s %s",
				e.ResourceRef.Group, e.ResourceRef.Version, e.ResourceRef.Kind))
		case e.ResourceRef.Group != "":
			parts = append(parts, fmt.Sprintf("resource %s %s", e.ResourceRef.Group, e.ResourceRef.Kind))
		default:
			parts = append(parts, fmt.Sprintf("resource %s", e.ResourceRef.Kind))
		}
	}

	parts = append(parts, string(e.Code))
	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *FunctionError) Unwrap() error {
	return e.Cause
}

// New creates a new FunctionError
func New(code ErrorCode, message string) *FunctionError {
	return &FunctionError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
	}
}

// Wrap creates a FunctionError wrapping another error
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// Keep the code of a wrapped FunctionError
	if fe, ok := err.(*FunctionError); ok {
		return &FunctionError{
			Code:        fe.Code,
			Message:     message,
			ResourceRef: fe.ResourceRef,
			Timestamp:   time.Now(),
			Context:     make(map[string]string),
			Cause:       fe,
		}
	}

	return errors.Wrap(err, message)
}

// Wrapf creates a FunctionError wrapping another error with formatting
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithResource adds resource context to an error
func (e *FunctionError) WithResource(ref ResourceRef) *FunctionError {
	e.ResourceRef = &ref
	return e
}

// WithContext adds additional context
func (e *FunctionError) WithContext(key, value string) *FunctionError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fe *FunctionError
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var fe *FunctionError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ErrorCodeInternalError
}

// ValidationError creates a validation error
func ValidationError(message string) *FunctionError {
	return New(ErrorCodeInvalidInput, message)
}

// ResourceNotFoundError creates a resource not found error
func ResourceNotFoundError(ref ResourceRef) *FunctionError {
	return New(ErrorCodeResourceNotFound, "resource not found in registry").WithResource(ref)
}

// UnknownKindError reports a builtin kind that the registry cannot place in a group
func UnknownKindError(kind string) *FunctionError {
	return New(ErrorCodeUnknownKind, "unknown resource kind").
		WithResource(ResourceRef{Kind: kind}).
		WithContext("tip", "set package to k8s.io/api/<group>/<version> to control a builtin resource the registry does not know")
}

// InvalidGroupError reports a custom resource that claims a builtin group
func InvalidGroupError(ref ResourceRef) *FunctionError {
	return New(ErrorCodeInvalidGroup, "custom resource group cannot be a builtin group or end with .k8s.io").
		WithResource(ref).
		WithContext("tip", "leave group empty and unset isCustom to use a builtin resource")
}

// KindGroupMismatchError reports an official kind declared under another group
func KindGroupMismatchError(ref ResourceRef, group string) *FunctionError {
	return New(ErrorCodeInvalidGroup, fmt.Sprintf("kind %s belongs to group %s", ref.Kind, group)).
		WithResource(ref).
		WithContext("tip", "leave group empty to use the registered group, or set isCustom for a custom resource")
}

// InvalidManifestError reports a manifest that cannot be decoded
func InvalidManifestError(source string, cause error) *FunctionError {
	e := New(ErrorCodeInvalidManifest, "cannot decode manifest").WithContext("source", source)
	e.Cause = cause
	return e
}

// DuplicateFileError reports two resources that would generate the same file
func DuplicateFileError(path string, ref ResourceRef) *FunctionError {
	return New(ErrorCodeDuplicateFile, fmt.Sprintf("file %s is generated more than once", path)).
		WithResource(ref).
		WithContext("path", path)
}
