package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Asset errors
	ErrCodeAssetNotFound     ErrorCode = "ASSET_NOT_FOUND"
	ErrCodeAssetInvalid      ErrorCode = "ASSET_INVALID"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeDuplicateTexture  ErrorCode = "DUPLICATE_TEXTURE"
	ErrCodeTuneNotFound      ErrorCode = "TUNE_NOT_FOUND"
	ErrCodeEmbedNameInvalid  ErrorCode = "EMBED_NAME_INVALID"

	// Compile errors
	ErrCodeSceneCompile   ErrorCode = "SCENE_COMPILE_FAILED"
	ErrCodeTextureCompile ErrorCode = "TEXTURE_COMPILE_FAILED"
	ErrCodeTxdCompile     ErrorCode = "TXD_COMPILE_FAILED"

	// Watch errors
	ErrCodeWatchFailed ErrorCode = "WATCH_FAILED"

	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// HotloadError represents a structured error with context
type HotloadError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *HotloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HotloadError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *HotloadError) WithDetail(key string, value interface{}) *HotloadError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *HotloadError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new HotloadError
func New(code ErrorCode, message string) *HotloadError {
	return &HotloadError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HotloadError
func Wrap(err error, code ErrorCode, message string) *HotloadError {
	return &HotloadError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific HotloadError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	hotErr, ok := err.(*HotloadError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if hotErr.Code == code {
		return true
	}
	return hotErr.Cause != nil && Is(hotErr.Cause, code)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	hotErr, ok := err.(*HotloadError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return hotErr.Code
}
