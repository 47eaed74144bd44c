// Package errors defines the coded error types shared by the bot's components.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown         = "UNKNOWN"
	CodeCommandFormat   = "COMMAND_FORMAT"
	CodeChainSubmission = "CHAIN_SUBMISSION"
	CodeRateLimit       = "RATE_LIMIT"
	CodeAPI             = "API"
	CodeConfig          = "CONFIG"
	CodeStore           = "STORE"
)

// ApplicationError is the interface that all our custom errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if it doesn't carry one.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// CommandFormatError reports mention text that does not follow the deploy command syntax.
// Its message is the syntax the user is expected to follow.
type CommandFormatError struct {
	base Error
}

func (e *CommandFormatError) Error() string { return e.base.Error() }
func (e *CommandFormatError) Code() string  { return e.base.Code() }
func (e *CommandFormatError) Unwrap() error { return e.base.Unwrap() }

func NewCommandFormatError(message string) error {
	return &CommandFormatError{
		base: Error{
			code:    CodeCommandFormat,
			message: message,
		},
	}
}

// ChainSubmissionError covers every failure between encoding the factory call
// and the RPC node accepting the signed transaction.
type ChainSubmissionError struct {
	base Error
}

func (e *ChainSubmissionError) Error() string { return e.base.Error() }
func (e *ChainSubmissionError) Code() string  { return e.base.Code() }
func (e *ChainSubmissionError) Unwrap() error { return e.base.Unwrap() }

func NewChainSubmissionError(message string, cause error) error {
	return &ChainSubmissionError{
		base: Error{
			code:    CodeChainSubmission,
			message: message,
			err:     cause,
		},
	}
}

// RateLimitError means the social API throttled us.
type RateLimitError struct {
	base Error
}

func (e *RateLimitError) Error() string { return e.base.Error() }
func (e *RateLimitError) Code() string  { return e.base.Code() }
func (e *RateLimitError) Unwrap() error { return e.base.Unwrap() }

func NewRateLimitError(message string, cause error) error {
	return &RateLimitError{
		base: Error{
			code:    CodeRateLimit,
			message: message,
			err:     cause,
		},
	}
}

type APIError struct {
	base Error
}

func (e *APIError) Error() string { return e.base.Error() }
func (e *APIError) Code() string  { return e.base.Code() }
func (e *APIError) Unwrap() error { return e.base.Unwrap() }

func NewAPIError(message string, cause error) error {
	return &APIError{
		base: Error{
			code:    CodeAPI,
			message: message,
			err:     cause,
		},
	}
}

type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string { return e.base.Error() }
func (e *ConfigError) Code() string  { return e.base.Code() }
func (e *ConfigError) Unwrap() error { return e.base.Unwrap() }

func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

type StoreError struct {
	base Error
}

func (e *StoreError) Error() string { return e.base.Error() }
func (e *StoreError) Code() string  { return e.base.Code() }
func (e *StoreError) Unwrap() error { return e.base.Unwrap() }

func NewStoreError(message string, cause error) error {
	return &StoreError{
		base: Error{
			code:    CodeStore,
			message: message,
			err:     cause,
		},
	}
}

// IsRateLimit reports whether err's chain contains a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
