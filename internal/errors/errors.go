package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON format")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = errors.New("file is empty")
	ErrNoInput          = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrCycle            = errors.New("circular reference detected")
	ErrUnsupportedType  = errors.New("unsupported value type")
	ErrUnknownOutputFmt = errors.New("unknown output format")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeSerialize ErrorType = "serialize"
	ErrorTypeFormat    ErrorType = "format"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewSerializeError creates a new error related to JSON serialization
func NewSerializeError(message string, err error) *AppError {
	return newAppError(ErrorTypeSerialize, message, err)
}

// NewFormatError creates a new error related to pretty printing or conversion
func NewFormatError(message string, err error) *AppError {
	return newAppError(ErrorTypeFormat, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// SyntaxKind classifies a lexer or parser failure
type SyntaxKind int

const (
	UnexpectedToken SyntaxKind = iota + 1
	UnexpectedCharacter
	UnterminatedString
	BadEscape
	NumberFormat
	UnclosedContainer
	UnexpectedEOF
	NotClosedText
)

var syntaxKindNames = map[SyntaxKind]string{
	UnexpectedToken:     "unexpected token",
	UnexpectedCharacter: "unexpected character",
	UnterminatedString:  "unterminated string",
	BadEscape:           "bad escape",
	NumberFormat:        "number format",
	UnclosedContainer:   "unclosed container",
	UnexpectedEOF:       "unexpected end of input",
	NotClosedText:       "not closed json text",
}

func (k SyntaxKind) String() string {
	if name, ok := syntaxKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SyntaxKind(%d)", int(k))
}

// SyntaxError reports malformed input. Pos is a byte offset into the text.
type SyntaxError struct {
	Kind     SyntaxKind
	Pos      int
	Found    string
	Expected string
	Field    string
	Err      error
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at position %d", e.Kind, e.Pos)
	switch {
	case e.Expected != "" && e.Found != "":
		fmt.Fprintf(&b, ": expected %s, found %s", e.Expected, e.Found)
	case e.Expected != "":
		fmt.Fprintf(&b, ": expected %s", e.Expected)
	case e.Found != "":
		fmt.Fprintf(&b, ": found %s", e.Found)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidJSON and any *SyntaxError of the same kind
func (e *SyntaxError) Is(target error) bool {
	if target == ErrInvalidJSON {
		return true
	}
	t, ok := target.(*SyntaxError)
	return ok && t.Kind == e.Kind
}

// NewSyntaxError creates a syntax error of the given kind at pos
func NewSyntaxError(kind SyntaxKind, pos int, found, expected string) *SyntaxError {
	return &SyntaxError{Kind: kind, Pos: pos, Found: found, Expected: expected}
}

// AsSyntaxError extracts a *SyntaxError from err's chain
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if se, ok := AsSyntaxError(appErr.Err); ok {
			msg = fmt.Sprintf("%s (%s)", msg, se.Error())
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", msg)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", msg)
		case ErrorTypeSerialize:
			return fmt.Sprintf("JSON serialization error: %s", msg)
		case ErrorTypeFormat:
			return fmt.Sprintf("Formatting error: %s", msg)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", msg)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", msg)
		default:
			return fmt.Sprintf("Error: %s", msg)
		}
	}

	if se, ok := AsSyntaxError(err); ok {
		return fmt.Sprintf("JSON parsing error: %s", se.Error())
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrCycle) {
		return "Error: The value contains a circular reference and cannot be serialized."
	}

	return fmt.Sprintf("Error: %v", err)
}
