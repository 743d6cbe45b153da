package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with wrapped error",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "failed to read input",
				Err:     errors.New("file not found"),
			},
			expected: "input: failed to read input: file not found",
		},
		{
			name: "error without wrapped error",
			appError: &AppError{
				Type:    ErrorTypeParsing,
				Message: "invalid JSON syntax",
				Err:     nil,
			},
			expected: "parsing: invalid JSON syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	appErr := &AppError{
		Type:    ErrorTypeInput,
		Message: "test message",
		Err:     wrappedErr,
	}

	result := appErr.Unwrap()
	assert.Equal(t, wrappedErr, result)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		target   error
		expected bool
	}{
		{
			name: "same type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeInput,
				Message: "different message",
				Err:     errors.New("some error"),
			},
			expected: true,
		},
		{
			name: "different type",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target: &AppError{
				Type:    ErrorTypeParsing,
				Message: "test message",
				Err:     nil,
			},
			expected: false,
		},
		{
			name: "not an AppError",
			appError: &AppError{
				Type:    ErrorTypeInput,
				Message: "test message",
				Err:     nil,
			},
			target:   errors.New("standard error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Is(tt.target)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUserFriendlyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "input error",
			err:      NewInputError("failed to read file", nil),
			expected: "Input error: failed to read file",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("invalid JSON syntax", nil),
			expected: "JSON parsing error: invalid JSON syntax",
		},
		{
			name:     "parsing error with syntax cause",
			err:      NewParsingError("failed to parse input", NewSyntaxError(UnexpectedCharacter, 0, "'n'", "")),
			expected: "JSON parsing error: failed to parse input (unexpected character at position 0: found 'n')",
		},
		{
			name:     "serialize error",
			err:      NewSerializeError("failed to serialize value", nil),
			expected: "JSON serialization error: failed to serialize value",
		},
		{
			name:     "format error",
			err:      NewFormatError("failed to pretty print", nil),
			expected: "Formatting error: failed to pretty print",
		},
		{
			name:     "config error",
			err:      NewConfigError("failed to load config", nil),
			expected: "Configuration error: failed to load config",
		},
		{
			name:     "output error",
			err:      NewOutputError("failed to write output", nil),
			expected: "Output error: failed to write output",
		},
		{
			name:     "bare syntax error",
			err:      NewSyntaxError(UnterminatedString, 4, "EOF", "'\"'"),
			expected: "JSON parsing error: unterminated string at position 4: expected '\"', found EOF",
		},
		{
			name:     "standard error - empty input",
			err:      ErrEmptyInput,
			expected: "Error: The input is empty. Please provide valid JSON data.",
		},
		{
			name:     "standard error - invalid JSON",
			err:      ErrInvalidJSON,
			expected: "Error: The input contains invalid JSON. Please check your JSON syntax.",
		},
		{
			name:     "standard error - cycle",
			err:      fmt.Errorf("emit: %w", ErrCycle),
			expected: "Error: The value contains a circular reference and cannot be serialized.",
		},
		{
			name:     "unknown error",
			err:      errors.New("some unknown error"),
			expected: "Error: some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := UserFriendlyError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SyntaxError
		expected string
	}{
		{
			name:     "found only",
			err:      NewSyntaxError(UnexpectedCharacter, 0, "'n'", ""),
			expected: "unexpected character at position 0: found 'n'",
		},
		{
			name:     "expected only",
			err:      NewSyntaxError(UnexpectedEOF, 9, "", "'}'"),
			expected: "unexpected end of input at position 9: expected '}'",
		},
		{
			name: "with field",
			err: &SyntaxError{
				Kind:     UnexpectedToken,
				Pos:      12,
				Found:    "']'",
				Expected: "':'",
				Field:    "user",
			},
			expected: "unexpected token at position 12: expected ':', found ']' (field user)",
		},
		{
			name: "with cause",
			err: &SyntaxError{
				Kind: NumberFormat,
				Pos:  3,
				Err:  errors.New("bad digits"),
			},
			expected: "number format at position 3: bad digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSyntaxError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewSyntaxError(BadEscape, 5, "\\q", ""))

	assert.True(t, errors.Is(err, ErrInvalidJSON))
	assert.True(t, errors.Is(err, &SyntaxError{Kind: BadEscape}))
	assert.False(t, errors.Is(err, &SyntaxError{Kind: NotClosedText}))

	se, ok := AsSyntaxError(err)
	assert.True(t, ok)
	assert.Equal(t, 5, se.Pos)

	_, ok = AsSyntaxError(errors.New("plain"))
	assert.False(t, ok)
}

func TestSyntaxKind_String(t *testing.T) {
	assert.Equal(t, "not closed json text", NotClosedText.String())
	assert.Equal(t, "SyntaxKind(99)", SyntaxKind(99).String())
}
