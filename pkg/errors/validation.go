package errors

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxDocumentBytes caps the size of YAML text accepted from untrusted callers
// (HTTP relay, MCP tools). The CLI reads local files and does not apply it.
const MaxDocumentBytes = 1 << 20

// ValidateDocumentText validates YAML input received over the network.
//
// Validation rules:
//   - Must be valid UTF-8
//   - No NUL bytes
//   - At most maxBytes bytes (MaxDocumentBytes when maxBytes <= 0)
//
// Empty text is valid: it means "no documents".
func ValidateDocumentText(text string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = MaxDocumentBytes
	}
	if len(text) > maxBytes {
		return New(ErrCodeTooLarge, "document too large (max %d bytes)", maxBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "document is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "document contains NUL bytes")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateOutputPath validates a file path the CLI writes rendered output to.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}
	return nil
}

// FromValidation converts struct-tag validation failures into a coded error
// describing the first failing field. Other errors are wrapped unchanged.
func FromValidation(code Code, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Wrap(code, err, "validation failed")
	}

	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return New(code, "%s: field is required", field)
	case "min", "gte":
		return New(code, "%s: must be at least %s", field, e.Param())
	case "max", "lte":
		return New(code, "%s: must not exceed %s", field, e.Param())
	case "oneof":
		return New(code, "%s: must be one of %s", field, e.Param())
	case "url", "http_url":
		return New(code, "%s: must be a URL", field)
	default:
		return New(code, "%s: validation failed (%s)", field, e.Tag())
	}
}
