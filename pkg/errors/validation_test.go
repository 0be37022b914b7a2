package errors

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidateDocumentText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxBytes int
		wantCode Code
	}{
		{"empty", "", 0, ""},
		{"simple mapping", "a: 1\nb: 2\n", 0, ""},
		{"multi document", "a: 1\n---\nb: 2\n", 0, ""},
		{"unicode", "ad: Ümit\n", 0, ""},

		{"too large", strings.Repeat("a", 11), 10, ErrCodeTooLarge},
		{"invalid utf8", "a: \xff\n", 0, ErrCodeInvalidInput},
		{"null byte", "a: 1\x00", 0, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentText(tt.input, tt.maxBytes)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateDocumentText(%q) error = %v, want nil", tt.input, err)
				}
				return
			}
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateDocumentText(%q) code = %v, want %v", tt.input, got, tt.wantCode)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.anthropic.com/v1/messages", false},
		{"http localhost", "http://localhost:8080/api/fix", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"file", "out.svg", false},
		{"nested", "build/graphs/out.png", false},

		{"empty", "", true},
		{"directory", "build/", true},
		{"null byte", "out\x00.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFromValidation(t *testing.T) {
	type section struct {
		Backend string `validate:"oneof=none file redis"`
		Size    int    `validate:"gte=1"`
	}
	type config struct {
		Name    string `validate:"required"`
		Section section
	}
	v := validator.New()

	tests := []struct {
		name string
		cfg  config
		want string
	}{
		{"required", config{Section: section{Backend: "file", Size: 1}}, "config.Name: field is required"},
		{"oneof", config{Name: "x", Section: section{Backend: "s3", Size: 1}}, "config.Section.Backend: must be one of none file redis"},
		{"gte", config{Name: "x", Section: section{Backend: "file"}}, "config.Section.Size: must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromValidation(ErrCodeInvalidConfig, v.Struct(tt.cfg))
			if !Is(err, ErrCodeInvalidConfig) {
				t.Fatalf("FromValidation() = %v, want INVALID_CONFIG", err)
			}
			if got := UserMessage(err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}

	if FromValidation(ErrCodeInvalidConfig, nil) != nil {
		t.Error("nil error should stay nil")
	}
}
