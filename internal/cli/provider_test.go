package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Provider
		wantErr bool
	}{
		{
			name:    "openai valid",
			input:   "openai",
			want:    OpenAIProvider,
			wantErr: false,
		},
		{
			name:    "deepseek valid",
			input:   "deepseek",
			want:    DeepSeekProvider,
			wantErr: false,
		},
		{
			name:    "empty string returns error",
			input:   "",
			want:    Provider{},
			wantErr: true,
		},
		{
			name:    "invalid provider returns error",
			input:   "invalid",
			want:    Provider{},
			wantErr: true,
		},
		{
			name:    "case sensitive - OpenAI invalid",
			input:   "OpenAI",
			want:    Provider{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseProvider(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseProvider(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidProvider) {
				t.Errorf("ParseProvider(%q) error should wrap ErrInvalidProvider, got %v", tt.input, err)
			}
		})
	}
}

func TestMustParseProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid provider does not panic", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("MustParseProvider(\"openai\") panicked: %v", r)
			}
		}()

		p := MustParseProvider("openai")
		if p != OpenAIProvider {
			t.Errorf("MustParseProvider(\"openai\") = %v, want %v", p, OpenAIProvider)
		}
	})

	t.Run("invalid provider panics", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Error("MustParseProvider(\"invalid\") did not panic")
			}
		}()

		_ = MustParseProvider("invalid")
	})
}

func TestProvider_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider Provider
		want     string
	}{
		{"openai", OpenAIProvider, "openai"},
		{"deepseek", DeepSeekProvider, "deepseek"},
		{"zero value", Provider{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.provider.String(); got != tt.want {
				t.Errorf("Provider.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProvider_IsZero(t *testing.T) {
	t.Parallel()

	if !(Provider{}).IsZero() {
		t.Error("zero value IsZero() = false")
	}
	if OpenAIProvider.IsZero() || DeepSeekProvider.IsZero() {
		t.Error("parsed provider IsZero() = true")
	}
}

func TestProvider_IsDeepSeek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider Provider
		want     bool
	}{
		{"deepseek returns true", DeepSeekProvider, true},
		{"openai returns false", OpenAIProvider, false},
		{"zero value returns false", Provider{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.provider.IsDeepSeek(); got != tt.want {
				t.Errorf("Provider.IsDeepSeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProvider_OrDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider Provider
		want     Provider
	}{
		{"zero value returns OpenAI", Provider{}, OpenAIProvider},
		{"OpenAI returns itself", OpenAIProvider, OpenAIProvider},
		{"DeepSeek returns itself", DeepSeekProvider, DeepSeekProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.provider.OrDefault(); got != tt.want {
				t.Errorf("Provider.OrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestProvider_ImplementsStringer verifies Provider implements fmt.Stringer.
// This is also enforced at compile time in provider.go.
func TestProvider_ImplementsStringer(t *testing.T) {
	t.Parallel()

	var p fmt.Stringer = OpenAIProvider
	if p.String() != "openai" {
		t.Errorf("OpenAIProvider.String() = %q, want \"openai\"", p.String())
	}
}
