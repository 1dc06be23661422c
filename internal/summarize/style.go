// Package summarize turns a merged transcript and its chapter list into a
// structured, style-shaped summary, windowing the transcript by chapter
// boundaries when it exceeds the generation service's input budget.
package summarize

import (
	"errors"
	"fmt"
)

// ErrUnknownStyle indicates an invalid style name was specified.
var ErrUnknownStyle = errors.New("unknown summary style")

// Style name constants.
// Use these instead of string literals for compile-time safety.
const (
	Brief    = "brief"
	Detailed = "detailed"
	Bullet   = "bullet"
)

// Style represents a validated summary style.
// Zero value is invalid and must not be used.
// Use ParseStyle to create from user input, or the pre-parsed constants.
type Style struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Style{}

// Pre-parsed style constants for use in code.
var (
	BriefStyle    = Style{name: Brief}
	DetailedStyle = Style{name: Detailed}
	BulletStyle   = Style{name: Bullet}
)

// styleOrder defines the canonical order for Styles().
var styleOrder = []string{Brief, Detailed, Bullet}

// validStyles contains the set of valid style names.
var validStyles = map[string]bool{
	Brief:    true,
	Detailed: true,
	Bullet:   true,
}

// ParseStyle validates and parses a style name string.
// Returns ErrUnknownStyle if the name is not recognized.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return Style{}, fmt.Errorf("style cannot be empty: %w", ErrUnknownStyle)
	}
	if !validStyles[s] {
		return Style{}, fmt.Errorf("unknown style %q (use 'brief', 'detailed', or 'bullet'): %w",
			s, ErrUnknownStyle)
	}
	return Style{name: s}, nil
}

// MustParseStyle parses a style name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseStyle(s string) Style {
	st, err := ParseStyle(s)
	if err != nil {
		panic(err)
	}
	return st
}

// String returns the style name.
// Returns empty string for zero value.
func (s Style) String() string {
	return s.name
}

// IsZero returns true if this is the zero value (no style set).
func (s Style) IsZero() bool {
	return s.name == ""
}

// Styles returns the valid style names in canonical order, for CLI help
// and error messages.
func Styles() []string {
	out := make([]string, len(styleOrder))
	copy(out, styleOrder)
	return out
}
