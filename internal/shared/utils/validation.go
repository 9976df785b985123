package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// JSON size limits (in bytes)
const (
	MaxJSONSize    = 64 * 1024 // request bodies
	MaxMessageSize = 16 * 1024 // single WebSocket message
)

// String length limits
const (
	MaxIDLength       = 128
	MaxLabelLength    = 128
	MaxRouteLength    = 512
	MaxIconLength     = 64
	MaxGroupKeyLength = 64
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// IconPattern allows icon font ligature names
	IconPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
	// RoutePattern allows URL path characters, plus query and fragment
	RoutePattern = regexp.MustCompile(`^/?[A-Za-z0-9\-._~!$&'()*+,;=:@%/?#]*$`)
)

// JSONSizeValidator validates JSON size limits
type JSONSizeValidator struct {
	maxSize int
}

// NewJSONSizeValidator creates a new validator with the specified max size
func NewJSONSizeValidator(maxSize int) *JSONSizeValidator {
	return &JSONSizeValidator{maxSize: maxSize}
}

// DefaultJSONValidator returns a validator with the request body limit
func DefaultJSONValidator() *JSONSizeValidator {
	return NewJSONSizeValidator(MaxJSONSize)
}

// ValidateSize checks if the data size is within limits
func (v *JSONSizeValidator) ValidateSize(data []byte) error {
	size := len(data)
	if size > v.maxSize {
		return fmt.Errorf("JSON size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}

// ValidateJSON validates both size and JSON structure
func (v *JSONSizeValidator) ValidateJSON(data []byte) error {
	if err := v.ValidateSize(data); err != nil {
		return err
	}
	if !sonic.ConfigStd.Valid(data) {
		return fmt.Errorf("invalid JSON")
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateRoute validates an application route
func ValidateRoute(route string, required bool) error {
	if err := ValidateString(route, "route", 1, MaxRouteLength, required); err != nil {
		return err
	}
	if route == "" {
		return nil
	}
	if strings.TrimSpace(route) == "" {
		return fmt.Errorf("route is required")
	}
	if !RoutePattern.MatchString(route) {
		return fmt.Errorf("route contains invalid characters")
	}
	if strings.Contains(route, "://") || strings.HasPrefix(route, "//") {
		return fmt.Errorf("route must be a path, not a URL")
	}
	return nil
}

// ValidateLabel validates a tab label
func ValidateLabel(label string, required bool) error {
	return ValidateString(label, "label", 1, MaxLabelLength, required)
}

// ValidateIcon validates an icon name
func ValidateIcon(icon string) error {
	if err := ValidateString(icon, "icon", 1, MaxIconLength, false); err != nil {
		return err
	}
	if icon != "" && !IconPattern.MatchString(icon) {
		return fmt.Errorf("icon contains invalid characters")
	}
	return nil
}

// ValidateGroupKey validates a menu group key
func ValidateGroupKey(key string) error {
	if err := ValidateString(key, "group key", 1, MaxGroupKeyLength, true); err != nil {
		return err
	}
	if !SafeIDPattern.MatchString(key) {
		return fmt.Errorf("group key contains invalid characters (only alphanumeric, hyphens, and underscores allowed)")
	}
	return nil
}
