package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches "#rgb" and "#rrggbb" colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex color as accepted by the gradient model.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// MaxDimension bounds export and raster sizes.
const MaxDimension = 8192

// ValidateDimensions validates an output width and height in pixels.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidSize, "dimensions must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidSize, "dimensions too large (max %d), got %dx%d", MaxDimension, width, height)
	}
	return nil
}

// presetNameRegex matches preset names: lowercase words joined by dashes.
var presetNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidatePresetName validates the shape of a preset name. It does not check
// that the preset exists.
func ValidatePresetName(name string) error {
	if !presetNameRegex.MatchString(strings.ToLower(name)) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
