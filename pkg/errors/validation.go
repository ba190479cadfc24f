package errors

import (
	"strings"
	"unicode"
)

// ValidateChromName validates a chromosome name before it is used to locate
// data files or interpolated into SQL as a per-chromosome table name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Only letters, digits, underscore, dot and dash
//   - Must start with a letter or digit
//   - Maximum length of 64 characters
//
// Store backends call this before any lookup, so a hostile or mistyped
// chromosome string fails with INVALID_CHROMOSOME instead of reaching the
// filesystem or the database.
func ValidateChromName(chrom string) error {
	if chrom == "" {
		return New(ErrCodeInvalidChrom, "chromosome name cannot be empty")
	}

	if len(chrom) > 64 {
		return New(ErrCodeInvalidChrom, "chromosome name too long (max 64 characters)")
	}

	for i, r := range chrom {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// always fine
		case r == '_' || r == '.' || r == '-':
			if i == 0 {
				return New(ErrCodeInvalidChrom,
					"chromosome name must start with a letter or digit: %q", chrom)
			}
		default:
			return New(ErrCodeInvalidChrom,
				"chromosome name contains invalid character %q", r)
		}
	}

	// SQL table names additionally must not collide with the windows table.
	if strings.EqualFold(chrom, "windows") {
		return New(ErrCodeInvalidChrom, "chromosome name %q is reserved", chrom)
	}

	return nil
}
