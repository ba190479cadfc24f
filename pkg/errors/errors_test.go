package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidRegion, "start 100 >= stop 50"),
			want: "INVALID_REGION: start 100 >= stop 50",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeStoreIO, stderrors.New("disk gone"), "failed to read matrix"),
			want: "STORE_IO: failed to read matrix: disk gone",
		},
		{
			name: "formatted message",
			err:  New(ErrCodeUnknownChrom, "%s not found in the list of windows", "chrX"),
			want: "UNKNOWN_CHROMOSOME: chrX not found in the list of windows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := New(ErrCodeEmptySelection, "no window overlaps chr1:10-20")
	outer := fmt.Errorf("plotting interactions: %w", inner)

	if !Is(outer, ErrCodeEmptySelection) {
		t.Error("Is() should find EMPTY_SELECTION through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeUnknownChrom) {
		t.Error("Is() matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeEmptySelection) {
		t.Error("Is() matched a plain error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeAmbiguousFile, "two files for chr1")); got != ErrCodeAmbiguousFile {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeAmbiguousFile)
	}
	if got := GetCode(stderrors.New("plain")); got != Code("") {
		t.Errorf("GetCode() on plain error = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeMalformedWindows, cause, "bad label")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestValidateChromName(t *testing.T) {
	tests := []struct {
		name    string
		chrom   string
		wantErr bool
	}{
		{"standard chromosome", "chr1", false},
		{"sex chromosome", "chrX", false},
		{"scaffold with underscore", "chr1_gl000191_random", false},
		{"dotted assembly name", "GL000225.1", false},
		{"empty", "", true},
		{"whitespace", "chr 1", true},
		{"sql injection", `chr1"; DROP TABLE windows;--`, true},
		{"leading dash", "-chr1", true},
		{"reserved table name", "windows", true},
		{"control character", "chr1\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChromName(tt.chrom)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChromName(%q) error = %v, wantErr %v", tt.chrom, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChrom) {
				t.Errorf("ValidateChromName(%q) code = %q, want INVALID_CHROMOSOME", tt.chrom, GetCode(err))
			}
		})
	}
}
