package genome

import "fmt"

// FormatDistance turns a genomic distance in base pairs into a compact label:
// "850bp", "1.5kb", "2.0Mb". precision controls the number of digits after
// the decimal point for the kb and Mb forms; base-pair distances are always
// printed as integers.
func FormatDistance(distance int64, precision int) string {
	switch {
	case distance < 1_000:
		return fmt.Sprintf("%dbp", distance)
	case distance < 1_000_000:
		return fmt.Sprintf("%.*fkb", precision, float64(distance)/1_000)
	default:
		return fmt.Sprintf("%.*fMb", precision, float64(distance)/1_000_000)
	}
}
