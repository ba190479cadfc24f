package store

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/trackstack/pkg/errors"
)

// FindChromFile locates the single data file for a chromosome inside a
// folder of per-chromosome files. The glob pattern embeds the chromosome
// name twice, matching the my5c naming convention
// (e.g. "*chr1_chr1*.my5c.txt").
//
// Exactly one match is required: zero matches fail with NO_FILE_FOUND and
// more than one with AMBIGUOUS_FILE. Both are fatal for the lookup and are
// never retried, since they indicate a data layout problem rather than a
// transient condition.
func FindChromFile(folder, chrom, suffix string) (string, error) {
	if err := errors.ValidateChromName(chrom); err != nil {
		return "", err
	}

	pattern := filepath.Join(folder, fmt.Sprintf("*%s_%s*%s", chrom, chrom, suffix))
	found, err := filepath.Glob(pattern)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreIO, err, "globbing %q", pattern)
	}

	if len(found) > 1 {
		return "", errors.New(errors.ErrCodeAmbiguousFile,
			"folder %s must have only one %s file per chromosome, found %d for %s",
			folder, suffix, len(found), chrom)
	}
	if len(found) == 0 {
		return "", errors.New(errors.ErrCodeNoFileFound,
			"no %s file found matching %s with search pattern %q", suffix, chrom, pattern)
	}

	return found[0], nil
}
