package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/store/bundle"
	"github.com/matzehuels/trackstack/pkg/store/my5c"
)

// newBundleCmd creates the bundle command: dense my5c text in, compressed
// binary bundle out.
func newBundleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "bundle [file.my5c.txt]",
		Short: "Convert a dense my5c matrix to a compressed binary bundle",
		Example: `  trackstack bundle hic_mm9_chr1_chr1.my5c.txt
  trackstack bundle hic_mm9_chr1_chr1.my5c.txt -o chr1.itx.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with "+bundle.Suffix+")")
	return cmd
}

func runBundle(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	if output == "" {
		output = strings.TrimSuffix(input, my5c.Suffix) + bundle.Suffix
	}

	f, err := my5c.OpenFile(input)
	if err != nil {
		return err
	}
	ws := f.Windows()
	logger.Debugf("Parsed %s: %d windows", input, len(ws))

	out, err := os.Create(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "creating %s", output)
	}
	defer out.Close()

	prog := newProgress(logger)
	if err := bundle.Write(out, ws, f.Scores()); err != nil {
		os.Remove(output)
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreIO, err, "writing %s", output)
	}
	prog.done("Bundled " + input + " to " + output)
	return nil
}
