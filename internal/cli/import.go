package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/store/interdb"
)

// newImportCmd groups the database importers.
func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load matrices or windows into an interaction database",
	}
	cmd.AddCommand(newImportMy5cCmd())
	cmd.AddCommand(newImportWindowsCmd())
	return cmd
}

// openImportDB opens (creating if needed) the SQLite database and ensures
// the shared schema exists.
func openImportDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreIO, err, "opening database %s", path)
	}
	if err := interdb.CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newImportMy5cCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "my5c [file...]",
		Short: "Import dense my5c matrices into the sparse SQLite schema",
		Long: `Import parses dense my5c text matrices and loads their defined cells into
one SQLite table per chromosome, with an (x, y) index built after the load.
The windows table is filled from the my5c row labels.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportMy5c(cmd.Context(), dbPath, args)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (required)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runImportMy5c(ctx context.Context, dbPath string, paths []string) error {
	logger := loggerFromContext(ctx)

	db, err := openImportDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	prog := newProgress(logger)
	if err := interdb.ImportMy5c(db, logger, paths...); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Imported %d matrix file(s) into %s", len(paths), dbPath))
	return nil
}

func newImportWindowsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "windows [file.bed]",
		Short: "Import a BED file into the windows table",
		Long: `Import reads BED intervals and fills the windows table, assigning each
chromosome its own zero-based sequential window indices in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportWindows(cmd.Context(), dbPath, args[0])
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (required)")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func runImportWindows(ctx context.Context, dbPath, bedPath string) error {
	logger := loggerFromContext(ctx)

	db, err := openImportDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	prog := newProgress(logger)
	n, err := interdb.ImportWindows(db, bedPath)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Imported %d windows into %s", n, dbPath))
	return nil
}
