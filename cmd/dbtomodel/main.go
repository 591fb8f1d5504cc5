package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tordrt/dbtomodel"
	"github.com/tordrt/dbtomodel/internal/config"
	"github.com/tordrt/dbtomodel/internal/formatter"
)

// Summary formats
const (
	summaryText     = "text"
	summaryMarkdown = "markdown"
	summaryNone     = "none"
)

var (
	dbURL         string
	tables        string
	ignore        string
	modelPath     string
	migrationPath string
	maxColumns    int
	entityFormat  string
	stubPath      string
	namespace     string
	configFile    string
	verbose       bool
	summary       string
)

var rootCmd = &cobra.Command{
	Use:   "dbtomodel",
	Short: "Generate Eloquent models and migrations from a live database",
	Long: `dbtomodel reads the schema of a MySQL, PostgreSQL, SQLite or SQL Server database
and writes one model per table, create/add-columns migrations in dependency order,
and a final migration that adds every foreign key.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (postgres://, mysql://, sqlite://, sqlserver://); defaults to DATABASE_URL")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVar(&ignore, "ignore", "", "Additional tables to ignore (comma-separated)")
	rootCmd.Flags().StringVar(&modelPath, "path-model", "", "Output directory for models (default: app/Models)")
	rootCmd.Flags().StringVar(&migrationPath, "path-migration", "", "Output directory for migrations (default: database/migrations)")
	rootCmd.Flags().IntVar(&maxColumns, "max-columns", 0, "Maximum columns per migration, 0 or less disables splitting (default: 15)")
	rootCmd.Flags().StringVarP(&entityFormat, "entity-format", "f", "", "Entity format: eloquent or go (default: eloquent)")
	rootCmd.Flags().StringVar(&stubPath, "stubs", "", "Directory with stub overrides")
	rootCmd.Flags().StringVar(&namespace, "namespace", "", `Namespace of generated models (default: App\Models)`)
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default: dbtomodel.yaml if present)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.Flags().StringVarP(&summary, "summary", "s", summaryNone, "Print a run summary: text, markdown or none")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch summary {
	case summaryText, summaryMarkdown, summaryNone:
	default:
		return fmt.Errorf("invalid summary format: %s (must be 'text', 'markdown' or 'none')", summary)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--db-url, DATABASE_URL or database_url in the config file must be specified")
	}

	logger := newLogger(cmd.ErrOrStderr(), verbose)

	opts := &dbtomodel.Options{
		Tables:                 parseTableList(tables),
		ExcludeTables:          cfg.IgnoredTables,
		MaxColumnsPerMigration: cfg.MaxColumnsPerMigration,
		EntityFormat:           cfg.EntityFormat,
		Namespace:              cfg.Namespace,
		StubDir:                cfg.StubPath,
		GoPackage:              cfg.GoPackage,
		Logger:                 logger,
	}
	out := &dbtomodel.OutputOptions{
		ModelDir:     cfg.Paths.Model,
		MigrationDir: cfg.Paths.Migration,
	}

	report, err := dbtomodel.Generate(ctx, cfg.DatabaseURL, opts, out)
	if err != nil {
		return fmt.Errorf("failed to generate: %w", err)
	}

	w := cmd.OutOrStdout()
	switch summary {
	case summaryText:
		return formatter.NewTextFormatter(w).Format(report)
	case summaryMarkdown:
		return formatter.NewMarkdownFormatter(w).Format(report)
	}
	return nil
}

// applyFlags overrides the loaded config with the flags given on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.DatabaseURL = dbURL
	}
	if flags.Changed("ignore") {
		cfg.IgnoredTables = mergeTables(cfg.IgnoredTables, parseTableList(ignore))
	}
	if flags.Changed("path-model") {
		cfg.Paths.Model = modelPath
	}
	if flags.Changed("path-migration") {
		cfg.Paths.Migration = migrationPath
	}
	if flags.Changed("max-columns") {
		cfg.MaxColumnsPerMigration = maxColumns
	}
	if flags.Changed("entity-format") {
		cfg.EntityFormat = entityFormat
	}
	if flags.Changed("stubs") {
		cfg.StubPath = stubPath
	}
	if flags.Changed("namespace") {
		cfg.Namespace = namespace
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseTableList splits a comma-separated table list
func parseTableList(s string) []string {
	return config.SplitList(s)
}

// mergeTables appends extra names that are not already listed
func mergeTables(base, extra []string) []string {
	merged := slices.Clone(base)
	for _, name := range extra {
		if !slices.Contains(merged, name) {
			merged = append(merged, name)
		}
	}
	return merged
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
