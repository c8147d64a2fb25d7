package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fascani/amabot/internal/config"
	"github.com/fascani/amabot/internal/database"
	"github.com/fascani/amabot/internal/repository"
	"github.com/fascani/amabot/internal/sheet"
)

func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import CSV sheets into Postgres",
		Long:  "Replace the Postgres entry collection with the contents of the info CSV and append any Q&A rows from the log CSV",
		RunE:  runImport,
	}

	cmd.Flags().String("info", "", "Info CSV path (defaults to AMABOT_SHEET_INFO_PATH)")
	cmd.Flags().String("log", "", "Q&A log CSV path (defaults to AMABOT_SHEET_LOG_PATH)")
	cmd.Flags().Bool("skip-log", false, "Import only the entries, not the Q&A log")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, pgStore, closePool, err := openPostgres(ctx)
	if err != nil {
		return err
	}
	defer closePool()

	infoPath, logPath := sheetPaths(cmd, cfg)
	csvStore := sheet.NewStore(infoPath, logPath)

	entries, err := csvStore.LoadEntries(ctx)
	if err != nil {
		return err
	}
	if err := pgStore.ReplaceEntries(ctx, entries); err != nil {
		return err
	}
	fmt.Printf("imported %d entries from %s\n", len(entries), infoPath)

	if skipLog, _ := cmd.Flags().GetBool("skip-log"); skipLog {
		return nil
	}

	interactions, err := csvStore.LoadInteractions(ctx)
	if err != nil {
		return err
	}
	for _, q := range interactions {
		if err := pgStore.AppendInteraction(ctx, q); err != nil {
			return err
		}
	}
	fmt.Printf("imported %d interactions from %s\n", len(interactions), logPath)

	return nil
}

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export Postgres contents to CSV sheets",
		Long:  "Write the Postgres entry collection to the info CSV and append the Q&A log rows to the log CSV",
		RunE:  runExport,
	}

	cmd.Flags().String("info", "", "Info CSV path (defaults to AMABOT_SHEET_INFO_PATH)")
	cmd.Flags().String("log", "", "Q&A log CSV path (defaults to AMABOT_SHEET_LOG_PATH)")
	cmd.Flags().Bool("skip-log", false, "Export only the entries, not the Q&A log")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, pgStore, closePool, err := openPostgres(ctx)
	if err != nil {
		return err
	}
	defer closePool()

	infoPath, logPath := sheetPaths(cmd, cfg)
	csvStore := sheet.NewStore(infoPath, logPath)

	entries, err := pgStore.LoadEntries(ctx)
	if err != nil {
		return err
	}
	if err := csvStore.SaveComputedFields(ctx, entries); err != nil {
		return err
	}
	fmt.Printf("exported %d entries to %s\n", len(entries), infoPath)

	if skipLog, _ := cmd.Flags().GetBool("skip-log"); skipLog {
		return nil
	}

	interactions, err := pgStore.LoadInteractions(ctx)
	if err != nil {
		return err
	}
	for _, q := range interactions {
		if err := csvStore.AppendInteraction(ctx, q); err != nil {
			return err
		}
	}
	fmt.Printf("exported %d interactions to %s\n", len(interactions), logPath)

	return nil
}

func openPostgres(ctx context.Context) (*config.Config, *repository.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("AMABOT_DATABASE_URL is required for import/export")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, repository.NewStore(pool), pool.Close, nil
}

func sheetPaths(cmd *cobra.Command, cfg *config.Config) (string, string) {
	infoPath, _ := cmd.Flags().GetString("info")
	if infoPath == "" {
		infoPath = cfg.SheetInfoPath
	}
	logPath, _ := cmd.Flags().GetString("log")
	if logPath == "" {
		logPath = cfg.SheetLogPath
	}
	return infoPath, logPath
}
