package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fascani/amabot/internal/config"
)

func RefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute entry embeddings and token counts",
		Long:  "Recompute and persist the embedding and token count of stored entries. By default only entries missing an embedding are touched",
		RunE:  runRefresh,
	}

	cmd.Flags().Bool("all", false, "Recompute every entry, not just those missing an embedding")

	return cmd
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	all, _ := cmd.Flags().GetBool("all")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := buildRefreshService(cfg, store)
	if err != nil {
		return err
	}

	var n int
	if all {
		n, err = svc.RefreshAll(ctx)
	} else {
		n, err = svc.RefreshMissing(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("refreshed %d entries\n", n)
	return nil
}
