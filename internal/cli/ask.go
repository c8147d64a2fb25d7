package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fascani/amabot/internal/config"
)

func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long:  "Ask a question and print the model's answer built from the stored biographical entries",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().Bool("show-prompt", false, "Print the assembled prompt before the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")
	showPrompt, _ := cmd.Flags().GetBool("show-prompt")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc, err := buildAnswerService(cfg, store)
	if err != nil {
		return err
	}

	result, err := svc.Answer(ctx, query)
	if err != nil {
		return err
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	if showPrompt {
		fmt.Println(color.New(color.Faint).Sprint(result.Prompt))
		fmt.Println()
	}
	fmt.Printf("%s %s\n", boldGreen("Q:"), query)
	fmt.Printf("%s %s\n", boldCyan("A:"), result.Answer)

	return nil
}
