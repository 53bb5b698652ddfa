package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ArowuTest/bridgetunes-raffle/internal/config"
	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories/file"
	"github.com/spf13/cobra"
)

// LimitsReport is the effective gift limit table
type LimitsReport struct {
	Source string            `json:"source"`
	Limits models.GiftLimits `json:"limits"`
	Error  string            `json:"error,omitempty"`
}

// NewLimitsCommand creates the limits command
func NewLimitsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Print the gift limits the server would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			report := effectiveLimits(cmd.Context(), file.NewGiftLimitRepository(cfg.Storage.LimitsFile))

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source: %s\n", report.Source)
			if report.Error != "" {
				fmt.Fprintf(out, "ignored: %s\n", report.Error)
			}
			gifts := make([]string, 0, len(report.Limits))
			for gift := range report.Limits {
				gifts = append(gifts, gift)
			}
			sort.Strings(gifts)
			for _, gift := range gifts {
				fmt.Fprintf(out, "%s\t%d\n", gift, report.Limits[gift])
			}
			return nil
		},
	}
}

// effectiveLimits mirrors the server startup: defaults unless the file loads cleanly
func effectiveLimits(ctx context.Context, repo *file.GiftLimitRepository) *LimitsReport {
	if ctx == nil {
		ctx = context.Background()
	}
	limits, err := repo.Load(ctx)
	switch {
	case err == nil:
		return &LimitsReport{Source: repo.Path(), Limits: limits}
	case errors.Is(err, repositories.ErrLimitsNotFound):
		return &LimitsReport{Source: "defaults", Limits: models.DefaultGiftLimits()}
	default:
		return &LimitsReport{Source: "defaults", Limits: models.DefaultGiftLimits(), Error: err.Error()}
	}
}
