package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ArowuTest/bridgetunes-raffle/internal/config"
	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	"github.com/spf13/cobra"
)

// RosterReport summarizes an offline roster check
type RosterReport struct {
	Filename   string `json:"filename"`
	TotalRows  int    `json:"total_rows"`
	Accepted   int    `json:"accepted"`
	Dropped    int    `json:"dropped"`
	Duplicates int    `json:"duplicates"`
}

// NewRosterCommand creates the roster command
func NewRosterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roster <file>",
		Short: "Check a roster spreadsheet without loading it into the server",
		Long: `Parse a roster (.xlsx or .csv) with the same rules the server applies on
upload and report how many rows would be accepted, dropped or merged as duplicates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			report, err := checkRoster(utils.NewRosterImporter(cfg.Upload.AllowedExtensions, cfg.Upload.MaxBytes), args[0])
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:       %s\n", report.Filename)
			fmt.Fprintf(out, "rows:       %d\n", report.TotalRows)
			fmt.Fprintf(out, "accepted:   %d\n", report.Accepted)
			fmt.Fprintf(out, "dropped:    %d\n", report.Dropped)
			fmt.Fprintf(out, "duplicates: %d\n", report.Duplicates)
			return nil
		},
	}
}

func checkRoster(importer *utils.RosterImporter, path string) (*RosterReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	filename := filepath.Base(path)
	roster, err := importer.Parse(filename, f)
	if err != nil {
		return nil, err
	}

	seen := make(map[models.ParticipantKey]struct{}, len(roster.Participants))
	duplicates := 0
	for _, p := range roster.Participants {
		if _, ok := seen[p.Key()]; ok {
			duplicates++
			continue
		}
		seen[p.Key()] = struct{}{}
	}
	return &RosterReport{
		Filename:   filename,
		TotalRows:  roster.TotalRows,
		Accepted:   len(seen),
		Dropped:    roster.Dropped,
		Duplicates: duplicates,
	}, nil
}
