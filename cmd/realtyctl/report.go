package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"realty-dashboard/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report builder",
	}
	cmd.AddCommand(reportRenderCmd())
	return cmd
}

func reportRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report configuration to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			agency, _ := cmd.Flags().GetString("agency")
			out, _ := cmd.Flags().GetString("out")

			agencyID, err := uuid.Parse(agency)
			if err != nil {
				return fmt.Errorf("invalid agency id %q: %v", agency, err)
			}
			raw, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			var cfg report.Configuration
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}

			a, _, err := bootstrap()
			if err != nil {
				return err
			}
			pdf, err := a.ReportService.Export(cmd.Context(), agencyID, &cfg)
			if err != nil {
				return err
			}
			if err := writeAtomic(out, pdf); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	cmd.Flags().String("config", "", "report configuration JSON file")
	cmd.Flags().String("agency", "", "agency id")
	cmd.Flags().String("out", "report.pdf", "output PDF path")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("agency")
	return cmd
}

// writeAtomic writes to a temp file next to path and renames it into place,
// so a failed export never leaves a partial file behind.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
