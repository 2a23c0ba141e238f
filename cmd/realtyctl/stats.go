package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Sales statistics",
	}
	cmd.AddCommand(statsRefreshCmd())
	return cmd
}

func statsRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the stored sales snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			agency, _ := cmd.Flags().GetString("agency")

			a, _, err := bootstrap()
			if err != nil {
				return err
			}

			if agency == "" {
				if err := a.StatsService.RefreshAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("Stats refreshed for every active agency.")
				return nil
			}

			id, err := uuid.Parse(agency)
			if err != nil {
				return fmt.Errorf("invalid agency id %q: %v", agency, err)
			}
			row, err := a.StatsService.Refresh(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Sold: %d  Revenue: %s  Avg price: %s  Avg days on market: %d\n",
				row.TotalSold, row.TotalRevenue, row.AvgPrice, row.AvgDaysOnMarket)
			return nil
		},
	}
	cmd.Flags().String("agency", "", "agency id (default: all active agencies)")
	return cmd
}
