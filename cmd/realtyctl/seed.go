package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create default privileges, roles and the platform admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if err := a.Seeder().Seed(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
				return err
			}
			fmt.Println("Seed complete.")
			return nil
		},
	}
}
