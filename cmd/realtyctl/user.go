package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Admin account maintenance",
	}
	cmd.AddCommand(resetPasswordCmd())
	return cmd
}

func resetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password and sign out every session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}

			a, _, err := bootstrap()
			if err != nil {
				return err
			}

			// 1. Find user
			user, err := a.Users.FindByEmail(email)
			if err != nil {
				return fmt.Errorf("user %s not found: %w", email, err)
			}

			// 2. Hash new password
			if err := user.SetPassword(password); err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			// 3. Update and rotate the session token
			if err := a.Users.UpdatePassword(user.ID, user.Password); err != nil {
				return fmt.Errorf("update password: %w", err)
			}
			if err := a.Users.UpdateTokenVersion(user.ID, uuid.New().String()); err != nil {
				return fmt.Errorf("rotate session: %w", err)
			}

			fmt.Printf("Password for %s has been reset.\n", email)
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
