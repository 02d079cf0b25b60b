package main

import (
	"context"
	"fmt"

	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		a := &admin.Admin{
			Email:    adminEmail,
			Name:     adminName,
			IsActive: true,
		}
		if err := a.SetPassword(adminPassword); err != nil {
			return err
		}

		store := admin.NewMySQLStore(db, log)
		if err := store.Create(context.Background(), a); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Printf("Created admin %d (%s)\n", a.ID, a.Email)
		return nil
	},
}

var adminPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change an admin account's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		ctx := context.Background()
		store := admin.NewMySQLStore(db, log)

		existing, err := store.GetByEmail(ctx, adminEmail)
		if err != nil {
			return fmt.Errorf("failed to find admin: %w", err)
		}
		if err := store.Update(ctx, existing.ID, admin.SetPassword(adminPassword)); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		fmt.Printf("Password updated for %s\n", existing.Email)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "admin display name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("name")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminPasswdCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	adminPasswdCmd.Flags().StringVar(&adminPassword, "password", "", "new password")
	_ = adminPasswdCmd.MarkFlagRequired("email")
	_ = adminPasswdCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminPasswdCmd)
	rootCmd.AddCommand(adminCmd)
}
