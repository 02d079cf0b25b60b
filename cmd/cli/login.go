package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin and store the session cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				fmt.Print("Email: ")
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					email = strings.TrimSpace(scanner.Text())
				}
			}
			if password == "" {
				password = os.Getenv("WISECTL_PASSWORD")
			}
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(raw)
			}

			client := newClient(getConfigURL(), "", flagDebug)
			resp, err := client.Post("/api/admin/login", LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}

			var session string
			for _, c := range resp.Cookies() {
				if c.Name == sessionCookieName {
					session = c.Value
				}
			}
			if session == "" {
				return fmt.Errorf("server did not issue an %s cookie", sessionCookieName)
			}

			path, err := saveSession(session)
			if err != nil {
				return err
			}

			if flagJSON {
				var raw json.RawMessage
				json.Unmarshal(resp.Body(), &raw)
				printJSON(raw)
				return nil
			}

			var a AdminResponse
			if err := json.Unmarshal(resp.Body(), &a); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printMessage(fmt.Sprintf("Logged in as %s (session stored in %s)", a.Email, path))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (env: WISECTL_PASSWORD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the admin session and forget the stored cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			if getConfigSession() == "" {
				printMessage("Not logged in")
				return nil
			}
			if !confirmAction("Forget the stored admin session?", yes) {
				printMessage("Aborted")
				return nil
			}

			if client, err := getClient(); err == nil {
				if _, err := client.Post("/api/admin/logout", nil); err != nil && flagDebug {
					fmt.Fprintf(os.Stderr, "DEBUG: logout request failed: %v\n", err)
				}
			}

			if _, err := saveSession(""); err != nil {
				return err
			}
			printMessage("Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
