package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	flagURL     string
	flagSession string
	flagJSON    bool
	flagDebug   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wisectl",
		Short: "CLI for the Wise Institute media backend",
		Long:  "A command-line interface for signing in as an admin, browsing media records and capturing video thumbnails for them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "API server URL (env: WISECTL_URL)")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "admin-session cookie value (env: WISECTL_SESSION)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wisectl %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newMediaCmd())
	rootCmd.AddCommand(newCaptureCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
