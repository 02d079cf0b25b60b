package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName        = ".wisectl"
	sessionCookieName = "admin-session"
)

var cfg *viper.Viper

func initConfig() error {
	cfg = viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.AddConfigPath(home)
	}

	cfg.SetDefault("url", "http://localhost:8080")
	cfg.SetDefault("session", "")

	cfg.SetEnvPrefix("WISECTL")
	cfg.AutomaticEnv()

	// Read config file (ignore if not found)
	cfg.ReadInConfig()

	// CLI flags take highest priority
	if flagURL != "" {
		cfg.Set("url", flagURL)
	}
	if flagSession != "" {
		cfg.Set("session", flagSession)
	}

	return nil
}

func getConfigURL() string {
	return strings.TrimRight(cfg.GetString("url"), "/")
}

func getConfigSession() string {
	return cfg.GetString("session")
}

func configPath() (string, error) {
	if used := cfg.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// saveSession persists the session cookie value in the config file.
func saveSession(value string) (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}

	file := viper.New()
	file.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if !file.IsSet("url") {
		file.Set("url", getConfigURL())
	}
	file.Set("session", value)

	if err := file.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return "", fmt.Errorf("failed to restrict config file: %w", err)
	}
	return path, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a config file template at ~/.wisectl.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}

			path := filepath.Join(home, configName+".yaml")

			if _, err := os.Stat(path); err == nil {
				printMessage("Config file already exists at " + path)
				return nil
			}

			template := `# wisectl configuration
url: http://localhost:8080
session: ""
`
			if err := os.WriteFile(path, []byte(template), 0600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			printMessage("Config file created at " + path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfg.ConfigFileUsed()
			if cfgFile == "" {
				cfgFile = "(none)"
			}
			printFields([][2]string{
				{"URL", getConfigURL()},
				{"Session", maskSecret(getConfigSession())},
				{"Config file", cfgFile},
			})
			return nil
		},
	}
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) > 8:
		return s[:4] + "..." + s[len(s)-4:]
	default:
		return "****"
	}
}
