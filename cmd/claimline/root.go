package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimline/internal/config"
)

var (
	cfg        = config.Default()
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:               "claimline",
	Short:             "Dental claim procedure line item service",
	Long:              "Validates dental claim line items, computes net fees, and stores each submission as one atomic batch.",
	SilenceUsage:      true,
	PersistentPreRunE: resolveConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to YAML config file")
	pf.StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
}

// resolveConfig layers defaults, the YAML file, the environment, and finally
// any flag given explicitly on the command line.
func resolveConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	resolved := config.Default()
	if configPath != "" {
		if err := resolved.LoadFromFile(configPath); err != nil {
			return err
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		resolved.DSN = v
	}
	if v := os.Getenv("CLAIMLINE_ADDR"); v != "" {
		resolved.Addr = v
	}

	flagged := cfg
	overrides := map[string]func(){
		"dsn":               func() { resolved.DSN = flagged.DSN },
		"log-format":        func() { resolved.LogFormat = flagged.LogFormat },
		"log-level":         func() { resolved.LogLevel = flagged.LogLevel },
		"addr":              func() { resolved.Addr = flagged.Addr },
		"store":             func() { resolved.Store = flagged.Store },
		"reset-schema":      func() { resolved.ResetSchema = flagged.ResetSchema },
		"rate-limit":        func() { resolved.RateLimit.MaxRequests = flagged.RateLimit.MaxRequests },
		"rate-limit-window": func() { resolved.RateLimit.Window = flagged.RateLimit.Window },
		"kafka-brokers":     func() { resolved.Kafka.Brokers = flagged.Kafka.Brokers },
		"kafka-topic":       func() { resolved.Kafka.Topic = flagged.Kafka.Topic },
	}
	flags := cmd.Flags()
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}

	if resolved.LogFormat != "text" && resolved.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", resolved.LogFormat)
	}
	cfg = resolved
	return nil
}
