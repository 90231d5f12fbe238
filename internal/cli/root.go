package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/acctdiff/internal/logging"
	"github.com/ppiankov/acctdiff/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "acctdiff",
	Short: "acctdiff - reconcile pasted lists of store accounts",
	Long: `acctdiff compares two informally formatted lists of store accounts,
such as the accounts you are logged in to and the accounts you wish to log in to.

Each line is reduced to a store name using one of two line formats
(see 'acctdiff formats'). acctdiff reports the names present in both lists,
the names missing from either side and the names repeated within a list.

Lines that match no format are kept and reported, never dropped silently.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of acctdiff.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "acctdiff %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.acctdiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging and line listings)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// .env.local overrides .env; neither overrides the real environment
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err == nil && verbose {
			fmt.Fprintf(os.Stderr, "Loaded %s\n", name)
		}
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			viper.AddConfigPath(filepath.Join(home, ".acctdiff"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(model.DefaultConfig())

	// Read in environment variables that match ACCTDIFF_*
	viper.SetEnvPrefix("ACCTDIFF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.color", cfg.Output.Color)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.debug", cfg.Output.Debug)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("concurrency.parallel_sides", cfg.Concurrency.ParallelSides)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.ttl", cfg.Cache.TTL)
	viper.SetDefault("watch.interval", cfg.Watch.Interval)
	viper.SetDefault("watch.burst", cfg.Watch.Burst)
	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.format", cfg.Log.Format)
}

// bindFlags binds a command's flags to config keys; only the running command binds
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}
	return nil
}

// globalKeys maps config keys to the persistent root flags
var globalKeys = map[string]string{
	"output.verbose": "verbose",
	"log.level":      "log-level",
}

// loadConfig resolves the effective configuration and configures logging
func loadConfig(cmd *cobra.Command, keys map[string]string) (*model.Config, error) {
	if err := bindFlags(cmd, globalKeys); err != nil {
		return nil, err
	}
	if err := bindFlags(cmd, keys); err != nil {
		return nil, err
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Negative flags override the positive config keys
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.Output.Color = false
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.Output.Color = false
	}

	level := cfg.Log.Level
	if cfg.Output.Verbose && !cmd.Flags().Changed("log-level") {
		level = "debug"
	}
	logging.Configure(logging.Config{
		Level:   level,
		Format:  cfg.Log.Format,
		Output:  cmd.ErrOrStderr(),
		NoColor: !cfg.Output.Color,
	})

	logging.Default().Debug().
		Str("command", cmd.Name()).
		Str("config_file", viper.ConfigFileUsed()).
		Str("mode", cfg.Mode).
		Str("format", cfg.Output.Format).
		Msg("configuration loaded")

	return cfg, nil
}

