package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/aniview/internal/app"
	"github.com/varoOP/aniview/internal/config"
	"github.com/varoOP/aniview/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aniview",
	Short: "Browse the anime catalog from the terminal",
	Long: `aniview browses an AniAPI anime catalog. Every query checks connectivity
first: online results are cached locally, and when offline the local cache
is served instead.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aniview.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "anime catalog base URL")
	rootCmd.PersistentFlags().String("db-dir", "", "directory holding the local cache database")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("nsfw", false, "include NSFW entries")
	rootCmd.PersistentFlags().Bool("no-write-through", false, "do not cache online results")

	// Bind flags to viper
	viper.BindPFlag("api_base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("db_dir", rootCmd.PersistentFlags().Lookup("db-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("nsfw", rootCmd.PersistentFlags().Lookup("nsfw"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".aniview")
	}

	// Environment variables
	viper.SetEnvPrefix("ANIVIEW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile == "" {
		viper.SetConfigName("config")
		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newApp loads the configuration and wires the application
func newApp(cmd *cobra.Command) (*app.App, error) {
	if noWT, _ := cmd.Flags().GetBool("no-write-through"); noWT {
		viper.Set("write_through", false)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLoggerFromString(cfg.LogLevel)

	application, err := app.New(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
