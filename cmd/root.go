package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sap-gg/ftctl/internal"
	"github.com/sap-gg/ftctl/internal/config"
	"github.com/sap-gg/ftctl/internal/logging"
)

var (
	cfgFile string
	baseDir string

	// appConfig is loaded before any subcommand runs.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ftctl",
	Short: "Propagates a release version into Helm charts and Drone pipelines",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, configErr := initConfig()

		cfg, loadErr := config.Load(viper.GetViper())
		token := ""
		if cfg != nil {
			token = cfg.Git.Token
		}
		logging.Init(viper.GetViper(), token)
		if viper.GetBool(config.LogNoColorKey) {
			color.NoColor = true
		}

		// handle errors after logging is initialized
		if configErr != nil {
			return configErr
		}
		if loadErr != nil {
			return loadErr
		}
		if configPath != "" {
			log.Info().Msgf("using config file: %s", configPath)
		}
		appConfig = cfg
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./.ftctl.yaml or $HOME/.ftctl.yaml)")

	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "",
		"directory relative paths are resolved against (default is the working directory)")

	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag(config.LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "log format: console, json")
	_ = viper.BindPFlag(config.LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "disable color output")
	_ = viper.BindPFlag(config.LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	viper.SetEnvPrefix("FTCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

func initConfig() (string, error) {
	// reads in config file and ENV variables if set.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// search order: current dir, $HOME, XDG config
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		configDir, err := os.UserConfigDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(configDir, "ftctl"))
		}

		viper.SetConfigType("yaml")
		viper.SetConfigName(internal.ConfigFileName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundError) {
			return "", err
		}
		return "", nil
	}
	return viper.ConfigFileUsed(), nil
}

// resolveBaseDir returns the absolute base directory, read once per command.
func resolveBaseDir() (string, error) {
	dir := baseDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory %q: %w", dir, err)
	}
	return abs, nil
}
