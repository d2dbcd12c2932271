package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/config"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/harmony"
	sdklog "github.com/harmonyconnect/harmony-sdk-go/sdk/log"
)

var configKeys = []string{
	"base_url",
	"app_id",
	"app_key",
	"timeout",
	"user_agent",
	"rate_limit_per_second",
	"max_retries",
	"log.level",
	"log.env",
}

// loadConfig merges, lowest first: the config file, HARMONY_* environment
// variables and the global flags. A missing config file is not an error
// unless --config was set explicitly.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range configKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, errors.Errorf("bind env %s: %w", k, err)
		}
	}

	path := NormalizePath(a.cfgFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if cmd.Flags().Changed("config") {
		return nil, errors.Errorf("config file %s not found", path)
	}

	for key, flag := range map[string]string{"base_url": "base-url", "app_id": "app-id", "app_key": "app-key"} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (a *app) newClient(cmd *cobra.Command) (*harmony.Client, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return harmony.NewClient(*cfg, harmony.WithLogger(sdklog.NewTraceLogger(logtrace.ValueCLI)))
}

func (a *app) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the CLI configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file, prompting for missing values",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := NormalizePath(a.cfgFile)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
			}

			cfg := config.Config{BaseURL: a.baseURL, AppID: a.appID, AppKey: a.appKey}
			if err := promptMissing(&cfg); err != nil {
				return err
			}
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := config.Save(&cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the app key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			shown := *cfg
			shown.AppKey = mask(shown.AppKey)
			return printJSON(cmd, shown)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func promptMissing(cfg *config.Config) error {
	if cfg.BaseURL == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "API base URL:",
			Default: "https://ephemeral.api.factom.com/v1",
		}, &cfg.BaseURL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if cfg.AppID == "" {
		if err := survey.AskOne(&survey.Input{Message: "App ID:"}, &cfg.AppID, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if cfg.AppKey == "" {
		if err := survey.AskOne(&survey.Password{Message: "App key:"}, &cfg.AppKey, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	return nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
