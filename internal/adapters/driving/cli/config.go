package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/capsql/internal/core/domain"
	"github.com/custodia-labs/capsql/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `View and change values in config.toml.

Available keys:
  storage.backend     sqlite, filesystem or memory (default sqlite)
  storage.data_dir    directory for snapshot data (default ~/.capsql/data)
  storage.name        store instance name (default sqliteStore)
  storage.store_name  collection holding snapshots (default databases)
  log.verbose         true or false`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigGet,
}

var configGetCmd = &cobra.Command{
	Use:         "get [key]",
	Short:       "Show one or all configuration values",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:         "set [key] [value]",
	Short:       "Set a configuration value",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:         "unset [key]",
	Short:       "Remove a configuration value so its default applies",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runConfigUnset,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if len(args) == 1 {
		value, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		cmd.Println(value)
		return nil
	}

	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Printf("No settings in %s; defaults apply.\n", configStore.Path())
		return nil
	}
	for _, key := range keys {
		value, _ := configStore.Get(key)
		cmd.Printf("%s = %v\n", key, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	value, err := services.ParseSetting(key, args[1])
	if err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if !slices.Contains(services.SettingKeys(), key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := configStore.Unset(key); err != nil {
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	cmd.Printf("%s unset\n", key)
	return nil
}
