package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit docsage configuration.

Configuration lives in a TOML file (default ~/.docsage/config.toml) and is
addressed with dotted keys, e.g.:

  docsage config set embedding.provider ollama
  docsage config set embedding.model nomic-embed-text
  docsage config set llm.provider ollama
  docsage config set llm.model llama3.2
  docsage config get embedding.provider
  docsage config show`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration values",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and persist it.

Values are coerced to TOML native types where possible: "true"/"false"
become booleans, numeric strings become integers or floats, everything
else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not initialised")
		}
		fmt.Fprintln(cmd.OutOrStdout(), configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not initialised")
	}

	all := configStore.All()
	if len(all) == 0 {
		cmd.Println("No configuration set.")
		cmd.Printf("Config file: %s\n", configStore.Path())
		return nil
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := all[k]
		if strings.HasSuffix(k, ".api_key") {
			if s, ok := val.(string); ok {
				val = maskAPIKey(s)
			}
		}
		cmd.Printf("%s = %v\n", k, val)
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not initialised")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not initialised")
	}

	key, raw := args[0], args[1]
	configStore.Set(key, coerceValue(raw))
	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// coerceValue turns CLI strings into TOML native types.
func coerceValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
