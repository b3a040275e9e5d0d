package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/spf13/cobra"

	"gcf/internal/config"
	"gcf/internal/errors"
)

var (
	configShowDiff bool
	configForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gcf configuration",
	Long:  "View and manage gcf configuration stored in .gcf/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show [projectRoot]",
	Short: "Show the effective configuration",
	Long: `Print the configuration gcf would use for a project as JSON: defaults,
overlaid by .gcf/config.{json,yaml,toml}, overlaid by GCF_* variables.

Examples:
  gcf config show             # Current directory
  gcf config show --diff      # Only values that differ from the defaults`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [projectRoot]",
	Short: "Write the default configuration to .gcf/config.json",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(optionalArg(args))
	if err != nil {
		return err
	}

	var out interface{} = a.cfg
	if configShowDiff {
		current, err := toMap(a.cfg)
		if err != nil {
			return err
		}
		defaults, err := toMap(config.DefaultConfig())
		if err != nil {
			return err
		}
		out = computeDiff(current, defaults)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting config: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(optionalArg(args))
	if err != nil {
		return errors.NewInvalidArgumentsError("projectRoot", err.Error())
	}
	path := filepath.Join(root, config.Dir, "config.json")
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.NewInvalidArgumentsError("projectRoot", fmt.Sprintf("%s already exists (use --force)", path))
	}
	if err := config.DefaultConfig().Save(root); err != nil {
		return errors.New(errors.ConfigInvalid, "writing config", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// computeDiff keeps the entries of current that differ from defaults,
// recursing into nested objects.
func computeDiff(current, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	for k, v := range current {
		dv, ok := defaults[k]
		if !ok {
			diff[k] = v
			continue
		}
		cm, cIsMap := v.(map[string]interface{})
		dm, dIsMap := dv.(map[string]interface{})
		if cIsMap && dIsMap {
			if sub := computeDiff(cm, dm); len(sub) > 0 {
				diff[k] = sub
			}
			continue
		}
		if !reflect.DeepEqual(v, dv) && !(isEmptyList(v) && isEmptyList(dv)) {
			diff[k] = v
		}
	}
	return diff
}

// isEmptyList treats null and [] alike.
func isEmptyList(v interface{}) bool {
	if v == nil {
		return true
	}
	l, ok := v.([]interface{})
	return ok && len(l) == 0
}
