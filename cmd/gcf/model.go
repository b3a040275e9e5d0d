package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gcf/internal/gradle"
)

var (
	modelOutput string
	modelFormat string
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Work with build model snapshots",
}

var modelDumpCmd = &cobra.Command{
	Use:   "dump <projectRoot>",
	Short: "Capture the build model as a snapshot file",
	Long: `Run the build model provider once and write the result as a snapshot.

The snapshot can replace Gradle in later runs with --model-file or the
gradle.snapshotFile setting. The format follows the --output extension
(.json, .yaml, .yml, .toml); without --output the snapshot goes to stdout.

Examples:
  gcf model dump . --output .gcf/model.yaml
  gcf model dump ~/work/shop --format toml`,
	Args: cobra.ExactArgs(1),
	RunE: runModelDump,
}

func init() {
	modelDumpCmd.Flags().StringVarP(&modelOutput, "output", "o", "", "Snapshot file to write")
	modelDumpCmd.Flags().StringVar(&modelFormat, "format", "json", "Stdout format when --output is not set (json, yaml, toml)")
	modelCmd.AddCommand(modelDumpCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelDump(cmd *cobra.Command, args []string) error {
	a, err := newApp(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	project, err := gradle.Fetch(ctx, a.provider, a.root)
	if err != nil {
		return err
	}

	if modelOutput != "" {
		if err := gradle.WriteSnapshot(project, modelOutput); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		logger.Info("Snapshot written", "path", modelOutput, "modules", project.ModuleCount())
		return nil
	}

	var format gradle.SnapshotFormat
	switch gradle.SnapshotFormat(modelFormat) {
	case gradle.FormatJSON, gradle.FormatYAML, gradle.FormatTOML:
		format = gradle.SnapshotFormat(modelFormat)
	default:
		return fmt.Errorf("unsupported snapshot format: %s", modelFormat)
	}
	data, err := gradle.MarshalSnapshot(project, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
