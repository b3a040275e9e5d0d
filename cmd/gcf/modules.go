package main

import (
	"github.com/spf13/cobra"

	"gcf/internal/envelope"
	"gcf/internal/gradle"
)

var modulesFormat string

var modulesCmd = &cobra.Command{
	Use:   "modules <projectRoot>",
	Short: "List the module tree reported by the build",
	Long: `List the module tree of a Gradle project with each module's directory
and dependency count. Only direct children of the root are valid
submodule paths for "gcf find".`,
	Args: cobra.ExactArgs(1),
	RunE: runModules,
}

func init() {
	modulesCmd.Flags().StringVar(&modulesFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(modulesFormat)
	if err != nil {
		return err
	}
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
	resp := envelope.Operational(project)
	resp.Meta.Provenance = &envelope.Provenance{Provider: a.providerName}
	return writeResponse(cmd.OutOrStdout(), resp, format)
}
