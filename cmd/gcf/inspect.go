package main

import (
	"github.com/spf13/cobra"

	"gcf/internal/archive"
	"gcf/internal/coords"
	"gcf/internal/envelope"
	"gcf/internal/errors"
)

var (
	inspectFilter string
	inspectFormat string
)

// inspectData is the payload of an archive listing.
type inspectData struct {
	Archive    string          `json:"archive"`
	Coordinate string          `json:"coordinate"`
	Entries    []archive.Entry `json:"entries"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive>",
	Short: "List the entries of a jar",
	Long: `List the entries of a jar, optionally restricted to a name prefix.

Examples:
  gcf inspect libs/widgets.jar --filter com/example/`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFilter, "filter", "", "Only list entries starting with this prefix")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(inspectFormat)
	if err != nil {
		return err
	}
	if !archive.IsArchive(args[0]) {
		return errors.NewUnsupportedLocationError(args[0])
	}
	if _, err := newApp(""); err != nil {
		return err
	}

	entries, err := archive.Entries(args[0], inspectFilter)
	if err != nil {
		return errors.New(errors.ArchiveRead, "reading archive", err)
	}
	data := inspectData{Archive: args[0], Coordinate: coords.Extract(args[0]), Entries: entries}
	return writeResponse(cmd.OutOrStdout(), envelope.Operational(data), format)
}
