package main

import (
	"time"

	"github.com/spf13/cobra"

	"gcf/internal/envelope"
)

var outlineFormat string

var outlineCmd = &cobra.Command{
	Use:   "outline <location> <className>",
	Short: "Summarize the types and methods of a class",
	Long: `Summarize a class's source without printing it: line and byte counts,
declared types and methods with line ranges, and cyclomatic complexity.

The outline needs a cgo build (tree-sitter grammars). Without it only the
counts are reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(outlineFormat)
	if err != nil {
		return err
	}
	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	start := time.Now()
	md, err := a.retriever().GetMetadata(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	b := envelope.New().
		Data(md).
		FromSource(string(md.Origin), md.TotalLines, md.TotalLines).
		Duration(time.Since(start))
	for _, w := range md.Warnings {
		b.Warning(w)
	}
	return writeResponse(cmd.OutOrStdout(), b.Build(), format)
}
