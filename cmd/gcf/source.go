package main

import (
	"time"

	"github.com/spf13/cobra"

	"gcf/internal/envelope"
	"gcf/internal/source"
)

var (
	sourceFormat string
	sourceStart  int
	sourceEnd    int
)

var sourceCmd = &cobra.Command{
	Use:   "source <location> <className>",
	Short: "Print the source of a class",
	Long: `Print the source of a class from a .java or .kt file, or from a jar.

Jars are read from an embedded source entry when present, else decompiled
with CFR (set decompiler.cfrJar). --start and --end are 1-based and
inclusive; out-of-range bounds are clamped.

Examples:
  gcf source ~/.gradle/caches/.../guava-33.0.0-jre.jar com.google.common.base.Strings
  gcf source app/src/main/java/com/shop/Cart.java com.shop.Cart --start 10 --end 40`,
	Args: cobra.ExactArgs(2),
	RunE: runSource,
}

func init() {
	sourceCmd.Flags().StringVar(&sourceFormat, "format", "human", "Output format (json, human)")
	sourceCmd.Flags().IntVar(&sourceStart, "start", 0, "First line to print (1-based)")
	sourceCmd.Flags().IntVar(&sourceEnd, "end", 0, "Last line to print (1-based, inclusive)")
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(sourceFormat)
	if err != nil {
		return err
	}
	req := source.Request{Location: args[0], ClassName: args[1]}
	if cmd.Flags().Changed("start") {
		req.LineStart = &sourceStart
	}
	if cmd.Flags().Changed("end") {
		req.LineEnd = &sourceEnd
	}

	a, err := newApp("")
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	start := time.Now()
	res, err := a.retriever().GetSource(ctx, req)
	if err != nil {
		return err
	}

	shown := res.TotalLines
	if req.LineStart != nil || req.LineEnd != nil {
		shown = 0
		if res.Range != nil {
			shown = res.Range.End - res.Range.Start + 1
		}
	}
	resp := envelope.New().
		Data(res).
		FromSource(string(res.Origin), shown, res.TotalLines).
		Duration(time.Since(start)).
		Build()
	if format == FormatHuman {
		// Raw text only, so the output can be piped.
		resp.Warnings = nil
	}
	return writeResponse(cmd.OutOrStdout(), resp, format)
}
