package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gcf/internal/envelope"
	"gcf/internal/finder"
	"gcf/internal/gradle"
	"gcf/internal/match"
)

var findFormat string

// findData is the payload of a class lookup.
type findData struct {
	Results []match.Result `json:"results"`
}

var findCmd = &cobra.Command{
	Use:   "find <projectRoot> <className> [submodulePath]",
	Short: "Find where a class comes from",
	Long: `Find every location a fully-qualified class resolves from in one module.

Tiers run in order: module source roots, the module's resolved dependencies,
then flat-directory repositories. Without a submodule path the root module
is searched; child modules are never searched implicitly.

Examples:
  gcf find . com.google.common.collect.ImmutableList app
  gcf find ~/work/shop com.shop.Cart --format json`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(findFormat)
	if err != nil {
		return err
	}
	submodule := ""
	if len(args) == 3 {
		submodule = args[2]
	}

	a, err := newApp(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	start := time.Now()
	results, err := a.finder().FindClass(ctx, finder.Request{
		ProjectRoot:   a.root,
		ClassName:     args[1],
		SubmodulePath: submodule,
	})
	if err != nil {
		return err
	}

	b := envelope.New().
		Data(findData{Results: results}).
		Provider(a.providerName).
		Module(gradle.ToGradlePath(submodule)).
		FromMatches(results).
		Duration(time.Since(start))
	if len(results) == 0 {
		b.WarningWithCode("NOT_FOUND", fmt.Sprintf("%s was not found in %s", args[1], gradle.ToGradlePath(submodule)))
	}
	return writeResponse(cmd.OutOrStdout(), b.Build(), format)
}
