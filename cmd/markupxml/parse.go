package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/clems4ever/markupxml/markup"
	"github.com/spf13/cobra"
)

var (
	parseHTML      bool
	parseFixBroken bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a document and pretty-print its tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var opts []markup.Option
		if parseHTML {
			opts = append(opts, markup.AsHTML())
		}
		if parseFixBroken {
			opts = append(opts, markup.FixBroken())
		}

		root, err := markup.Fromstring(data, opts...)
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), root, 0)
		return nil
	},
}

func printTree(w io.Writer, e *markup.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	if e.IsSpecial() {
		fmt.Fprintf(w, "%s%s %q\n", indent, e.Tag, e.Text)
		return
	}
	fmt.Fprintf(w, "%s<%s>", indent, e.Tag)
	for _, a := range e.Items() {
		fmt.Fprintf(w, " %s=%q", a.Name, a.Value)
	}
	if e.Text != "" {
		fmt.Fprintf(w, " text=%q", e.Text)
	}
	fmt.Fprintln(w)
	for _, c := range e.Children {
		printTree(w, c, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseHTML, "html", false, "parse as lenient HTML instead of strict XML")
	parseCmd.Flags().BoolVar(&parseFixBroken, "fix-broken", false, "repair mismatched or missing close tags instead of erroring")
}
