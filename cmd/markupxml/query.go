package main

import (
	"fmt"
	"os"

	"github.com/clems4ever/markupxml/markup"
	"github.com/spf13/cobra"
)

var queryHTML bool

var queryCmd = &cobra.Command{
	Use:   "query <file> <xpath>",
	Short: "Run an XPath query against a document and print matches",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var opts []markup.Option
		if queryHTML {
			opts = append(opts, markup.AsHTML())
		}
		root, err := markup.Fromstring(data, opts...)
		if err != nil {
			return err
		}

		tree := markup.NewElementTree(root)
		matches, err := tree.FindAll(args[1])
		if err != nil {
			return fmt.Errorf("evaluating %q: %w", args[1], err)
		}

		out := cmd.OutOrStdout()
		for _, m := range matches {
			switch v := m.(type) {
			case *markup.Element:
				b, err := markup.Tostring(v)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			case string:
				fmt.Fprintln(out, v)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&queryHTML, "html", false, "parse as lenient HTML instead of strict XML")
}
