package main

import (
	"fmt"
	"os"

	"github.com/clems4ever/markupxml/markup"
	"github.com/pkoukk/tiktoken-go"
	"github.com/spf13/cobra"
)

var tokensHTML bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file> <xpath>",
	Short: "Count the LLM prompt-budget tokens of an XPath query's matched text",
	Long: `tokens runs an XPath query over a parsed document, concatenates the
matched text content, and reports the token count under tiktoken-go's
cl100k_base encoding, for budgeting extracted markup text against an
LLM prompt window.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var opts []markup.Option
		if tokensHTML {
			opts = append(opts, markup.AsHTML())
		}
		root, err := markup.Fromstring(data, opts...)
		if err != nil {
			return err
		}

		tree := markup.NewElementTree(root)
		text, err := tree.FindText(args[1], "")
		if err != nil {
			return fmt.Errorf("evaluating %q: %w", args[1], err)
		}

		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return fmt.Errorf("loading cl100k_base encoding: %w", err)
		}
		count := len(enc.Encode(text, nil, nil))
		fmt.Fprintf(cmd.OutOrStdout(), "tokens: %d\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().BoolVar(&tokensHTML, "html", false, "parse as lenient HTML instead of strict XML")
}
