package main

import (
	"fmt"
	"os"

	"github.com/clems4ever/markupxml/markup"
	"github.com/spf13/cobra"
)

var (
	formatMethod        string
	formatNoDeclaration bool
)

var formatCmd = &cobra.Command{
	Use:   "format <file>",
	Short: "Round-trip a document through the serializer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var parseOpts []markup.Option
		if formatMethod == "html" {
			parseOpts = append(parseOpts, markup.AsHTML(), markup.FixBroken())
		}
		root, err := markup.Fromstring(data, parseOpts...)
		if err != nil {
			return err
		}

		outOpts := []markup.Option{markup.WithMethod(formatMethod)}
		if formatNoDeclaration {
			outOpts = append(outOpts, markup.WithNoDeclaration())
		}
		out, err := markup.Tostring(root, outOpts...)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().StringVar(&formatMethod, "method", "xml", `serialization method: "xml" or "html"`)
	formatCmd.Flags().BoolVar(&formatNoDeclaration, "no-declaration", false, "suppress the generated XML prologue")
}
