package main

import (
	"fmt"

	"github.com/mohammad-safakhou/citer/internal/citation"
	"github.com/spf13/cobra"
)

func generateCMD(cfgPath *string) *cobra.Command {
	var style string
	var generate = &cobra.Command{
		Use:   "generate <url>...",
		Short: "Generate citations and append them to the output log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.styleOrDefault(style)
			if err != nil {
				return err
			}
			gen := a.generator(citation.Style(st))
			out := cmd.OutOrStdout()
			for i, u := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, gen.Generate(cmd.Context(), u, st))
			}
			return nil
		},
	}
	generate.Flags().StringVarP(&style, "style", "s", "", "citation style (harvard, unsw, mla, chicago, apa, ieee, vancouver)")
	return generate
}

func stylesCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List supported citation styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := citation.NewGenerator(nil)
			fmt.Fprintln(cmd.OutOrStdout(), gen.ListStyles())
			return nil
		},
	}
}

func exportCMD(cfgPath *string) *cobra.Command {
	var style, file string
	var export = &cobra.Command{
		Use:   "export <url>...",
		Short: "Generate citations and write them to a fresh numbered file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.styleOrDefault(style)
			if err != nil {
				return err
			}
			if file == "" {
				file = a.cfg.Output.ExportFile
			}
			gen := a.generator(citation.Style(st))
			for _, u := range args {
				gen.Generate(cmd.Context(), u, st)
			}
			fmt.Fprintln(cmd.OutOrStdout(), gen.Export(st, file))
			return nil
		},
	}
	export.Flags().StringVarP(&style, "style", "s", "", "citation style")
	export.Flags().StringVarP(&file, "file", "f", "", "output file (default output.export_file)")
	return export
}
