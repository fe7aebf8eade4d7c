package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/content-feed/internal/importer"
	"github.com/spf13/cobra"
)

func newResolveCommand(backend Backend, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <youtube|wordpress> <url>",
		Short: "Show the metadata an item with this URL would get",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previewer, err := backend.OpenPreviewer(*opts)
			if err != nil {
				return err
			}

			md, err := previewer.Preview(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			if md.IsEmpty() {
				fmt.Fprintln(out, "No metadata could be resolved")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"Title", deref(md.Title)},
				{"Description", deref(md.Description)},
				{"Thumbnail", deref(md.Thumbnail)},
			})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
			t.Render()
			return nil
		},
	}
}

const defaultTemplatePath = "content-feed-import-template.xlsx"

func newTemplateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the spreadsheet import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}

			if writeErr := importer.WriteTemplate(f); writeErr != nil {
				_ = f.Close()
				return writeErr
			}
			if closeErr := f.Close(); closeErr != nil {
				return fmt.Errorf("close %s: %w", output, closeErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultTemplatePath, "file to write")
	return cmd
}
