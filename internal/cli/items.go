package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/content-feed/internal/importer"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/spf13/cobra"
)

const maxTitleWidth = 60

func newItemsCommand(backend Backend, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage feed items",
	}

	cmd.AddCommand(
		newItemsListCommand(backend, opts),
		newItemsRefreshCommand(backend, opts),
		newItemsToggleCommand(backend, opts),
		newItemsImportCommand(backend, opts),
	)
	return cmd
}

// withFeed opens the backend for one command run.
func withFeed(ctx context.Context, backend Backend, opts *Options, fn func(Feed) error) error {
	feed, closer, err := backend.Open(ctx, *opts)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	return fn(feed)
}

func newItemsListCommand(backend Backend, opts *Options) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFeed(cmd.Context(), backend, opts, func(feed Feed) error {
				items, err := feed.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list items: %w", err)
				}
				if activeOnly {
					items = filterActive(items)
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items")
				} else {
					renderItems(cmd.OutOrStdout(), items)
				}
				return printListSummary(cmd.Context(), cmd.OutOrStdout(), feed, len(items))
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show active items")
	return cmd
}

func printListSummary(ctx context.Context, w io.Writer, feed Feed, shown int) error {
	total, err := feed.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	next, err := feed.NextPosition(ctx)
	if err != nil {
		return fmt.Errorf("failed to read next position: %w", err)
	}
	fmt.Fprintf(w, "%d of %d items shown, next position %d\n", shown, total, next)
	return nil
}

func filterActive(items []models.ContentItem) []models.ContentItem {
	out := items[:0]
	for _, item := range items {
		if item.Active {
			out = append(out, item)
		}
	}
	return out
}

func renderItems(w io.Writer, items []models.ContentItem) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Position", "Type", "Active", "Title", "URL"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: maxTitleWidth},
	})

	for i := range items {
		item := &items[i]
		t.AppendRow(table.Row{
			item.ID,
			item.Position,
			item.Type.Label(),
			item.Active,
			deref(item.Title),
			item.URL,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(items)})
	t.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func newItemsRefreshCommand(backend Backend, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <id>",
		Short: "Re-resolve an item's title, description and thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return withFeed(cmd.Context(), backend, opts, func(feed Feed) error {
				result, refreshErr := feed.Refresh(cmd.Context(), id)
				if refreshErr != nil {
					return fmt.Errorf("failed to refresh item %d: %w", id, refreshErr)
				}
				if !result.Refreshed {
					fmt.Fprintf(cmd.OutOrStdout(), "Item %d: no metadata could be resolved, nothing changed\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d refreshed: %s\n", id, deref(result.Item.Title))
				return nil
			})
		},
	}
}

func newItemsToggleCommand(backend Backend, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip an item between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return withFeed(cmd.Context(), backend, opts, func(feed Feed) error {
				item, toggleErr := feed.Toggle(cmd.Context(), id)
				if toggleErr != nil {
					return fmt.Errorf("failed to toggle item %d: %w", id, toggleErr)
				}
				state := "deactivated"
				if item.Active {
					state = "activated"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Item %d %s\n", id, state)
				return nil
			})
		},
	}
}

func newItemsImportCommand(backend Backend, opts *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Create items from a spreadsheet",
		Long: `Create one item per spreadsheet row. Columns: type, url, active, position.
Rows are created in order; run "contentfeedctl template" for an example file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			rows, parseErrors := importer.ParseExcelFile(f)
			out := cmd.OutOrStdout()

			if dryRun {
				fmt.Fprintf(out, "%d valid rows, %d invalid rows\n", len(rows), len(parseErrors))
				renderImportErrors(out, parseErrors)
				return nil
			}

			return withFeed(cmd.Context(), backend, opts, func(feed Feed) error {
				result := importer.Import(cmd.Context(), feed, rows)
				allErrors := append(parseErrors, result.Errors...)

				fmt.Fprintf(out, "Created %d items, %d rows failed\n", len(result.Created), len(allErrors))
				renderImportErrors(out, allErrors)
				if len(result.Created) == 0 && len(allErrors) > 0 {
					return errors.New("import failed: no rows were created")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without creating items")
	return cmd
}

func renderImportErrors(w io.Writer, rowErrors []importer.ImportError) {
	if len(rowErrors) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Error"})
	for _, e := range rowErrors {
		t.AppendRow(table.Row{e.Row, e.Error})
	}
	t.Render()
}
