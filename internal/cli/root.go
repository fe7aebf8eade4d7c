// Package cli implements contentfeedctl, the operator command line for the
// content feed.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonesrussell/north-cloud/content-feed/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
	"github.com/spf13/cobra"
)

// Feed is the part of the workflow the commands drive.
type Feed interface {
	List(ctx context.Context) ([]models.ContentItem, error)
	Count(ctx context.Context) (int, error)
	NextPosition(ctx context.Context) (int, error)
	Create(ctx context.Context, in service.ItemInput) (*models.ContentItem, error)
	Toggle(ctx context.Context, id int64) (*models.ContentItem, error)
	Refresh(ctx context.Context, id int64) (service.RefreshResult, error)
}

// Previewer resolves metadata without storing anything.
type Previewer interface {
	Preview(ctx context.Context, contentType, rawURL string) (models.Metadata, error)
}

// Options are the global flags.
type Options struct {
	ConfigPath string
	Debug      bool
}

// Backend opens what the commands need. Open requires the database;
// OpenPreviewer does not.
type Backend interface {
	Open(ctx context.Context, opts Options) (Feed, io.Closer, error)
	OpenPreviewer(opts Options) (Previewer, error)
}

// NewRootCommand builds the command tree on top of backend.
func NewRootCommand(backend Backend) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:           "contentfeedctl",
		Short:         "Manage the content feed",
		Long:          `Manage content feed items: list, refresh metadata, toggle, bulk import and resolve URLs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newItemsCommand(backend, opts),
		newResolveCommand(backend, opts),
		newTemplateCommand(),
	)
	return root
}

// Execute runs contentfeedctl against the configured database.
func Execute() error {
	return NewRootCommand(&defaultBackend{version: bootstrap.Version}).ExecuteContext(context.Background())
}

// Main is the contentfeedctl entry point.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
