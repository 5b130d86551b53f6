// Command notioncheck verifies the Notion integration used by the content API:
// database access and schema, body conversion of a single page, and the
// post listing as the API would serve it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/notion-content-api/internal/config"
	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
	"github.com/notion-content-api/internal/service"
	"github.com/notion-content-api/internal/validation"
	"github.com/notion-content-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const previewLength = 500

type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *notion.Client
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "notioncheck",
		Short:         "Check the Notion integration behind the content API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "database",
			Short: "Show the configured database and its properties",
			Args:  cobra.NoArgs,
			RunE:  a.runDatabase,
		},
		&cobra.Command{
			Use:   "content <page-id>",
			Short: "Convert one page to Markdown and preview it",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runContent,
		},
		&cobra.Command{
			Use:   "posts",
			Short: "Print the post list as served by the API",
			Args:  cobra.NoArgs,
			RunE:  a.runPosts,
		},
		&cobra.Command{
			Use:   "post <slug>",
			Short: "Print one post, with its body, as served by the API",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runPost,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) init() error {
	if _, err := config.LoadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithOptions(os.Stderr, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	a.client = notion.NewClient(&cfg.Notion, a.log)
	return nil
}

func (a *app) services() *service.Services {
	m := metrics.New()
	repos := repository.New(a.client, &a.cfg.Notion, m, a.log)
	return service.NewServices(repos, a.cfg, m, a.log)
}

func (a *app) runDatabase(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Token:       %s\n", a.cfg.Notion.TokenPreview())
	fmt.Fprintf(out, "Database ID: %s\n\n", a.cfg.Notion.DatabaseID)

	db, err := a.client.RetrieveDatabase(ctx, a.cfg.Notion.DatabaseID)
	if err != nil {
		return fmt.Errorf("cannot access database: %w", err)
	}

	title := notion.PlainText(db.Title)
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(out, "Database title: %s\n", title)
	fmt.Fprintf(out, "Database URL:   %s\n\nProperties:\n", db.URL)

	names := make([]string, 0, len(db.Properties))
	for name := range db.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  - %s (%s)\n", name, db.Properties[name].Type)
	}

	resp, err := a.client.QueryDatabase(ctx, a.cfg.Notion.DatabaseID, &notion.QueryRequest{PageSize: 1})
	if err != nil {
		return fmt.Errorf("cannot query database: %w", err)
	}
	fmt.Fprintf(out, "\nQuery returned %d page(s)\n", len(resp.Results))
	return nil
}

func (a *app) runContent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := validation.NormalizePageID(args[0])
	if err != nil {
		return err
	}

	blocks, err := notion.NewMarkdownConverter(a.client).PageBlocks(ctx, id)
	if err != nil {
		return fmt.Errorf("cannot fetch page blocks: %w", err)
	}
	fmt.Fprintf(out, "Page %s has %d top-level block(s)\n", id, len(blocks))
	if len(blocks) == 0 {
		fmt.Fprintln(out, "No content blocks found; add content to the page body, not only to its properties")
		return nil
	}

	markdown := notion.BlocksToMarkdown(blocks)
	fmt.Fprintf(out, "Markdown length: %d characters\n\n---\n", len(markdown))
	preview := []rune(markdown)
	if len(preview) > previewLength {
		preview = preview[:previewLength]
	}
	fmt.Fprintf(out, "%s\n---\n", string(preview))
	return nil
}

func (a *app) runPosts(cmd *cobra.Command, args []string) error {
	resp, err := a.services().Posts.GetList(cmd.Context(), service.NewScope())
	if err != nil {
		return err
	}
	return writeJSON(cmd, resp)
}

func (a *app) runPost(cmd *cobra.Command, args []string) error {
	post, err := a.services().Posts.GetBySlug(cmd.Context(), service.NewScope(), args[0])
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("no published post with slug %q", args[0])
	}
	return writeJSON(cmd, post)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
