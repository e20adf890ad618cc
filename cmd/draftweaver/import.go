package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/fileutil"
	"github.com/alnah/go-draftweaver/internal/hints"
	"github.com/alnah/go-draftweaver/internal/wordpress"
)

// runImport fetches a WordPress post and writes it as a draft.
func runImport(ctx context.Context, args []string, env *Environment) error {
	f := &importFlags{}
	pos, err := parseFlagSet(newImportFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("import", pos, 1, 1); err != nil {
		return err
	}
	if !fileutil.IsURL(pos[0]) {
		return fmt.Errorf("%w: %q%s", wordpress.ErrInvalidURL, pos[0], hints.ForPostURL())
	}

	a, err := newApp(env, f.common, true)
	if err != nil {
		return err
	}
	if f.output != "" {
		if err := checkOverwrite(f.output, f.force); err != nil {
			return err
		}
	}

	opts := []wordpress.Option{
		wordpress.WithHTTPClient(env.HTTPClient),
		wordpress.WithUserAgent(a.cfg.Import.UserAgent),
		wordpress.WithLogger(a.logger),
	}
	if a.cfg.Import.CacheTTL != 0 {
		opts = append(opts, wordpress.WithCacheTTL(a.cfg.Import.CacheTTL))
	}
	client := wordpress.New(opts...)

	doc, err := client.Import(ctx, pos[0])
	if errors.Is(err, wordpress.ErrUnexpectedStatus) || errors.Is(err, wordpress.ErrPostNotFound) ||
		errors.Is(err, wordpress.ErrDecode) {
		return fmt.Errorf("%w%s", err, hints.ForImport())
	}
	if err != nil {
		return err
	}
	a.logger.Debug("post imported",
		slog.String("title", doc.Title),
		slog.String("identifier", doc.Identifier),
		slog.Int("labels", len(doc.Labels)))

	if f.output == "" {
		data, err := draftweaver.MarshalDraft(doc)
		if err != nil {
			return err
		}
		return writeOutput(env, "", data, false)
	}

	if err := draftweaver.SaveDraft(f.output, doc); err != nil {
		return err
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Imported %q -> %s (d: %s)\n", doc.Title, f.output, doc.Identifier)
	}
	return nil
}
