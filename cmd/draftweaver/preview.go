package main

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/assets"
	"github.com/alnah/go-draftweaver/internal/hints"
	"github.com/alnah/go-draftweaver/internal/nostr"
	"github.com/alnah/go-draftweaver/internal/preview"
)

// runPreview shows a draft as event JSON, an HTML page or styled terminal
// text.
func runPreview(ctx context.Context, args []string, env *Environment) error {
	f := &previewFlags{}
	pos, err := parseFlagSet(newPreviewFlagSet(f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("preview", pos, 1, 1); err != nil {
		return err
	}

	a, err := newApp(env, f.common, true)
	if err != nil {
		return err
	}

	src, err := readInput(env, pos[0])
	if err != nil {
		return err
	}
	doc, err := draftweaver.ParseDraft(bytes.NewReader(src))
	if err != nil {
		return err
	}
	doc.Identifier = doc.ResolveIdentifier()

	var out []byte
	switch f.format {
	case formatJSON:
		out, err = previewJSON(doc, a.envCfg)
	case formatHTML:
		out, err = previewHTML(ctx, doc, f, a)
	case formatTerminal:
		out = previewTerminal(doc, f, env)
	default:
		return fmt.Errorf("%w: unknown preview format %q (supported: json, html, terminal)", ErrUsage, f.format)
	}
	if err != nil {
		return err
	}

	return writeOutput(env, f.output, out, true)
}

// previewJSON renders the unsigned event. The author tag is filled when a
// key is available from the environment; no passphrase is prompted for.
func previewJSON(doc draftweaver.Document, envCfg *envConfig) ([]byte, error) {
	var id draftweaver.Identity
	if envCfg.Nsec != "" {
		k, err := nostr.ParseSecret(envCfg.Nsec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envNsec, err)
		}
		id = k
	}
	return draftweaver.PreviewJSON(draftweaver.NewEvent(doc, id))
}

// previewHTML renders a standalone page with the selected engine and
// stylesheet. Flags win over the config.
func previewHTML(ctx context.Context, doc draftweaver.Document, f *previewFlags, a *app) ([]byte, error) {
	engineName := cmp.Or(f.engine, a.cfg.Preview.Engine)
	engine, err := preview.NewEngine(engineName)
	if err != nil {
		return nil, err
	}

	css, err := loadStyle(cmp.Or(f.style, a.cfg.Preview.Style), a.cfg.Preview.AssetsDir)
	if err != nil {
		return nil, err
	}

	page, err := preview.NewPageRenderer(engine, preview.WithCSS(css)).Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

// loadStyle resolves a stylesheet from assetsDir, falling back to the
// built-in styles.
func loadStyle(name, assetsDir string) (string, error) {
	resolver, err := assets.NewResolver(assetsDir)
	if err != nil {
		return "", fmt.Errorf("preview.assetsDir: %w", err)
	}
	css, err := resolver.LoadStyle(cmp.Or(name, assets.DefaultStyleName))
	if errors.Is(err, assets.ErrStyleNotFound) {
		return "", fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.Styles()))
	}
	return css, err
}

// previewTerminal renders for stdout, or without colors when writing to a
// file.
func previewTerminal(doc draftweaver.Document, f *previewFlags, env *Environment) []byte {
	var target io.Writer = env.Stdout
	if f.output != "" {
		target = io.Discard
	}

	width := f.width
	if width <= 0 {
		width = preview.DefaultTerminalWidth
		if file, ok := target.(*os.File); ok {
			width = preview.TerminalWidth(file)
		}
	}

	r := preview.NewTerminalRenderer(target, preview.WithWidth(width))
	return []byte(r.RenderDocument(doc))
}
