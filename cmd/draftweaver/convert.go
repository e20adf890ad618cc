package main

import (
	"bytes"
	"fmt"
	"strings"

	draftweaver "github.com/alnah/go-draftweaver"
)

// runConvert converts an HTML fragment to Markdown.
func runConvert(args []string, env *Environment) error {
	f := &convertFlags{}
	pos, err := parseFlagSet(newConvertFlagSet("convert", f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("convert", pos, 1, 1); err != nil {
		return err
	}

	src, err := readInput(env, pos[0])
	if err != nil {
		return err
	}

	md := draftweaver.HTMLToMarkdown(string(src), f.base)
	return writeOutput(env, f.output, []byte(md), f.force)
}

// runRender converts a Markdown file or draft body to an HTML fragment.
func runRender(args []string, env *Environment) error {
	f := &convertFlags{}
	pos, err := parseFlagSet(newConvertFlagSet("render", f), args)
	if err != nil {
		return err
	}
	if err := expectArgs("render", pos, 1, 1); err != nil {
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

	html := draftweaver.MarkdownToHTML(doc.Body)
	return writeOutput(env, f.output, []byte(html), f.force)
}

// runSlug prints the identifier derived from its arguments.
func runSlug(args []string, env *Environment) error {
	pos, err := parseFlagSet(newSlugFlagSet(), args)
	if err != nil {
		return err
	}
	if err := expectArgs("slug", pos, 1, -1); err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, draftweaver.SanitizeIdentifier(strings.Join(pos, " ")))
	return nil
}
