// Package draftweaver turns blog posts into signed NIP-23 long-form Nostr
// events.
//
// # Quick Start
//
// Convert CMS HTML to Markdown, map the document to tags, and publish:
//
//	doc := draftweaver.Document{
//	    Title:        "My Post",
//	    CanonicalURL: "https://blog.example.com/my-post/",
//	    Labels:       []string{"Nostr", "OER"},
//	}
//	doc.Body = draftweaver.HTMLToMarkdown(html, doc.CanonicalURL)
//	doc.Identifier = doc.ResolveIdentifier()
//
//	ev := draftweaver.NewEvent(doc, keys)
//
//	pub := draftweaver.NewPublisher(draftweaver.WithLogger(logger))
//	result, err := pub.Publish(ctx, ev, keys, draftweaver.DefaultRelayList())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Event.ID, result.AcceptedBy())
//
// # Conversion
//
// HTMLToMarkdown and MarkdownToHTML convert a restricted subset of each
// format through an intermediate node tree. They never fail: unsupported
// HTML elements are dropped and their text kept, and Markdown text is always
// escaped in the HTML output. MarkdownToHTML is meant for previews; the
// published event content is the Markdown itself.
//
// # Tags
//
// BuildTags emits tags in a fixed order (d, title, summary, image, r, t,
// alt, client, author) since consumers read the first matching tag.
//
// # Publishing
//
// Publisher signs the event (BIP-340), then sends it to every write-enabled
// relay at once under a single timeout (DefaultPublishTimeout). Publishing
// succeeds if any relay accepts. When none does, the returned error is a
// *PublishError matching ErrPublishFailed, with per-relay details in its
// Outcomes.
//
// # Drafts
//
// LoadDraft and SaveDraft store a Document as a Markdown file with a YAML
// front matter header, so a post can be imported, edited and published in
// separate steps.
package draftweaver
