package draftweaver_test

import (
	"fmt"

	draftweaver "github.com/alnah/go-draftweaver"
)

// Example converts a WordPress post body and maps it to NIP-23 tags.
func Example() {
	html := `<h2>Intro</h2><p>Hello <b>World</b>, see <a href="/about/">about</a>.</p>`

	doc := draftweaver.Document{
		Title:  "My Post",
		Labels: []string{"Nostr", "OER"},
	}
	doc.Body = draftweaver.HTMLToMarkdown(html, "https://blog.example.com/my-post/")
	doc.Identifier = doc.ResolveIdentifier()

	ev := draftweaver.NewEvent(doc, nil)

	fmt.Println(ev.Kind)
	fmt.Println(ev.Content)
	for _, tag := range ev.Tags {
		fmt.Println(tag)
	}
	// Output:
	// 30023
	// ## Intro
	//
	// Hello **World**, see [about](https://blog.example.com/about/).
	// [d my-post]
	// [title My Post]
	// [t nostr]
	// [t oer]
	// [alt NIP-23 long-form article mapped from WordPress (markdown content)]
	// [client draftweaver]
}

// ExampleHTMLToMarkdown shows list conversion with a per-list counter.
func ExampleHTMLToMarkdown() {
	md := draftweaver.HTMLToMarkdown("<ol><li>A</li><li>B</li></ol><p>then</p><ol><li>C</li></ol>", "")
	fmt.Println(md)
	// Output:
	// 1. A
	// 2. B
	//
	// then
	//
	// 1. C
}

// ExampleMarkdownToHTML shows that text is escaped in previews.
func ExampleMarkdownToHTML() {
	fmt.Println(draftweaver.MarkdownToHTML("# Title\n\n**bold** <script>"))
	// Output:
	// <h1>Title</h1>
	// <p><strong>bold</strong> &lt;script&gt;</p>
}

// ExampleSanitizeIdentifier shows identifier normalization.
func ExampleSanitizeIdentifier() {
	fmt.Println(draftweaver.SanitizeIdentifier("Hello, World!"))
	fmt.Println(draftweaver.SanitizeIdentifier("  --Already--Clean--  "))
	fmt.Println(draftweaver.SanitizeIdentifier(""))
	// Output:
	// hello-world
	// already-clean
	// article
}

// ExampleAbsolutize shows relative reference resolution.
func ExampleAbsolutize() {
	fmt.Println(draftweaver.Absolutize("img.png", "https://x.com/blog/post"))
	fmt.Println(draftweaver.Absolutize("/img.png", "https://x.com/blog/post"))
	fmt.Println(draftweaver.Absolutize("https://y.com/a.png", "https://x.com/blog/post"))
	// Output:
	// https://x.com/blog/img.png
	// https://x.com/img.png
	// https://y.com/a.png
}

// ExampleDecodeEntities shows that decoding does not cascade.
func ExampleDecodeEntities() {
	fmt.Println(draftweaver.DecodeEntities("&amp;lt;"))
	// Output: &lt;
}

// ExampleRelayList shows that the last relay cannot be removed.
func ExampleRelayList() {
	relays := draftweaver.NewRelayList(draftweaver.Relay{URL: "wss://nos.lol", Read: true, Write: true})
	fmt.Println(relays.Remove("wss://nos.lol"))
	fmt.Println(relays.WriteURLs())
	// Output:
	// false
	// [wss://nos.lol]
}
