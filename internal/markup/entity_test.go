package markup

import "testing"

func TestDecodeEntities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no entities",
			input:    "plain text",
			expected: "plain text",
		},
		{
			name:     "all five entities",
			input:    "&amp; &lt; &gt; &quot; &#39;",
			expected: `& < > " '`,
		},
		{
			name:     "nested-looking entity decodes once",
			input:    "&amp;lt;",
			expected: "&lt;",
		},
		{
			name:     "double escaped ampersand decodes once",
			input:    "&amp;amp;",
			expected: "&amp;",
		},
		{
			name:     "other references untouched",
			input:    "it&#8217;s &nbsp;",
			expected: "it&#8217;s &nbsp;",
		},
		{
			name:     "adjacent entities",
			input:    "&lt;&lt;&gt;&gt;",
			expected: "<<>>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DecodeEntities(tt.input)
			if got != tt.expected {
				t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDecodeEntities_NotIdempotent(t *testing.T) {
	t.Parallel()

	once := DecodeEntities("&amp;lt;")
	twice := DecodeEntities(once)

	if once != "&lt;" {
		t.Fatalf("first pass = %q, want %q", once, "&lt;")
	}
	if twice != "<" {
		t.Errorf("second pass = %q, want %q", twice, "<")
	}
}

func TestEscapeText(t *testing.T) {
	t.Parallel()

	got := EscapeText(`<a href="x">Tom & Jerry</a>`)
	want := `&lt;a href="x"&gt;Tom &amp; Jerry&lt;/a&gt;`
	if got != want {
		t.Errorf("EscapeText() = %q, want %q", got, want)
	}
}
