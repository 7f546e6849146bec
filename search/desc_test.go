package search_test

import (
	"testing"

	"github.com/hupe1980/docdex/search"
)

func TestShortDesc(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "empty",
			doc:  "",
			want: "",
		},
		{
			name: "single paragraph",
			doc:  "Adds two numbers.",
			want: "Adds two numbers.",
		},
		{
			name: "first paragraph only",
			doc:  "First line.\n\nSecond paragraph with detail.",
			want: "First line.",
		},
		{
			name: "inline markup flattened",
			doc:  "Wraps *emphasis* and `code` spans.",
			want: "Wraps emphasis and code spans.",
		},
		{
			name: "link text kept",
			doc:  "See [the guide](https://example.com) for more.",
			want: "See the guide for more.",
		},
		{
			name: "leading heading skipped",
			doc:  "# Title\n\nBody text.",
			want: "Body text.",
		},
		{
			name: "heading only",
			doc:  "# Title",
			want: "",
		},
		{
			name: "whitespace normalized",
			doc:  "Spread   over\nlines.",
			want: "Spread over lines.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.ShortDesc(tt.doc); got != tt.want {
				t.Fatalf("ShortDesc(%q) = %q, want %q", tt.doc, got, tt.want)
			}
		})
	}
}
