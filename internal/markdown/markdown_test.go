package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading and emphasis", "# Hello\n\nSome **bold** text", "Hello Some bold text"},
		{"links keep their label", "see [the docs](https://example.com) & more", "see the docs & more"},
		{"raw html tags are dropped", "before <b>bold</b> after", "before bold after"},
		{"lists", "- one\n- two\n", "one two"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
}
