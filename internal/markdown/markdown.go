package markdown

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	mdParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	strip    = bluemonday.StrictPolicy()
)

// PlainText renders markdown and strips every tag, leaving readable text
// with whitespace collapsed to single spaces.
func PlainText(source string) string {
	var buf bytes.Buffer
	text := source
	if err := mdParser.Convert([]byte(source), &buf); err == nil {
		text = html.UnescapeString(strip.Sanitize(buf.String()))
	}
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most max runes. max <= 0 means no limit.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
