package summary

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"inkpost/internal/markdown"
)

// FallbackMessage is shown to the author when no summary could be produced.
const FallbackMessage = "Failed to generate summary. Please try again."

// Drafter produces draft summaries for the post editor.
type Drafter struct {
	summarizer Summarizer
	maxInput   int
	logger     *zap.Logger
}

// NewDrafter creates a Drafter. maxInput bounds the plain text sent to the
// summarizer, in runes.
func NewDrafter(summarizer Summarizer, maxInput int, logger *zap.Logger) *Drafter {
	return &Drafter{summarizer: summarizer, maxInput: maxInput, logger: logger}
}

// Draft summarizes markdown content. It never fails: when the summarizer
// errors or returns nothing, it returns FallbackMessage and false.
func (d *Drafter) Draft(ctx context.Context, content string) (string, bool) {
	text := markdown.Truncate(markdown.PlainText(content), d.maxInput)
	if text == "" {
		return FallbackMessage, false
	}

	summary, err := d.summarizer.Summarize(ctx, text)
	if err != nil {
		d.logger.Warn("summary generation failed", zap.Error(err))
		return FallbackMessage, false
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		d.logger.Warn("summary generation returned no text")
		return FallbackMessage, false
	}
	return summary, true
}
