package summary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSummarizer is a mock implementation of Summarizer.
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func TestDrafter_Draft(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		setupMock func(*MockSummarizer)
		want      string
		wantOK    bool
	}{
		{
			name:    "summary produced from plain text",
			content: "# Title\n\nBody with **markdown**.",
			setupMock: func(m *MockSummarizer) {
				m.On("Summarize", mock.Anything, "Title Body with markdown.").Return("  A post about markdown. ", nil)
			},
			want:   "A post about markdown.",
			wantOK: true,
		},
		{
			name:    "summarizer error falls back",
			content: "Body",
			setupMock: func(m *MockSummarizer) {
				m.On("Summarize", mock.Anything, "Body").Return("", errors.New("quota exceeded"))
			},
			want:   FallbackMessage,
			wantOK: false,
		},
		{
			name:    "empty summary falls back",
			content: "Body",
			setupMock: func(m *MockSummarizer) {
				m.On("Summarize", mock.Anything, "Body").Return("   ", nil)
			},
			want:   FallbackMessage,
			wantOK: false,
		},
		{
			name:      "empty content is not sent",
			content:   "  \n ",
			setupMock: func(m *MockSummarizer) {},
			want:      FallbackMessage,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSummarizer)
			tt.setupMock(m)

			d := NewDrafter(m, 100, zap.NewNop())
			got, ok := d.Draft(context.Background(), tt.content)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			m.AssertExpectations(t)
		})
	}
}

func TestDrafter_TruncatesInput(t *testing.T) {
	m := new(MockSummarizer)
	m.On("Summarize", mock.Anything, "abcde").Return("short", nil)

	d := NewDrafter(m, 5, zap.NewNop())
	got, ok := d.Draft(context.Background(), "abcdefghij")

	assert.True(t, ok)
	assert.Equal(t, "short", got)
	m.AssertExpectations(t)
}

func TestDrafter_Disabled(t *testing.T) {
	d := NewDrafter(Disabled{}, 100, zap.NewNop())
	got, ok := d.Draft(context.Background(), "anything")

	assert.False(t, ok)
	assert.Equal(t, FallbackMessage, got)
}

func TestNewGeminiSummarizer_RequiresKey(t *testing.T) {
	_, err := NewGeminiSummarizer(context.Background(), "", "gemini-2.0-flash", "")
	assert.Error(t, err)
}

func TestGeminiSummarizer_Summarize(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "test-model:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": " A tidy summary.\n"}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	defer server.Close()

	s, err := NewGeminiSummarizer(context.Background(), "test-key", "test-model", server.URL)
	require.NoError(t, err)

	got, err := s.Summarize(context.Background(), "post body")

	require.NoError(t, err)
	assert.Equal(t, "A tidy summary.", got)
	assert.Contains(t, gotBody, "post body")
}

func TestGeminiSummarizer_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend unavailable","status":"INTERNAL"}}`))
	}))
	defer server.Close()

	s, err := NewGeminiSummarizer(context.Background(), "test-key", "test-model", server.URL)
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), "post body")
	assert.Error(t, err)
}
