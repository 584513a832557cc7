package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"inkpost/internal/model"
	"inkpost/internal/service"
)

// Fixture is the seed document. JSON documents are accepted as well since
// they are valid YAML.
type Fixture struct {
	Profiles []FixtureProfile `yaml:"profiles"`
	Posts    []FixturePost    `yaml:"posts"`
}

// FixtureProfile represents a profile as reported by the identity provider.
type FixtureProfile struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Image string `yaml:"image"`
}

// FixturePost is a post with its comments in thread order.
type FixturePost struct {
	Title    string           `yaml:"title"`
	Content  string           `yaml:"content"`
	Summary  string           `yaml:"summary"`
	AuthorID string           `yaml:"author_id"`
	Comments []FixtureComment `yaml:"comments"`
}

// FixtureComment represents a comment on a fixture post.
type FixtureComment struct {
	UserID string `yaml:"user_id"`
	Text   string `yaml:"text"`
}

type profileSyncer interface {
	SyncProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error)
}

type contentWriter interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (*model.Post, error)
	AddComment(ctx context.Context, in service.AddCommentInput) (*model.Comment, error)
}

// Result counts what a seed run wrote.
type Result struct {
	Profiles int
	Posts    int
	Comments int
}

// loadFixture reads a fixture from a local path or an http(s) URL.
func loadFixture(ctx context.Context, src string) (*Fixture, error) {
	var (
		body []byte
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		body, err = fetch(ctx, src)
	} else {
		body, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	var f Fixture
	if err := yaml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fixture URL returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// seed upserts every profile, then creates posts and their comments. Posts
// referencing an author missing from the fixture are still created; readers
// see them with a placeholder author.
func seed(ctx context.Context, profiles profileSyncer, content contentWriter, f *Fixture) (Result, error) {
	var res Result
	for _, p := range f.Profiles {
		if _, err := profiles.SyncProfile(ctx, &model.Profile{ID: p.ID, Name: p.Name, Email: p.Email, Image: p.Image}); err != nil {
			return res, fmt.Errorf("error syncing profile %s: %w", p.ID, err)
		}
		res.Profiles++
	}

	for _, fp := range f.Posts {
		post, err := content.CreatePost(ctx, service.CreatePostInput{
			Title:    fp.Title,
			Content:  fp.Content,
			Summary:  fp.Summary,
			AuthorID: fp.AuthorID,
		})
		if err != nil {
			return res, fmt.Errorf("error creating post %q: %w", fp.Title, err)
		}
		res.Posts++

		for _, fc := range fp.Comments {
			if _, err := content.AddComment(ctx, service.AddCommentInput{PostID: post.ID, UserID: fc.UserID, Text: fc.Text}); err != nil {
				return res, fmt.Errorf("error adding comment to %q: %w", fp.Title, err)
			}
			res.Comments++
		}
	}
	return res, nil
}
