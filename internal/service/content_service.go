package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	apperrors "inkpost/internal/errors"
	"inkpost/internal/events"
	"inkpost/internal/model"
	"inkpost/internal/repository"
)

// CreatePostInput carries the fields an author supplies for a new post.
type CreatePostInput struct {
	Title    string
	Content  string
	Summary  string
	AuthorID string
}

// AddCommentInput carries a new comment on a post.
type AddCommentInput struct {
	PostID string
	UserID string
	Text   string
}

// ContentService reads and writes posts and comments, hydrating them with
// profiles. Read operations never fail: storage errors are logged and turn
// into empty results or placeholder profiles. Writes return ErrCreationFailed.
type ContentService interface {
	ListPosts(ctx context.Context) []model.Post
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string) []model.Post
	SearchPosts(ctx context.Context, query string) []model.Post
	CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error)
	AddComment(ctx context.Context, in AddCommentInput) (*model.Comment, error)
}

type contentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	profiles ProfileService
	events   events.Publisher
	logger   *zap.Logger
}

// NewContentService creates a new content service. publisher may be nil.
func NewContentService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	profiles ProfileService,
	publisher events.Publisher,
	logger *zap.Logger,
) ContentService {
	return &contentService{
		posts:    posts,
		comments: comments,
		profiles: profiles,
		events:   publisher,
		logger:   logger,
	}
}

// ListPosts returns every post, newest first, each with its author.
func (s *contentService) ListPosts(ctx context.Context) []model.Post {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Warn("list posts failed", zap.Error(err))
		return []model.Post{}
	}
	return s.hydrateAuthors(ctx, posts)
}

// GetPost returns a post with its author and chronological comment thread.
// A missing row and a failed query both yield ErrPostNotFound.
func (s *contentService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("get post failed", zap.String("post_id", id), zap.Error(err))
		}
		return nil, apperrors.ErrPostNotFound
	}

	author, err := s.profiles.GetProfile(ctx, post.AuthorID)
	if err != nil {
		s.logger.Warn("author lookup failed", zap.String("author_id", post.AuthorID), zap.Error(err))
		post.Author = model.PlaceholderProfile(post.AuthorID, model.UnknownName)
	} else {
		post.Author = *author
	}

	post.Comments = s.loadThread(ctx, post.ID)
	return post, nil
}

// ListPostsByAuthor returns one author's posts, newest first. If the author's
// profile cannot be loaded the page is empty.
func (s *contentService) ListPostsByAuthor(ctx context.Context, authorID string) []model.Post {
	author, err := s.profiles.GetProfile(ctx, authorID)
	if err != nil {
		s.logger.Warn("author lookup failed", zap.String("author_id", authorID), zap.Error(err))
		return []model.Post{}
	}

	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		s.logger.Warn("list author posts failed", zap.String("author_id", authorID), zap.Error(err))
		return []model.Post{}
	}

	for i := range posts {
		posts[i].Author = *author
	}
	if posts == nil {
		return []model.Post{}
	}
	return posts
}

// SearchPosts matches any query term against titles and contents. Both
// searches run concurrently; a failed side contributes no results. The
// merged result has no ranking.
func (s *contentService) SearchPosts(ctx context.Context, query string) []model.Post {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return []model.Post{}
	}

	var titleHits, contentHits []model.Post
	var g errgroup.Group
	g.Go(func() error {
		titleHits = s.search(ctx, repository.SearchTitle, terms)
		return nil
	})
	g.Go(func() error {
		contentHits = s.search(ctx, repository.SearchContent, terms)
		return nil
	})
	_ = g.Wait()

	return s.hydrateAuthors(ctx, mergeByID(titleHits, contentHits))
}

func (s *contentService) search(ctx context.Context, field repository.SearchField, terms []string) []model.Post {
	posts, err := s.posts.Search(ctx, field, terms)
	if err != nil {
		s.logger.Warn("post search failed", zap.String("field", string(field)), zap.Strings("terms", terms), zap.Error(err))
		return nil
	}
	return posts
}

// CreatePost stores a new post and returns it with its author attached.
func (s *contentService) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	post := &model.Post{
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		AuthorID: in.AuthorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("create post failed", zap.String("author_id", in.AuthorID), zap.Error(err))
		return nil, fmt.Errorf("%w: insert post: %w", apperrors.ErrCreationFailed, err)
	}

	author, err := s.profiles.GetProfile(ctx, post.AuthorID)
	if err != nil {
		s.logger.Warn("author lookup failed", zap.String("author_id", post.AuthorID), zap.Error(err))
		post.Author = model.PlaceholderProfile(post.AuthorID, model.UnknownName)
	} else {
		post.Author = *author
	}

	s.publish(ctx, events.Event{Type: events.PostCreated, PostID: post.ID, ActorID: post.AuthorID, At: post.CreatedAt})
	return post, nil
}

// AddComment stores a comment and returns the stored row without its user;
// callers re-fetch the post for a hydrated thread.
func (s *contentService) AddComment(ctx context.Context, in AddCommentInput) (*model.Comment, error) {
	comment := &model.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   in.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("add comment failed", zap.String("post_id", in.PostID), zap.Error(err))
		return nil, fmt.Errorf("%w: insert comment: %w", apperrors.ErrCreationFailed, err)
	}

	s.publish(ctx, events.Event{Type: events.CommentAdded, PostID: comment.PostID, CommentID: comment.ID, ActorID: comment.UserID, At: comment.CreatedAt})
	return comment, nil
}

// hydrateAuthors attaches author profiles fetched in one batch. Posts whose
// author cannot be resolved get an "Unknown Author" placeholder; no post is
// ever dropped.
func (s *contentService) hydrateAuthors(ctx context.Context, posts []model.Post) []model.Post {
	if len(posts) == 0 {
		return []model.Post{}
	}

	ids := distinct(posts, func(p model.Post) string { return p.AuthorID })
	profiles, err := s.profiles.GetProfiles(ctx, ids)
	if err != nil {
		s.logger.Warn("author batch lookup failed", zap.Int("authors", len(ids)), zap.Error(err))
		profiles = nil
	}

	byID := indexProfiles(profiles)
	for i := range posts {
		posts[i].Author = profileOr(byID, posts[i].AuthorID, model.UnknownAuthorName)
	}
	return posts
}

// loadThread returns a post's comments oldest first with their users. Any
// failure to load comments yields an empty thread.
func (s *contentService) loadThread(ctx context.Context, postID string) []model.Comment {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		s.logger.Warn("list comments failed", zap.String("post_id", postID), zap.Error(err))
		return []model.Comment{}
	}
	if len(comments) == 0 {
		return []model.Comment{}
	}

	slices.SortStableFunc(comments, func(a, b model.Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	ids := distinct(comments, func(c model.Comment) string { return c.UserID })
	profiles, err := s.profiles.GetProfiles(ctx, ids)
	if err != nil {
		s.logger.Warn("commenter batch lookup failed", zap.String("post_id", postID), zap.Error(err))
		profiles = nil
	}

	byID := indexProfiles(profiles)
	for i := range comments {
		user := profileOr(byID, comments[i].UserID, model.UnknownName)
		comments[i].User = &user
	}
	return comments
}

func (s *contentService) publish(ctx context.Context, ev events.Event) {
	if s.events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.events.Publish(ctx, ev)
}

// searchTerms normalizes a free-text query into OR-able terms: the query is
// NFC-composed, whitespace is collapsed and characters other than letters,
// digits and combining marks are dropped so that no term can carry full-text
// operators. Duplicates are removed.
func searchTerms(query string) []string {
	fields := strings.Fields(norm.NFC.String(query))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		term := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
				return r
			}
			return -1
		}, f)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// mergeByID unions result sets by post id. A later duplicate replaces the
// earlier copy in place; first-seen order is kept.
func mergeByID(sets ...[]model.Post) []model.Post {
	index := make(map[string]int)
	var merged []model.Post
	for _, set := range sets {
		for _, p := range set {
			if i, ok := index[p.ID]; ok {
				merged[i] = p
				continue
			}
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func indexProfiles(profiles []model.Profile) map[string]model.Profile {
	byID := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return byID
}

func profileOr(byID map[string]model.Profile, id, placeholder string) model.Profile {
	if p, ok := byID[id]; ok {
		return p
	}
	return model.PlaceholderProfile(id, placeholder)
}
