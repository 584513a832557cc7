package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inkpost/internal/model"
)

// SearchField names a posts column covered by a full-text index.
type SearchField string

const (
	SearchTitle   SearchField = "title"
	SearchContent SearchField = "content"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	Search(ctx context.Context, field SearchField, terms []string) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post; id and created_at are filled in on success.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the posts of one author, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Search runs a plain full-text match of any of the terms against one column.
func (r *postRepository) Search(ctx context.Context, field SearchField, terms []string) ([]model.Post, error) {
	if field != SearchTitle && field != SearchContent {
		return nil, fmt.Errorf("search on unindexed column %q", field)
	}
	if len(terms) == 0 {
		return nil, nil
	}

	clause, arg, err := fullTextClause(r.db.Dialector.Name(), field, terms)
	if err != nil {
		return nil, err
	}

	var posts []model.Post
	if err := r.db.WithContext(ctx).Where(clause, arg).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// fullTextClause renders an any-term match in the dialect's full-text syntax.
func fullTextClause(dialect string, field SearchField, terms []string) (string, string, error) {
	switch dialect {
	case "postgres":
		return fmt.Sprintf("to_tsvector('english', %s) @@ to_tsquery('english', ?)", field), strings.Join(terms, " | "), nil
	case "mysql":
		// Boolean mode without operators matches rows containing any term.
		return fmt.Sprintf("MATCH (%s) AGAINST (? IN BOOLEAN MODE)", field), strings.Join(terms, " "), nil
	default:
		return "", "", fmt.Errorf("full-text search is not supported on %q", dialect)
	}
}
