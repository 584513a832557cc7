package db

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"inkpost/internal/config"
	"inkpost/internal/model"
)

func TestFullTextIndexSQL(t *testing.T) {
	idx := fullTextIndex{name: "idx_posts_title_fts", column: "title"}

	stmt, err := fullTextIndexSQL(DriverPostgres, idx)
	require.NoError(t, err)
	assert.Equal(t, "CREATE INDEX IF NOT EXISTS idx_posts_title_fts ON posts USING GIN (to_tsvector('english', title))", stmt)

	stmt, err = fullTextIndexSQL(DriverMySQL, idx)
	require.NoError(t, err)
	assert.Equal(t, "CREATE FULLTEXT INDEX idx_posts_title_fts ON posts (title)", stmt)

	_, err = fullTextIndexSQL("sqlite", idx)
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestCommentSchema_PostForeignKey(t *testing.T) {
	s, err := schema.Parse(&model.Comment{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	rel, ok := s.Relationships.Relations["Post"]
	require.True(t, ok, "comment must reference its post")

	constraint := rel.ParseConstraint()
	require.NotNil(t, constraint)
	assert.Equal(t, "posts", constraint.ReferenceSchema.Table)
	require.Len(t, constraint.ForeignKeys, 1)
	assert.Equal(t, "post_id", constraint.ForeignKeys[0].DBName)
	assert.Equal(t, "CASCADE", constraint.OnDelete)
}
