package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

// SearchPosts runs a full-text query over post titles and bodies, best
// matches first.
func (s *SQLiteStore) SearchPosts(ctx context.Context, query string, limit int) ([]writefreely.Post, error) {
	var posts []writefreely.Post
	err := s.db.SelectContext(ctx, &posts, searchSQL("posts", postColumns), matchExpr(query), searchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// SearchCollections runs a full-text query over collection titles and
// descriptions, best matches first.
func (s *SQLiteStore) SearchCollections(ctx context.Context, query string, limit int) ([]writefreely.Collection, error) {
	var colls []writefreely.Collection
	err := s.db.SelectContext(ctx, &colls, searchSQL("collections", collectionColumns), matchExpr(query), searchLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search collections: %w", err)
	}
	return colls, nil
}

func searchSQL(base, columns string) string {
	fts := quoteIdent(searchTable(base))
	b := quoteIdent(base)

	cols := strings.Split(columns, ", ")
	for i, c := range cols {
		cols[i] = b + "." + c
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s JOIN %s ON %s.rowid = %s.rowid WHERE %s MATCH ? ORDER BY %s.rank LIMIT ?",
		strings.Join(cols, ", "), fts, b, b, fts, fts, fts)
}

func searchLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

// matchExpr turns free text into an FTS5 query that ANDs its words. Every
// word is quoted so punctuation and operators are matched literally.
func matchExpr(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}
