package store

import (
	"context"
	"fmt"

	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

// viewRecord is one stored row of a view-count history table.
type viewRecord struct {
	ID        int64  `db:"id"`
	Ref       string `db:"ref"`
	Views     int64  `db:"views"`
	CreatedAt string `db:"created_at"`
}

func (s *SQLiteStore) getUser(ctx context.Context, username string) (*writefreely.User, error) {
	var u writefreely.User
	err := s.db.GetContext(ctx, &u, "SELECT username, email, created FROM users WHERE username = ?", username)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

func (s *SQLiteStore) getCollection(ctx context.Context, alias string) (*writefreely.Collection, error) {
	var c writefreely.Collection
	err := s.db.GetContext(ctx, &c, "SELECT "+collectionColumns+" FROM collections WHERE alias = ?", alias)
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", alias, err)
	}
	return &c, nil
}

func (s *SQLiteStore) getPost(ctx context.Context, id string) (*writefreely.Post, error) {
	var p writefreely.Post
	err := s.db.GetContext(ctx, &p, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteStore) listPostViews(ctx context.Context, postID string) ([]viewRecord, error) {
	var views []viewRecord
	err := s.db.SelectContext(ctx, &views,
		"SELECT id, post_id AS ref, views, created_at FROM post_views WHERE post_id = ? ORDER BY id", postID)
	return views, err
}

func (s *SQLiteStore) listCollectionViews(ctx context.Context, alias string) ([]viewRecord, error) {
	var views []viewRecord
	err := s.db.SelectContext(ctx, &views,
		"SELECT id, collection_alias AS ref, views, created_at FROM collection_views WHERE collection_alias = ? ORDER BY id", alias)
	return views, err
}
