package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists WriteFreely records in a SQLite file.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens (creating if needed) the SQLite database at path. The schema is
// not touched until EnsureSchema runs.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, rolling back when it fails.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Post and collection upserts overwrite every column, so a field the API now
// sends as null is stored as NULL. Users only ever carry a username here, so
// their email and created columns keep whatever was stored before.

const upsertUserSQL = `
	INSERT INTO users (username, email, created)
	VALUES (?, ?, ?)
	ON CONFLICT(username) DO UPDATE SET
		email = COALESCE(excluded.email, users.email),
		created = COALESCE(excluded.created, users.created)`

func (s *SQLiteStore) UpsertUsers(ctx context.Context, users []writefreely.User) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, u := range users {
			_, err := tx.ExecContext(ctx, upsertUserSQL, u.Username, deref(u.Email), deref(u.Created))
			if err != nil {
				return fmt.Errorf("upsert user %s: %w", u.Username, err)
			}
		}
		return nil
	})
}

const upsertCollectionSQL = `
	INSERT INTO collections (alias, title, description, style_sheet, public, email, url, user_username)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(alias) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		style_sheet = excluded.style_sheet,
		public = excluded.public,
		email = excluded.email,
		url = excluded.url,
		user_username = excluded.user_username`

func (s *SQLiteStore) UpsertCollections(ctx context.Context, colls []writefreely.Collection) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, c := range colls {
			_, err := tx.ExecContext(ctx, upsertCollectionSQL,
				c.Alias, deref(c.Title), deref(c.Description), deref(c.StyleSheet),
				deref(c.Public), deref(c.Email), deref(c.URL), c.UserUsername)
			if err != nil {
				return fmt.Errorf("upsert collection %s: %w", c.Alias, err)
			}
		}
		return nil
	})
}

const upsertPostSQL = `
	INSERT INTO posts (id, slug, appearance, language, rtl, created, updated, title, body, tags, collection_alias, user_username)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		slug = excluded.slug,
		appearance = excluded.appearance,
		language = excluded.language,
		rtl = excluded.rtl,
		created = excluded.created,
		updated = excluded.updated,
		title = excluded.title,
		body = excluded.body,
		tags = excluded.tags,
		collection_alias = excluded.collection_alias,
		user_username = excluded.user_username`

func (s *SQLiteStore) UpsertPosts(ctx context.Context, posts []writefreely.Post) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range posts {
			tags, err := p.Tags.Value()
			if err != nil {
				return fmt.Errorf("encode tags of post %s: %w", p.ID, err)
			}
			_, err = tx.ExecContext(ctx, upsertPostSQL,
				p.ID, deref(p.Slug), deref(p.Appearance), deref(p.Language), deref(p.RTL),
				deref(p.Created), deref(p.Updated), deref(p.Title), deref(p.Body), tags,
				p.CollectionAlias, p.UserUsername)
			if err != nil {
				return fmt.Errorf("upsert post %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AddPostViews(ctx context.Context, views []writefreely.PostView) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, v := range views {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO post_views (post_id, views) VALUES (?, ?)", v.PostID, v.Views)
			if err != nil {
				return fmt.Errorf("add post view %s: %w", v.PostID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) AddCollectionViews(ctx context.Context, views []writefreely.CollectionView) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, v := range views {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO collection_views (collection_alias, views) VALUES (?, ?)", v.CollectionAlias, v.Views)
			if err != nil {
				return fmt.Errorf("add collection view %s: %w", v.CollectionAlias, err)
			}
		}
		return nil
	})
}

// Count returns the number of rows in one of the schema's tables.
func (s *SQLiteStore) Count(ctx context.Context, name string) (int, error) {
	known := false
	for _, t := range tables {
		if t.name == name {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("count %s: unknown table", name)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+quoteIdent(name)); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

const (
	collectionColumns = "alias, title, description, style_sheet, public, email, url, user_username"
	postColumns       = "id, slug, appearance, language, rtl, created, updated, title, body, tags, collection_alias, user_username"
)

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
