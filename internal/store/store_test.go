package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

type SQLiteStoreSuite struct {
	suite.Suite
	ctx   context.Context
	path  string
	store *SQLiteStore
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "writefreely.db")

	st, err := New(s.path)
	s.Require().NoError(err)
	s.store = st
}

func (s *SQLiteStoreSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func ptr[T any](v T) *T { return &v }

func (s *SQLiteStoreSuite) seed() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	s.Require().NoError(s.store.UpsertUsers(s.ctx, []writefreely.User{{Username: "matt"}}))
	s.Require().NoError(s.store.UpsertCollections(s.ctx, []writefreely.Collection{{
		Alias:        "matt",
		Title:        ptr("Matt"),
		Description:  ptr("My great blog!"),
		Public:       ptr(true),
		UserUsername: "matt",
	}}))
}

func (s *SQLiteStoreSuite) post(id, title, body string) writefreely.Post {
	return writefreely.Post{
		ID:              id,
		Slug:            ptr("cool-post"),
		RTL:             ptr(false),
		Title:           ptr(title),
		Body:            ptr(body),
		Tags:            writefreely.Tags{"go"},
		CollectionAlias: "matt",
		UserUsername:    "matt",
	}
}

func (s *SQLiteStoreSuite) schemaObjects() map[string]string {
	rows, err := s.store.db.QueryxContext(s.ctx, "SELECT name, type FROM sqlite_master")
	s.Require().NoError(err)
	defer rows.Close()

	objects := make(map[string]string)
	for rows.Next() {
		var name, typ string
		s.Require().NoError(rows.Scan(&name, &typ))
		objects[name] = typ
	}
	s.Require().NoError(rows.Err())
	return objects
}

func (s *SQLiteStoreSuite) TestEnsureSchema_CreatesEverything() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	objects := s.schemaObjects()
	for _, name := range []string{
		"users", "collections", "collection_views", "posts", "post_views",
		"users_fts", "collections_fts", "posts_fts",
	} {
		s.Equal("table", objects[name], name)
	}
	for _, name := range []string{
		"idx_collections_user_username",
		"idx_collection_views_collection_alias",
		"idx_posts_collection_alias",
		"idx_posts_user_username",
		"idx_post_views_post_id",
	} {
		s.Equal("index", objects[name], name)
	}
	for _, name := range []string{"users_ai", "users_ad", "users_au", "posts_ai", "posts_ad", "posts_au", "collections_au"} {
		s.Equal("trigger", objects[name], name)
	}

	// The primary key index already covers these.
	s.NotContains(objects, "idx_users_username")
	s.NotContains(objects, "idx_collections_alias")
}

func (s *SQLiteStoreSuite) TestEnsureSchema_Idempotent() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	first := s.schemaObjects()

	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	s.Equal(first, s.schemaObjects())
}

func (s *SQLiteStoreSuite) TestEnsureSchema_KeepsExistingData() {
	s.seed()
	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	n, err := s.store.Count(s.ctx, "collections")
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *SQLiteStoreSuite) TestEnsureSchema_AddsMissingColumns() {
	_, err := s.store.db.ExecContext(s.ctx, `CREATE TABLE users (username TEXT PRIMARY KEY)`)
	s.Require().NoError(err)
	_, err = s.store.db.ExecContext(s.ctx, `INSERT INTO users (username) VALUES ('old')`)
	s.Require().NoError(err)

	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	var cols []string
	s.Require().NoError(s.store.db.SelectContext(s.ctx, &cols, "SELECT name FROM pragma_table_info('users') ORDER BY cid"))
	s.Equal([]string{"username", "email", "created"}, cols)

	// Rows that predate the search table are indexed on creation.
	var hits int
	s.Require().NoError(s.store.db.GetContext(s.ctx, &hits, `SELECT COUNT(*) FROM users_fts WHERE users_fts MATCH 'old'`))
	s.Equal(1, hits)
}

func (s *SQLiteStoreSuite) TestUpsertUsers_LastWriteWins() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	s.Require().NoError(s.store.UpsertUsers(s.ctx, []writefreely.User{
		{Username: "matt", Email: ptr("old@example.com"), Created: ptr("2015-02-03T02:41:19Z")},
	}))
	s.Require().NoError(s.store.UpsertUsers(s.ctx, []writefreely.User{
		{Username: "matt", Email: ptr("new@example.com")},
	}))

	n, err := s.store.Count(s.ctx, "users")
	s.Require().NoError(err)
	s.Equal(1, n)

	u, err := s.store.getUser(s.ctx, "matt")
	s.Require().NoError(err)
	s.Equal("new@example.com", *u.Email)
	s.Require().NotNil(u.Created)
	s.Equal("2015-02-03T02:41:19Z", *u.Created)
}

func (s *SQLiteStoreSuite) TestUpsertPosts_RoundTrip() {
	s.seed()
	p := s.post("7xe2dbojynjs1dkk", "", "Cool post!")
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{p}))

	got, err := s.store.getPost(s.ctx, "7xe2dbojynjs1dkk")
	s.Require().NoError(err)
	s.Equal(p, *got)
}

func (s *SQLiteStoreSuite) TestUpsertPosts_OverwritesWithoutDuplicating() {
	s.seed()
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "First", "one")}))
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "Second", "two")}))

	n, err := s.store.Count(s.ctx, "posts")
	s.Require().NoError(err)
	s.Equal(1, n)

	got, err := s.store.getPost(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Second", *got.Title)
}

func (s *SQLiteStoreSuite) TestUpsertCollections_NullFieldsOverwrite() {
	s.seed()
	s.Require().NoError(s.store.UpsertCollections(s.ctx, []writefreely.Collection{{
		Alias:        "matt",
		Email:        ptr("matt@writeas.com"),
		UserUsername: "matt",
	}}))

	c, err := s.store.getCollection(s.ctx, "matt")
	s.Require().NoError(err)
	s.Nil(c.Title)
	s.Nil(c.Description)
	s.Nil(c.Public)
	s.Equal("matt@writeas.com", *c.Email)

	hits, err := s.store.SearchCollections(s.ctx, "great", 0)
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *SQLiteStoreSuite) TestUpsertPosts_NullTitleOverwrites() {
	s.seed()
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "Old title", "body")}))

	raw := writefreely.Raw{}
	s.Require().NoError(json.Unmarshal([]byte(`{"id":"p1","title":null,"body":"body","collection":{"alias":"matt"}}`), &raw))
	p, err := writefreely.TransformPost(raw, "matt")
	s.Require().NoError(err)
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{p}))

	got, err := s.store.getPost(s.ctx, "p1")
	s.Require().NoError(err)
	s.Nil(got.Title)
	s.Nil(got.Slug)
	s.Equal("body", *got.Body)

	hits, err := s.store.SearchPosts(s.ctx, "old", 10)
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *SQLiteStoreSuite) TestUpsertPosts_MissingCollectionFails() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	s.Require().NoError(s.store.UpsertUsers(s.ctx, []writefreely.User{{Username: "matt"}}))

	err := s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "t", "b")})
	s.Require().Error(err)
	s.Contains(err.Error(), "FOREIGN KEY constraint failed")
	s.Contains(err.Error(), "upsert post p1")

	n, err := s.store.Count(s.ctx, "posts")
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *SQLiteStoreSuite) TestUpsertCollections_MissingUserFails() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	err := s.store.UpsertCollections(s.ctx, []writefreely.Collection{{Alias: "matt", UserUsername: "nobody"}})
	s.ErrorContains(err, "FOREIGN KEY constraint failed")
}

func (s *SQLiteStoreSuite) TestAddPostViews_AppendOnly() {
	s.seed()
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "t", "b")}))

	s.Require().NoError(s.store.AddPostViews(s.ctx, []writefreely.PostView{{PostID: "p1", Views: 10}}))
	s.Require().NoError(s.store.AddPostViews(s.ctx, []writefreely.PostView{{PostID: "p1", Views: 12}}))

	views, err := s.store.listPostViews(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.NotEqual(views[0].ID, views[1].ID)
	s.Equal(int64(10), views[0].Views)
	s.Equal(int64(12), views[1].Views)
	s.Equal("p1", views[0].Ref)

	recorded, err := time.Parse(time.DateTime, views[0].CreatedAt)
	s.Require().NoError(err)
	s.WithinDuration(time.Now().UTC(), recorded, time.Minute)
}

func (s *SQLiteStoreSuite) TestAddCollectionViews_AppendOnly() {
	s.seed()
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.AddCollectionViews(s.ctx, []writefreely.CollectionView{{CollectionAlias: "matt", Views: 46}}))
	}

	views, err := s.store.listCollectionViews(s.ctx, "matt")
	s.Require().NoError(err)
	s.Len(views, 3)
}

func (s *SQLiteStoreSuite) TestAddPostViews_UnknownPostFails() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	err := s.store.AddPostViews(s.ctx, []writefreely.PostView{{PostID: "nope", Views: 1}})
	s.ErrorContains(err, "FOREIGN KEY constraint failed")
}

func (s *SQLiteStoreSuite) TestSearchPosts_FollowsUpdates() {
	s.seed()
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{
		s.post("p1", "Gophers", "hello world"),
		s.post("p2", "Other", "nothing to see"),
	}))

	hits, err := s.store.SearchPosts(s.ctx, "hello", 10)
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.Equal("p1", hits[0].ID)

	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "Gophers", "goodbye world")}))

	hits, err = s.store.SearchPosts(s.ctx, "hello", 10)
	s.Require().NoError(err)
	s.Empty(hits)

	hits, err = s.store.SearchPosts(s.ctx, "goodbye", 10)
	s.Require().NoError(err)
	s.Len(hits, 1)

	hits, err = s.store.SearchPosts(s.ctx, `gophers "world"`, 10)
	s.Require().NoError(err)
	s.Len(hits, 1)
}

func (s *SQLiteStoreSuite) TestSearchPosts_FollowsDeletes() {
	s.seed()
	s.Require().NoError(s.store.UpsertPosts(s.ctx, []writefreely.Post{s.post("p1", "Gophers", "hello world")}))

	_, err := s.store.db.ExecContext(s.ctx, "DELETE FROM posts WHERE id = 'p1'")
	s.Require().NoError(err)

	hits, err := s.store.SearchPosts(s.ctx, "hello", 10)
	s.Require().NoError(err)
	s.Empty(hits)
}

func (s *SQLiteStoreSuite) TestSearchCollections() {
	s.seed()

	hits, err := s.store.SearchCollections(s.ctx, "great", 0)
	s.Require().NoError(err)
	s.Require().Len(hits, 1)
	s.Equal("matt", hits[0].Alias)
}

func (s *SQLiteStoreSuite) TestGetUser_NotFound() {
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
	_, err := s.store.getUser(s.ctx, "ghost")
	s.ErrorIs(err, sql.ErrNoRows)
}

func (s *SQLiteStoreSuite) TestCount_UnknownTable() {
	_, err := s.store.Count(s.ctx, "sqlite_master")
	s.Error(err)
}

func (s *SQLiteStoreSuite) TestReopenKeepsData() {
	s.seed()
	s.Require().NoError(s.store.Close())

	st, err := New(s.path)
	s.Require().NoError(err)
	s.store = st
	s.Require().NoError(s.store.EnsureSchema(s.ctx))

	u, err := s.store.getUser(s.ctx, "matt")
	s.Require().NoError(err)
	s.Equal("matt", u.Username)
}
