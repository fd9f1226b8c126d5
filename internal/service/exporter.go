package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

// Stats counts what one export wrote.
type Stats struct {
	Username        string
	Posts           int
	PostViews       int
	Collections     int
	CollectionViews int
}

// Exporter fetches the authenticated user's data and writes it to the store.
// Every Save method ensures the schema, transforms the whole batch and only
// then writes, so a malformed record stops the batch before any row of it is
// stored.
type Exporter struct {
	client Client
	store  Store
	logger *zap.Logger
}

func NewExporter(client Client, store Store, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		client: client,
		store:  store,
		logger: logger,
	}
}

// SaveUser stores one raw user and returns its persisted form.
func (e *Exporter) SaveUser(ctx context.Context, raw writefreely.Raw) (writefreely.User, error) {
	if err := e.store.EnsureSchema(ctx); err != nil {
		return writefreely.User{}, fmt.Errorf("ensure schema: %w", err)
	}

	user, err := writefreely.TransformUser(raw)
	if err != nil {
		return writefreely.User{}, fmt.Errorf("transform user: %w", err)
	}

	if err := e.store.UpsertUsers(ctx, []writefreely.User{user}); err != nil {
		return writefreely.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (e *Exporter) SavePosts(ctx context.Context, raws []writefreely.Raw, userUsername string) error {
	if err := e.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	posts := make([]writefreely.Post, 0, len(raws))
	for i, raw := range raws {
		p, err := writefreely.TransformPost(raw, userUsername)
		if err != nil {
			return fmt.Errorf("transform post %d: %w", i, err)
		}
		posts = append(posts, p)
	}

	if err := e.store.UpsertPosts(ctx, posts); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

func (e *Exporter) SavePostViews(ctx context.Context, raws []writefreely.Raw) error {
	if err := e.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	views := make([]writefreely.PostView, 0, len(raws))
	for i, raw := range raws {
		v, err := writefreely.TransformPostView(raw)
		if err != nil {
			return fmt.Errorf("transform post view %d: %w", i, err)
		}
		views = append(views, v)
	}

	if err := e.store.AddPostViews(ctx, views); err != nil {
		return fmt.Errorf("save post views: %w", err)
	}
	return nil
}

func (e *Exporter) SaveCollections(ctx context.Context, raws []writefreely.Raw, userUsername string) error {
	if err := e.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	colls := make([]writefreely.Collection, 0, len(raws))
	for i, raw := range raws {
		c, err := writefreely.TransformCollection(raw, userUsername)
		if err != nil {
			return fmt.Errorf("transform collection %d: %w", i, err)
		}
		colls = append(colls, c)
	}

	if err := e.store.UpsertCollections(ctx, colls); err != nil {
		return fmt.Errorf("save collections: %w", err)
	}
	return nil
}

func (e *Exporter) SaveCollectionViews(ctx context.Context, raws []writefreely.Raw) error {
	if err := e.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	views := make([]writefreely.CollectionView, 0, len(raws))
	for i, raw := range raws {
		v, err := writefreely.TransformCollectionView(raw)
		if err != nil {
			return fmt.Errorf("transform collection view %d: %w", i, err)
		}
		views = append(views, v)
	}

	if err := e.store.AddCollectionViews(ctx, views); err != nil {
		return fmt.Errorf("save collection views: %w", err)
	}
	return nil
}

// ExportUser fetches and stores the authenticated user.
func (e *Exporter) ExportUser(ctx context.Context) (writefreely.User, error) {
	raw, err := e.client.Me(ctx)
	if err != nil {
		return writefreely.User{}, err
	}

	user, err := e.SaveUser(ctx, raw)
	if err != nil {
		return writefreely.User{}, err
	}

	e.logger.Info("saved user", zap.String("username", user.Username))
	return user, nil
}

// ExportCollections stores the user, then their collections together with a
// view-count observation per collection.
func (e *Exporter) ExportCollections(ctx context.Context) (Stats, error) {
	user, err := e.ExportUser(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Username: user.Username}

	if err := e.exportCollections(ctx, user.Username, &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// ExportPosts stores the user and their collections first, since posts
// reference both, then the posts and a view-count observation per post.
func (e *Exporter) ExportPosts(ctx context.Context) (Stats, error) {
	user, err := e.ExportUser(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Username: user.Username}

	if err := e.exportCollections(ctx, user.Username, &stats); err != nil {
		return stats, err
	}

	raws, err := e.client.MyPosts(ctx)
	if err != nil {
		return stats, err
	}
	e.logger.Debug("fetched posts", zap.Int("count", len(raws)))

	if err := e.SavePosts(ctx, raws, user.Username); err != nil {
		return stats, err
	}
	stats.Posts = len(raws)

	if err := e.SavePostViews(ctx, raws); err != nil {
		return stats, err
	}
	stats.PostViews = len(raws)

	e.logger.Info("saved posts",
		zap.String("username", user.Username),
		zap.Int("posts", stats.Posts),
		zap.Int("post_views", stats.PostViews),
	)
	return stats, nil
}

func (e *Exporter) exportCollections(ctx context.Context, username string, stats *Stats) error {
	raws, err := e.client.MyCollections(ctx)
	if err != nil {
		return err
	}
	e.logger.Debug("fetched collections", zap.Int("count", len(raws)))

	if err := e.SaveCollections(ctx, raws, username); err != nil {
		return err
	}
	stats.Collections = len(raws)

	if err := e.SaveCollectionViews(ctx, raws); err != nil {
		return err
	}
	stats.CollectionViews = len(raws)

	e.logger.Info("saved collections",
		zap.String("username", username),
		zap.Int("collections", stats.Collections),
		zap.Int("collection_views", stats.CollectionViews),
	)
	return nil
}
