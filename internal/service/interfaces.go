package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

type Client interface {
	Me(ctx context.Context) (writefreely.Raw, error)
	MyPosts(ctx context.Context) ([]writefreely.Raw, error)
	MyCollections(ctx context.Context) ([]writefreely.Raw, error)
}

type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertUsers(ctx context.Context, users []writefreely.User) error
	UpsertCollections(ctx context.Context, colls []writefreely.Collection) error
	UpsertPosts(ctx context.Context, posts []writefreely.Post) error
	AddPostViews(ctx context.Context, views []writefreely.PostView) error
	AddCollectionViews(ctx context.Context, views []writefreely.CollectionView) error
}
