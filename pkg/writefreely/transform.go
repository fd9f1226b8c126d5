package writefreely

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is returned when a raw record lacks a field the schema
// needs to identify or link the row.
var ErrMissingField = errors.New("missing field")

// FieldError reports a raw record field that could not be transformed.
type FieldError struct {
	Entity string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q: %v", e.Entity, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// TransformUser reduces a raw user to the fields persisted for it. Only the
// username is kept even though the users table also has email and created
// columns.
func TransformUser(raw Raw) (User, error) {
	var u User
	if err := required(raw, "user", "username", &u.Username); err != nil {
		return User{}, err
	}
	return u, nil
}

// TransformPost flattens a raw post: the nested collection object is replaced
// by its alias and the owning user's username is attached.
func TransformPost(raw Raw, userUsername string) (Post, error) {
	const entity = "post"

	p := Post{UserUsername: userUsername}
	if err := required(raw, entity, "id", &p.ID); err != nil {
		return Post{}, err
	}

	var coll Raw
	if err := required(raw, entity, "collection", &coll); err != nil {
		return Post{}, err
	}
	if err := required(coll, entity, "alias", &p.CollectionAlias); err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			fe.Field = "collection.alias"
		}
		return Post{}, err
	}

	fields := []struct {
		name string
		dst  any
	}{
		{"slug", &p.Slug},
		{"appearance", &p.Appearance},
		{"language", &p.Language},
		{"rtl", &p.RTL},
		{"created", &p.Created},
		{"updated", &p.Updated},
		{"title", &p.Title},
		{"body", &p.Body},
		{"tags", &p.Tags},
	}
	for _, f := range fields {
		if err := optional(raw, entity, f.name, f.dst); err != nil {
			return Post{}, err
		}
	}
	if p.Tags == nil {
		p.Tags = Tags{}
	}
	return p, nil
}

// TransformCollection keeps the collection's own fields and attaches the
// owning user's username.
func TransformCollection(raw Raw, userUsername string) (Collection, error) {
	const entity = "collection"

	c := Collection{UserUsername: userUsername}
	if err := required(raw, entity, "alias", &c.Alias); err != nil {
		return Collection{}, err
	}

	fields := []struct {
		name string
		dst  any
	}{
		{"title", &c.Title},
		{"description", &c.Description},
		{"style_sheet", &c.StyleSheet},
		{"public", &c.Public},
		{"email", &c.Email},
		{"url", &c.URL},
	}
	for _, f := range fields {
		if err := optional(raw, entity, f.name, f.dst); err != nil {
			return Collection{}, err
		}
	}
	return c, nil
}

// TransformPostView turns a raw post into a view-count observation keyed by
// post id.
func TransformPostView(raw Raw) (PostView, error) {
	var v PostView
	if err := required(raw, "post view", "id", &v.PostID); err != nil {
		return PostView{}, err
	}
	if err := optional(raw, "post view", "views", &v.Views); err != nil {
		return PostView{}, err
	}
	return v, nil
}

// TransformCollectionView turns a raw collection into a view-count
// observation keyed by collection alias.
func TransformCollectionView(raw Raw) (CollectionView, error) {
	var v CollectionView
	if err := required(raw, "collection view", "alias", &v.CollectionAlias); err != nil {
		return CollectionView{}, err
	}
	if err := optional(raw, "collection view", "views", &v.Views); err != nil {
		return CollectionView{}, err
	}
	return v, nil
}

func required(raw Raw, entity, field string, dst any) error {
	val, ok := raw[field]
	if !ok || isNull(val) {
		return &FieldError{Entity: entity, Field: field, Err: ErrMissingField}
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return &FieldError{Entity: entity, Field: field, Err: err}
	}
	return nil
}

// optional leaves dst untouched when the field is absent or null.
func optional(raw Raw, entity, field string, dst any) error {
	val, ok := raw[field]
	if !ok || isNull(val) {
		return nil
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return &FieldError{Entity: entity, Field: field, Err: err}
	}
	return nil
}

func isNull(val json.RawMessage) bool {
	return len(val) == 0 || bytes.Equal(bytes.TrimSpace(val), []byte("null"))
}
