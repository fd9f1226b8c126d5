package writefreely

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Raw is a single object as returned by the WriteFreely API. Values are kept
// undecoded until a transform picks the fields it persists.
type Raw map[string]json.RawMessage

// User is the persisted form of a WriteFreely user.
type User struct {
	Username string  `json:"username" db:"username"`
	Email    *string `json:"email,omitempty" db:"email"`
	Created  *string `json:"created,omitempty" db:"created"`
}

// Collection is the persisted form of a WriteFreely collection (a blog).
type Collection struct {
	Alias        string  `json:"alias" db:"alias"`
	Title        *string `json:"title" db:"title"`
	Description  *string `json:"description" db:"description"`
	StyleSheet   *string `json:"style_sheet" db:"style_sheet"`
	Public       *bool   `json:"public" db:"public"`
	Email        *string `json:"email" db:"email"`
	URL          *string `json:"url" db:"url"`
	UserUsername string  `json:"user_username" db:"user_username"`
}

// Post is the persisted form of a WriteFreely post, flattened so that the
// owning collection is referenced by alias.
type Post struct {
	ID              string  `json:"id" db:"id"`
	Slug            *string `json:"slug" db:"slug"`
	Appearance      *string `json:"appearance" db:"appearance"`
	Language        *string `json:"language" db:"language"`
	RTL             *bool   `json:"rtl" db:"rtl"`
	Created         *string `json:"created" db:"created"`
	Updated         *string `json:"updated" db:"updated"`
	Title           *string `json:"title" db:"title"`
	Body            *string `json:"body" db:"body"`
	Tags            Tags    `json:"tags" db:"tags"`
	CollectionAlias string  `json:"collection_alias" db:"collection_alias"`
	UserUsername    string  `json:"user_username" db:"user_username"`
}

// PostView is one observation of a post's view counter.
type PostView struct {
	PostID string `json:"post_id" db:"post_id"`
	Views  int64  `json:"views" db:"views"`
}

// CollectionView is one observation of a collection's view counter.
type CollectionView struct {
	CollectionAlias string `json:"collection_alias" db:"collection_alias"`
	Views           int64  `json:"views" db:"views"`
}

// Tags is a post's tag list, stored as a JSON array in a TEXT column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan tags: %w", err)
	}
	*t = out
	return nil
}

// MarshalJSON always emits a list, never null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
