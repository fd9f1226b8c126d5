package store

import (
	"context"
	"fmt"
	"strings"
)

type column struct {
	name string
	typ  string
	def  string // SQL default expression, empty for none
}

type foreignKey struct {
	column    string
	refTable  string
	refColumn string
}

// table describes one table the store needs. EnsureSchema is the only
// consumer.
type table struct {
	name          string
	columns       []column
	primaryKey    string
	autoIncrement bool
	foreignKeys   []foreignKey
	indexes       [][]string
	search        []string // columns mirrored into <name>_fts
}

// tables lists the schema in dependency order.
var tables = []table{
	{
		name: "users",
		columns: []column{
			{name: "username", typ: "TEXT"},
			{name: "email", typ: "TEXT"},
			{name: "created", typ: "TEXT"},
		},
		primaryKey: "username",
		indexes:    [][]string{{"username"}},
		search:     []string{"username"},
	},
	{
		name: "collections",
		columns: []column{
			{name: "alias", typ: "TEXT"},
			{name: "title", typ: "TEXT"},
			{name: "description", typ: "TEXT"},
			{name: "style_sheet", typ: "TEXT"},
			{name: "public", typ: "INTEGER"},
			{name: "email", typ: "TEXT"},
			{name: "url", typ: "TEXT"},
			{name: "user_username", typ: "TEXT"},
		},
		primaryKey: "alias",
		foreignKeys: []foreignKey{
			{column: "user_username", refTable: "users", refColumn: "username"},
		},
		indexes: [][]string{{"alias"}, {"user_username"}},
		search:  []string{"title", "description"},
	},
	{
		name: "collection_views",
		columns: []column{
			{name: "id", typ: "INTEGER"},
			{name: "collection_alias", typ: "TEXT"},
			{name: "views", typ: "INTEGER"},
			{name: "created_at", typ: "TEXT", def: "CURRENT_TIMESTAMP"},
		},
		primaryKey:    "id",
		autoIncrement: true,
		foreignKeys: []foreignKey{
			{column: "collection_alias", refTable: "collections", refColumn: "alias"},
		},
		indexes: [][]string{{"collection_alias"}},
	},
	{
		name: "posts",
		columns: []column{
			{name: "id", typ: "TEXT"},
			{name: "slug", typ: "TEXT"},
			{name: "appearance", typ: "TEXT"},
			{name: "language", typ: "TEXT"},
			{name: "rtl", typ: "INTEGER"},
			{name: "created", typ: "TEXT"},
			{name: "updated", typ: "TEXT"},
			{name: "title", typ: "TEXT"},
			{name: "body", typ: "TEXT"},
			{name: "tags", typ: "TEXT"},
			{name: "collection_alias", typ: "TEXT"},
			{name: "user_username", typ: "TEXT"},
		},
		primaryKey: "id",
		foreignKeys: []foreignKey{
			{column: "collection_alias", refTable: "collections", refColumn: "alias"},
			{column: "user_username", refTable: "users", refColumn: "username"},
		},
		indexes: [][]string{{"collection_alias"}, {"user_username"}},
		search:  []string{"title", "body"},
	},
	{
		name: "post_views",
		columns: []column{
			{name: "id", typ: "INTEGER"},
			{name: "post_id", typ: "TEXT"},
			{name: "views", typ: "INTEGER"},
			{name: "created_at", typ: "TEXT", def: "CURRENT_TIMESTAMP"},
		},
		primaryKey:    "id",
		autoIncrement: true,
		foreignKeys: []foreignKey{
			{column: "post_id", refTable: "posts", refColumn: "id"},
		},
		indexes: [][]string{{"post_id"}},
	},
}

// EnsureSchema creates whatever part of the schema is missing: tables,
// columns added since the table was created, full-text search tables with
// their sync triggers, and indexes. Existing objects and rows are never
// altered, so it is safe to call before every write.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	for _, t := range tables {
		if err := s.ensureTable(ctx, t); err != nil {
			return fmt.Errorf("ensure table %s: %w", t.name, err)
		}
	}
	return nil
}

func (s *SQLiteStore) ensureTable(ctx context.Context, t table) error {
	exists, err := s.tableExists(ctx, t.name)
	if err != nil {
		return err
	}

	if !exists {
		if _, err := s.db.ExecContext(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	} else if err := s.addMissingColumns(ctx, t); err != nil {
		return err
	}

	if len(t.search) > 0 {
		if err := s.ensureSearch(ctx, t); err != nil {
			return err
		}
	}

	return s.ensureIndexes(ctx, t)
}

func (s *SQLiteStore) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

func createTableSQL(t table) string {
	defs := make([]string, 0, len(t.columns)+len(t.foreignKeys))
	for _, c := range t.columns {
		def := quoteIdent(c.name) + " " + c.typ
		if c.name == t.primaryKey {
			def += " PRIMARY KEY"
			if t.autoIncrement {
				def += " AUTOINCREMENT"
			}
		}
		if c.def != "" {
			def += " DEFAULT " + c.def
		}
		defs = append(defs, def)
	}
	for _, fk := range t.foreignKeys {
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			quoteIdent(fk.column), quoteIdent(fk.refTable), quoteIdent(fk.refColumn)))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", quoteIdent(t.name), strings.Join(defs, ",\n    "))
}

// addMissingColumns adds declared columns an older table lacks. SQLite
// rejects non-constant defaults on ADD COLUMN, so defaults are left off.
func (s *SQLiteStore) addMissingColumns(ctx context.Context, t table) error {
	var have []string
	if err := s.db.SelectContext(ctx, &have, "SELECT name FROM pragma_table_info(?)", t.name); err != nil {
		return fmt.Errorf("list columns: %w", err)
	}
	present := make(map[string]bool, len(have))
	for _, name := range have {
		present[name] = true
	}

	for _, c := range t.columns {
		if present[c.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quoteIdent(t.name), quoteIdent(c.name), c.typ)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s: %w", c.name, err)
		}
	}
	return nil
}

// ensureSearch attaches an external-content FTS5 table to t and keeps it in
// step with the base table through insert, delete and update triggers.
func (s *SQLiteStore) ensureSearch(ctx context.Context, t table) error {
	fts := searchTable(t.name)

	exists, err := s.tableExists(ctx, fts)
	if err != nil {
		return err
	}

	cols := make([]string, len(t.search))
	newVals := make([]string, len(t.search))
	oldVals := make([]string, len(t.search))
	for i, c := range t.search {
		cols[i] = quoteIdent(c)
		newVals[i] = "new." + quoteIdent(c)
		oldVals[i] = "old." + quoteIdent(c)
	}
	colList := strings.Join(cols, ", ")

	if !exists {
		stmt := fmt.Sprintf("CREATE VIRTUAL TABLE %s USING fts5(%s, content=%s)",
			quoteIdent(fts), colList, quoteLiteral(t.name))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create search table: %w", err)
		}
	}

	insertNew := fmt.Sprintf("INSERT INTO %s (rowid, %s) VALUES (new.rowid, %s);",
		quoteIdent(fts), colList, strings.Join(newVals, ", "))
	deleteOld := fmt.Sprintf("INSERT INTO %s (%s, rowid, %s) VALUES ('delete', old.rowid, %s);",
		quoteIdent(fts), quoteIdent(fts), colList, strings.Join(oldVals, ", "))

	triggers := []struct {
		suffix string
		event  string
		body   string
	}{
		{"ai", "INSERT", insertNew},
		{"ad", "DELETE", deleteOld},
		{"au", "UPDATE", deleteOld + "\n  " + insertNew},
	}
	for _, tr := range triggers {
		stmt := fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %s AFTER %s ON %s BEGIN\n  %s\nEND",
			quoteIdent(t.name+"_"+tr.suffix), tr.event, quoteIdent(t.name), tr.body)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create trigger %s_%s: %w", t.name, tr.suffix, err)
		}
	}

	if !exists {
		// Index rows written before search was attached.
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES ('rebuild')", quoteIdent(fts), quoteIdent(fts))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild search table: %w", err)
		}
	}
	return nil
}

type indexColumn struct {
	Index  string `db:"index_name"`
	Column string `db:"column_name"`
}

// ensureIndexes creates each declared index unless some existing index,
// including the implicit primary key index, already covers exactly the same
// columns.
func (s *SQLiteStore) ensureIndexes(ctx context.Context, t table) error {
	var rows []indexColumn
	err := s.db.SelectContext(ctx, &rows, `
		SELECT il.name AS index_name, ii.name AS column_name
		FROM pragma_index_list(?) AS il, pragma_index_info(il.name) AS ii
		ORDER BY il.name, ii.seqno`, t.name)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}

	byIndex := make(map[string][]string)
	for _, r := range rows {
		byIndex[r.Index] = append(byIndex[r.Index], r.Column)
	}
	covered := make(map[string]bool, len(byIndex))
	for _, cols := range byIndex {
		covered[strings.Join(cols, ",")] = true
	}

	for _, cols := range t.indexes {
		if covered[strings.Join(cols, ",")] {
			continue
		}
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = quoteIdent(c)
		}
		name := "idx_" + t.name + "_" + strings.Join(cols, "_")
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)",
			quoteIdent(name), quoteIdent(t.name), strings.Join(quoted, ", "))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}

func searchTable(name string) string {
	return name + "_fts"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
