package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/myles/writefreely-to-sqlite/internal/config"
	"github.com/myles/writefreely-to-sqlite/internal/credentials"
	"github.com/myles/writefreely-to-sqlite/internal/logging"
	"github.com/myles/writefreely-to-sqlite/internal/service"
	"github.com/myles/writefreely-to-sqlite/internal/store"
	"github.com/myles/writefreely-to-sqlite/pkg/writefreely"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setup loads the config and builds the logger every command shares.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func newClient(cfg *config.Config, domain, token string) *writefreely.Client {
	baseURL := cfg.API.BaseURL
	if baseURL == "" {
		baseURL = writefreely.BaseURL(domain)
	}
	return writefreely.NewClient(baseURL, token, writefreely.ClientOptions{
		Timeout:   cfg.API.ParseTimeout(),
		UserAgent: cfg.API.UserAgent,
	})
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func runAuth(cmd *cobra.Command, authPath string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	authPath = orDefault(authPath, cfg.Auth.Path)
	in := bufio.NewReader(cmd.InOrStdin())
	prompts := cmd.ErrOrStderr()

	fmt.Fprintf(prompts, "WriteFreely domain [%s]: ", cfg.Auth.Domain)
	domain, err := readLine(in)
	if err != nil {
		return err
	}
	domain = orDefault(domain, cfg.Auth.Domain)

	fmt.Fprint(prompts, "Username: ")
	alias, err := readLine(in)
	if err != nil {
		return err
	}
	if alias == "" {
		return errors.New("username is required")
	}

	fmt.Fprint(prompts, "Password: ")
	password, err := readPassword(cmd, in)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	client := newClient(cfg, domain, "")
	session, err := client.Login(ctx, alias, password)
	if err != nil {
		return err
	}
	logger.Debug("logged in", zap.String("domain", domain), zap.String("alias", alias))

	creds := credentials.Credentials{Domain: domain, AccessToken: session.AccessToken}
	if err := credentials.Save(authPath, creds); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "authenticated as %s on %s, token saved to %s\n", alias, domain, authPath)
	return nil
}

// exportFunc runs one export with the store still open and returns the
// summary line to print.
type exportFunc func(ctx context.Context, exp *service.Exporter, db *store.SQLiteStore) (string, error)

func runExport(cmd *cobra.Command, dbPath, authPath string, export exportFunc) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dbPath = orDefault(dbPath, cfg.Database.Path)

	creds, err := credentials.Load(orDefault(authPath, cfg.Auth.Path))
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	client := newClient(cfg, creds.Domain, creds.AccessToken)
	exp := service.NewExporter(client, db, logger.With(zap.String("domain", creds.Domain)))

	summary, err := export(ctx, exp, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n", summary, dbPath)
	return nil
}

// storedTotals reports the row counts of tables after an export, which
// include rows from earlier runs.
func storedTotals(ctx context.Context, db *store.SQLiteStore, tables ...string) (string, error) {
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		n, err := db.Count(ctx, t)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, t))
	}
	return strings.Join(parts, ", "), nil
}

func runUser(cmd *cobra.Command, dbPath, authPath string) error {
	return runExport(cmd, dbPath, authPath, func(ctx context.Context, exp *service.Exporter, _ *store.SQLiteStore) (string, error) {
		user, err := exp.ExportUser(ctx)
		if err != nil {
			return "", err
		}
		return "saved user " + user.Username, nil
	})
}

func runCollections(cmd *cobra.Command, dbPath, authPath string) error {
	return runExport(cmd, dbPath, authPath, func(ctx context.Context, exp *service.Exporter, db *store.SQLiteStore) (string, error) {
		stats, err := exp.ExportCollections(ctx)
		if err != nil {
			return "", err
		}
		totals, err := storedTotals(ctx, db, "collections", "collection_views")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %d collections for %s (stored: %s)", stats.Collections, stats.Username, totals), nil
	})
}

func runPosts(cmd *cobra.Command, dbPath, authPath string) error {
	return runExport(cmd, dbPath, authPath, func(ctx context.Context, exp *service.Exporter, db *store.SQLiteStore) (string, error) {
		stats, err := exp.ExportPosts(ctx)
		if err != nil {
			return "", err
		}
		totals, err := storedTotals(ctx, db, "posts", "post_views")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %d posts in %d collections for %s (stored: %s)",
			stats.Posts, stats.Collections, stats.Username, totals), nil
	})
}

// runLogout revokes the saved token and removes the credential file, since
// the token in it no longer works.
func runLogout(cmd *cobra.Command, authPath string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	authPath = orDefault(authPath, cfg.Auth.Path)
	creds, err := credentials.Load(authPath)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	if err := newClient(cfg, creds.Domain, creds.AccessToken).Logout(ctx); err != nil {
		return err
	}

	if err := os.Remove(authPath); err != nil {
		return fmt.Errorf("remove revoked credentials %s: %w", authPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "token revoked on %s, removed %s\n", creds.Domain, authPath)
	return nil
}

func runSearch(cmd *cobra.Command, dbPath, query string, collections, jsonOutput bool, limit int) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if strings.TrimSpace(query) == "" {
		return errors.New("search query is empty")
	}

	dbPath = orDefault(dbPath, cfg.Database.Path)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	out := cmd.OutOrStdout()

	if collections {
		colls, err := db.SearchCollections(ctx, query, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, colls)
		}
		if len(colls) == 0 {
			fmt.Fprintln(out, "no collections found")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ALIAS\tTITLE\tURL")
		for _, c := range colls {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Alias, str(c.Title), str(c.URL))
		}
		return w.Flush()
	}

	posts, err := db.SearchPosts(ctx, query, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(out, "no posts found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLLECTION\tCREATED\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.CollectionAlias, str(p.Created), str(p.Title))
	}
	return w.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal, and falls back
// to a plain line otherwise.
func readPassword(cmd *cobra.Command, r *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
