package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/phrasememo/internal/cache"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect selects the driver, placeholders and migrations of a SQLStore
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const table = "translations"

// SQLStore implements cache.Store with one row per phrase. The phrase is
// the primary key, so an upsert moves it between buckets in one statement.
type SQLStore struct {
	DB      *sql.DB
	SQ      sq.StatementBuilderType
	dialect Dialect
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies migrations.
func OpenSQLite(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("make db dir: %w", err)
	}
	if err := Migrate(SQLite, "sqlite3://"+path); err != nil {
		return nil, err
	}

	// several processes may share the file
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newSQLStore(db, SQLite), nil
}

// OpenPostgres connects to dsn and applies migrations
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if err := Migrate(Postgres, migrationURL(dsn)); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newSQLStore(db, Postgres), nil
}

func newSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == Postgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &SQLStore{DB: db, SQ: builder, dialect: dialect}
}

// migrationURL rewrites a postgres DSN for the pgx/v5 migrate driver
func migrationURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}

// Migrate applies all pending up migrations for dialect to databaseURL
func Migrate(dialect Dialect, databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}
	return nil
}

func (s *SQLStore) lookup(ctx context.Context, phrase string, state cache.State) (string, bool, error) {
	query, args, err := s.SQ.Select("translation").
		From(table).
		Where(sq.Eq{"phrase": phrase, "state": string(state)}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var tr string
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&tr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return tr, true, nil
}

func (s *SQLStore) LookupApproved(ctx context.Context, phrase string) (string, bool, error) {
	return s.lookup(ctx, phrase, cache.Approved)
}

func (s *SQLStore) LookupNotApproved(ctx context.Context, phrase string) (string, bool, error) {
	return s.lookup(ctx, phrase, cache.NotApproved)
}

func (s *SQLStore) FindNotApprovedByTranslation(ctx context.Context, translation string) ([]string, error) {
	query, args, err := s.SQ.Select("phrase").
		From(table).
		Where(sq.Eq{"state": string(cache.NotApproved), "translation": translation}).
		OrderBy("phrase").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []string
	for rows.Next() {
		var phrase string
		if err := rows.Scan(&phrase); err != nil {
			return nil, err
		}
		phrases = append(phrases, phrase)
	}
	return phrases, rows.Err()
}

// Put upserts the phrase row; concurrent writers resolve to the last one
func (s *SQLStore) Put(ctx context.Context, phrase, translation string, state cache.State) error {
	if _, err := cache.ParseState(string(state)); err != nil {
		return err
	}

	category := ""
	if state == cache.Approved {
		category = cache.DefaultCategory
	}

	query, args, err := s.SQ.Insert(table).
		Columns("phrase", "translation", "state", "category", "updated_at").
		Values(phrase, translation, string(state), category, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(phrase) DO UPDATE SET " +
			"translation = excluded.translation, " +
			"state = excluded.state, " +
			"category = excluded.category, " +
			"updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, query, args...)
	return err
}

// Snapshot reads every row into a Document
func (s *SQLStore) Snapshot(ctx context.Context) (*cache.Document, error) {
	query, args, err := s.SQ.Select("phrase", "translation", "state", "category").
		From(table).
		OrderBy("phrase").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	doc := cache.NewDocument()
	for rows.Next() {
		var phrase, tr, state, category string
		if err := rows.Scan(&phrase, &tr, &state, &category); err != nil {
			return nil, err
		}
		switch cache.State(state) {
		case cache.Approved:
			if category == "" {
				category = cache.DefaultCategory
			}
			if doc.Approved[category] == nil {
				doc.Approved[category] = make(map[string]string)
			}
			doc.Approved[category][phrase] = tr
		case cache.Incorrect:
			doc.Incorrect[phrase] = tr
		default:
			doc.NotApproved[phrase] = tr
		}
	}
	return doc, rows.Err()
}

// Dialect returns the SQL dialect of the store
func (s *SQLStore) Dialect() Dialect { return s.dialect }

func (s *SQLStore) Close() error {
	return s.DB.Close()
}
