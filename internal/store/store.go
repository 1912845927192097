// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists dossier records in a local SQLite database.
// The store is an acceleration layer, not a source of truth: callers
// degrade to network-only mode when it is unavailable.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	archiveerr "github.com/pdiddy/bio-archive/pkg/errors"
	"github.com/pdiddy/bio-archive/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "archive.db"

	schemaVersion = 1
)

// Store manages the local dossier database. Construct with Open and
// release with Close; there is no package-level instance.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at
// archiveDir/index/archive.db and creates the schema if missing.
// A schema version newer than this build understands is a fatal
// data-layer error, not a recoverable one.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ArchiveDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating index directory: %v", archiveerr.ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", archiveerr.ErrStoreUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER NOT NULL,
			organism TEXT NOT NULL,
			platform TEXT NOT NULL,
			keywords TEXT NOT NULL,
			confidence REAL NOT NULL,
			access TEXT NOT NULL,
			citations TEXT NOT NULL,
			entities TEXT NOT NULL,
			ai_summary TEXT NOT NULL DEFAULT '',
			sections TEXT,
			links TEXT,
			cached_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_organism ON papers(organism)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_platform ON papers(platform)`,
		`CREATE TABLE IF NOT EXISTS archive_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: executing schema statement: %v", archiveerr.ErrStoreUnavailable, err)
		}
	}

	stored, err := s.metaInt(context.Background(), "schema_version")
	if err != nil {
		return err
	}
	switch {
	case stored == 0:
		if err := s.setMeta(context.Background(), "schema_version", strconv.Itoa(schemaVersion)); err != nil {
			return err
		}
	case stored != schemaVersion:
		return fmt.Errorf("%w: schema version %d, this build supports %d",
			archiveerr.ErrDataLayerFatal, stored, schemaVersion)
	}
	return nil
}

// Seed bulk-inserts index records under a seed generation marker.
// Re-seeding with the generation already stored is a no-op, so the
// remote index is seeded exactly once per deployment; bumping the
// generation wipes the table and re-seeds, which is the migration
// path the implicit "skip when non-empty" guard lacked.
// The batch is atomic: any failure rolls the whole seed back.
func (s *Store) Seed(ctx context.Context, generation int, records []types.PaperIndex) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	stored, err := s.metaInt(ctx, "seed_generation")
	if err != nil {
		return err
	}
	if count > 0 && stored == generation {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning seed transaction: %v", archiveerr.ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()

	if count > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
			return fmt.Errorf("%w: clearing previous generation: %v", archiveerr.ErrStoreWriteFailed, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, authors, year, organism, platform,
			keywords, confidence, access, citations, entities, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: preparing seed insert: %v", archiveerr.ErrStoreWriteFailed, err)
	}
	defer stmt.Close()

	cachedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Title, mustJSON(rec.Authors), rec.Year,
			rec.Organism, rec.Platform, mustJSON(rec.Keywords),
			rec.Confidence, mustJSON(rec.Access),
			mustJSON(rec.CitationsByYear), mustJSON(rec.Entities),
			cachedAt,
		)
		if err != nil {
			return fmt.Errorf("%w: inserting %s: %v", archiveerr.ErrStoreWriteFailed, rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO archive_meta (key, value) VALUES ('seed_generation', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		strconv.Itoa(generation),
	); err != nil {
		return fmt.Errorf("%w: updating seed generation: %v", archiveerr.ErrStoreWriteFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing seed: %v", archiveerr.ErrStoreWriteFailed, err)
	}
	return nil
}

// Upsert writes or overwrites the row for detail.ID with the full
// detail payload and a fresh cached_at. Last write wins; the write is
// a single statement so concurrent upserts of the same id never
// interleave partially.
func (s *Store) Upsert(ctx context.Context, detail types.PaperDetail) error {
	links := detail.Links
	if links == nil {
		links = types.Links{}
	}
	cachedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year, organism, platform,
			keywords, confidence, access, citations, entities,
			ai_summary, sections, links, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			organism=excluded.organism, platform=excluded.platform,
			keywords=excluded.keywords, confidence=excluded.confidence,
			access=excluded.access, citations=excluded.citations,
			entities=excluded.entities, ai_summary=excluded.ai_summary,
			sections=excluded.sections, links=excluded.links,
			cached_at=excluded.cached_at`,
		detail.ID, detail.Title, mustJSON(detail.Authors), detail.Year,
		detail.Organism, detail.Platform, mustJSON(detail.Keywords),
		detail.Confidence, mustJSON(detail.Access),
		mustJSON(detail.CitationsByYear), mustJSON(detail.Entities),
		detail.AISummary, mustJSON(detail.Sections), mustJSON(links),
		cachedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: upserting %s: %v", archiveerr.ErrStoreWriteFailed, detail.ID, err)
	}
	return nil
}

// Get returns the cached record for id, or ErrRecordNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.PaperRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM papers WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", archiveerr.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListAll returns every cached record, newest publication year first,
// title ascending within a year. The order mirrors the published index
// but is not contractual.
func (s *Store) ListAll(ctx context.Context) ([]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM papers ORDER BY year DESC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing papers: %v", archiveerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []types.PaperRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing papers: %v", archiveerr.ErrStoreUnavailable, err)
	}
	return records, nil
}

// Count returns the number of cached records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting papers: %v", archiveerr.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Generation returns the stored seed generation, 0 when never seeded.
func (s *Store) Generation(ctx context.Context) (int, error) {
	return s.metaInt(ctx, "seed_generation")
}

func (s *Store) metaInt(ctx context.Context, key string) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM archive_meta WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", archiveerr.ErrStoreUnavailable, key, err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: corrupt %s value %q", archiveerr.ErrDataLayerFatal, key, value)
	}
	return n, nil
}

func (s *Store) setMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO archive_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", archiveerr.ErrStoreWriteFailed, key, err)
	}
	return nil
}

const selectColumns = `SELECT id, title, authors, year, organism, platform,
	keywords, confidence, access, citations, entities,
	ai_summary, sections, links, cached_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.PaperRecord, error) {
	var (
		rec           types.PaperRecord
		authorsJSON   string
		keywordsJSON  string
		accessJSON    string
		citationsJSON string
		entitiesJSON  string
		sectionsJSON  sql.NullString
		linksJSON     sql.NullString
		cachedAt      string
	)

	err := row.Scan(
		&rec.ID, &rec.Title, &authorsJSON, &rec.Year, &rec.Organism,
		&rec.Platform, &keywordsJSON, &rec.Confidence, &accessJSON,
		&citationsJSON, &entitiesJSON, &rec.AISummary,
		&sectionsJSON, &linksJSON, &cachedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		raw  string
		dest any
	}{
		{authorsJSON, &rec.Authors},
		{keywordsJSON, &rec.Keywords},
		{accessJSON, &rec.Access},
		{citationsJSON, &rec.CitationsByYear},
		{entitiesJSON, &rec.Entities},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dest); err != nil {
			return nil, fmt.Errorf("%w: corrupt row for %s: %v", archiveerr.ErrDataLayerFatal, rec.ID, err)
		}
	}

	if sectionsJSON.Valid {
		var sections types.Sections
		if err := json.Unmarshal([]byte(sectionsJSON.String), &sections); err != nil {
			return nil, fmt.Errorf("%w: corrupt sections for %s: %v", archiveerr.ErrDataLayerFatal, rec.ID, err)
		}
		rec.Sections = &sections
	}
	if linksJSON.Valid {
		links := types.Links{}
		if err := json.Unmarshal([]byte(linksJSON.String), &links); err != nil {
			return nil, fmt.Errorf("%w: corrupt links for %s: %v", archiveerr.ErrDataLayerFatal, rec.ID, err)
		}
		rec.Links = links
	}
	if t, err := time.Parse(time.RFC3339Nano, cachedAt); err == nil {
		rec.CachedAt = t
	}
	return &rec, nil
}

// mustJSON marshals values whose types cannot fail to encode.
func mustJSON(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}
