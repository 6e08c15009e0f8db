package sqlite

import (
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is the SQLite relational-store backend.
type Repository struct {
	db         *sql.DB
	catalog    *catalogRepository
	submission *submissionRepository
}

var _ interfaces.Repository = &Repository{}

// Open opens (and migrates) a SQLite database at path. Use ":memory:" for
// an ephemeral database in tests.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	// A single connection keeps the pragmas effective and makes ":memory:"
	// databases share one schema across the pool.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to set pragma", goerr.V("pragma", p))
		}
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{
		db:         db,
		catalog:    &catalogRepository{db: db},
		submission: &submissionRepository{db: db},
	}, nil
}

func (r *Repository) Catalog() interfaces.CatalogRepository {
	return r.catalog
}

func (r *Repository) Submission() interfaces.SubmissionRepository {
	return r.submission
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// schema is the full database schema. Statements are idempotent so Migrate
// can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS catalog_items (
    risk_no       TEXT PRIMARY KEY,
    category_code TEXT NOT NULL,
    main_category TEXT NOT NULL DEFAULT '',
    sub_category  TEXT NOT NULL DEFAULT '',
    source        TEXT NOT NULL DEFAULT '',
    hazard        TEXT NOT NULL DEFAULT '',
    risk          TEXT NOT NULL DEFAULT '',
    affected      TEXT NOT NULL DEFAULT '',
    responsible   TEXT NOT NULL DEFAULT '',
    measures      TEXT NOT NULL DEFAULT '',
    p             REAL NOT NULL DEFAULT 1,
    f             REAL NOT NULL DEFAULT 1,
    s             REAL NOT NULL DEFAULT 1,
    p2            REAL NOT NULL DEFAULT 1,
    f2            REAL NOT NULL DEFAULT 1,
    s2            REAL NOT NULL DEFAULT 1,
    sector_tags   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_catalog_items_category
    ON catalog_items(category_code);

CREATE TABLE IF NOT EXISTS user_submissions (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'approved', 'rejected')),
    main_category TEXT NOT NULL DEFAULT '',
    sub_category  TEXT NOT NULL DEFAULT '',
    source        TEXT NOT NULL DEFAULT '',
    hazard        TEXT NOT NULL DEFAULT '',
    risk          TEXT NOT NULL DEFAULT '',
    affected      TEXT NOT NULL DEFAULT '',
    responsible   TEXT NOT NULL DEFAULT '',
    measures      TEXT NOT NULL DEFAULT '',
    p             REAL NOT NULL DEFAULT 1,
    f             REAL NOT NULL DEFAULT 1,
    s             REAL NOT NULL DEFAULT 1,
    p2            REAL NOT NULL DEFAULT 1,
    f2            REAL NOT NULL DEFAULT 1,
    s2            REAL NOT NULL DEFAULT 1,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_user_submissions_status
    ON user_submissions(status);

CREATE TABLE IF NOT EXISTS riskno_counters (
    range_start INTEGER PRIMARY KEY,
    major       INTEGER NOT NULL,
    minor       INTEGER NOT NULL
);
`

// Migrate applies the database schema.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	return nil
}
