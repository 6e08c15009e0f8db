package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/repository/firestore"
	"github.com/osgb-lab/riskcatalog/pkg/repository/memory"
	"github.com/osgb-lab/riskcatalog/pkg/repository/sqlite"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
)

// Repository holds CLI flags for the relational-store backend
type Repository struct {
	backend    string
	sqlitePath string
}

// Flags returns CLI flags for relational-store configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Relational store backend (sqlite or memory)",
			Value:       "sqlite",
			Sources:     cli.EnvVars("RISKCATALOG_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database path (required when using sqlite backend)",
			Value:       "riskcatalog.db",
			Sources:     cli.EnvVars("RISKCATALOG_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
	}
}

// Configure initializes and returns a repository based on the configured
// backend. The caller is responsible for calling Close() on the returned
// repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "sqlite":
		if r.sqlitePath == "" {
			return nil, goerr.New("sqlite-path is required when using sqlite backend")
		}
		repo, err := sqlite.Open(r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository")
		}
		logging.Default().Info("Using SQLite repository", "path", r.sqlitePath)
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}

// DocumentStore holds CLI flags for the document-store backend
type DocumentStore struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
}

// Flags returns CLI flags for document-store configuration
func (d *DocumentStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "document-store-backend",
			Usage:       "Document store backend (firestore or memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("RISKCATALOG_DOCUMENT_STORE_BACKEND"),
			Destination: &d.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("RISKCATALOG_FIRESTORE_PROJECT_ID"),
			Destination: &d.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("RISKCATALOG_FIRESTORE_DATABASE_ID"),
			Destination: &d.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Sources:     cli.EnvVars("RISKCATALOG_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &d.collectionPrefix,
		},
	}
}

// ProjectID returns the Firestore project ID
func (d *DocumentStore) ProjectID() string {
	return d.projectID
}

// DatabaseID returns the Firestore database ID
func (d *DocumentStore) DatabaseID() string {
	return d.databaseID
}

// Configure initializes and returns a document store based on the configured
// backend. The caller is responsible for calling Close() on the returned
// store.
func (d *DocumentStore) Configure(ctx context.Context) (interfaces.DocumentStore, error) {
	switch d.backend {
	case "firestore":
		if d.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if d.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(d.collectionPrefix))
		}
		store, err := firestore.New(ctx, d.projectID, d.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore document store")
		}
		logging.Default().Info("Using Firestore document store",
			"project_id", d.projectID,
			"database_id", d.databaseID,
		)
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory document store (development mode)")
		return memory.NewDocumentStore(), nil

	default:
		return nil, goerr.New("invalid document store backend", goerr.V("backend", d.backend))
	}
}
