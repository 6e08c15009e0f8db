package cli

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/osgb-lab/riskcatalog/pkg/repository/sqlite"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
	"github.com/osgb-lab/riskcatalog/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var sqlitePath string
	var projectID string
	var databaseID string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Apply the SQLite schema and Firestore index configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "sqlite-path",
				Usage:       "SQLite database path to migrate",
				Sources:     cli.EnvVars("RISKCATALOG_SQLITE_PATH"),
				Destination: &sqlitePath,
			},
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (skips Firestore migration when empty)",
				Sources:     cli.EnvVars("RISKCATALOG_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("RISKCATALOG_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview Firestore changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if sqlitePath == "" && projectID == "" {
				return goerr.New("nothing to migrate: set sqlite-path or firestore-project-id")
			}

			if sqlitePath != "" {
				if err := migrateSQLite(ctx, sqlitePath); err != nil {
					return err
				}
				logger.Info("SQLite schema applied", "path", sqlitePath)
			}

			if projectID == "" {
				return nil
			}

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			indexConfig := getIndexConfig()

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, client)

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
				plan, err := client.GetMigrationPlan(ctx, indexConfig)
				if err != nil {
					return goerr.Wrap(err, "failed to create migration plan")
				}

				if len(plan.Steps) == 0 {
					logger.Info("No changes required")
					return nil
				}

				for _, step := range plan.Steps {
					logger.Info("Migration step",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive)
				}
			} else {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx, indexConfig); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
			}

			return nil
		},
	}
}

func migrateSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	defer safe.Close(ctx, db)

	return sqlite.Migrate(db)
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "catalog_categories",
				Indexes: []fireconf.Index{
					// Category listing ordered by code with the item key as
					// tie-breaker.
					{
						Fields: []fireconf.IndexField{
							{Path: "category_code", Order: fireconf.OrderAscending},
							{Path: "items.risk_no", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
