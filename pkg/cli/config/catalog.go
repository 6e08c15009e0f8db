package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/service/nace"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
)

// Catalog holds CLI flags for the catalog domain: the classification
// reference table, the sector vocabulary and the user submission range.
type Catalog struct {
	nacePath       string
	vocabularyPath string
	userRangeStart int
	syncBatchSize  int
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "nace-table",
			Usage:       "Path to the NACE classification CSV table",
			Sources:     cli.EnvVars("RISKCATALOG_NACE_TABLE"),
			Destination: &c.nacePath,
		},
		&cli.StringFlag{
			Name:        "sector-vocabulary",
			Usage:       "Path to a TOML sector vocabulary file (defaults to the built-in vocabulary)",
			Sources:     cli.EnvVars("RISKCATALOG_SECTOR_VOCABULARY"),
			Destination: &c.vocabularyPath,
		},
		&cli.IntFlag{
			Name:        "user-range-start",
			Usage:       "First riskNo major number reserved for approved user submissions",
			Value:       usecase.DefaultUserRangeStart,
			Sources:     cli.EnvVars("RISKCATALOG_USER_RANGE_START"),
			Destination: &c.userRangeStart,
		},
		&cli.IntFlag{
			Name:        "sync-batch-size",
			Usage:       "Relational-store insert batch size used by reconciliation",
			Value:       usecase.DefaultSyncBatchSize,
			Sources:     cli.EnvVars("RISKCATALOG_SYNC_BATCH_SIZE"),
			Destination: &c.syncBatchSize,
		},
	}
}

// vocabularyFile is the TOML layout of a sector vocabulary file.
type vocabularyFile struct {
	Sectors []string `toml:"sectors"`
}

// Configure builds the use case options from the flags. The NACE table is
// optional; without it classification lookups report the table as missing.
func (c *Catalog) Configure() ([]usecase.Option, error) {
	opts := []usecase.Option{
		usecase.WithUserRangeStart(c.userRangeStart),
		usecase.WithSyncBatchSize(c.syncBatchSize),
	}

	if c.nacePath != "" {
		svc, err := nace.Load(c.nacePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load NACE table")
		}
		opts = append(opts, usecase.WithNaceService(svc))
		logging.Default().Info("NACE classification table loaded",
			"path", c.nacePath, "entries", svc.Len())
	} else {
		logging.Default().Warn("NACE table not configured, classification lookups are disabled")
	}

	if c.vocabularyPath != "" {
		tags, err := loadVocabulary(c.vocabularyPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, usecase.WithSectorVocabulary(tags))
		logging.Default().Info("Sector vocabulary loaded",
			"path", c.vocabularyPath, "tags", len(tags))
	}

	return opts, nil
}

func loadVocabulary(path string) ([]types.SectorTag, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from CLI configuration
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read sector vocabulary", goerr.V("path", path))
	}

	var file vocabularyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse sector vocabulary", goerr.V("path", path))
	}
	if len(file.Sectors) == 0 {
		return nil, goerr.New("sector vocabulary is empty", goerr.V("path", path))
	}

	tags := make([]types.SectorTag, 0, len(file.Sectors))
	seen := make(map[types.SectorTag]bool)
	for _, raw := range file.Sectors {
		tag := types.NewSectorTag(raw)
		if tag == "" {
			return nil, goerr.New("empty sector tag in vocabulary", goerr.V("path", path))
		}
		if seen[tag] {
			return nil, goerr.New("duplicate sector tag in vocabulary",
				goerr.V("path", path), goerr.V("tag", tag))
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	// The universal tag must always be resolvable.
	if !seen[types.UniversalSectorTag] {
		tags = append(tags, types.UniversalSectorTag)
	}

	return tags, nil
}
