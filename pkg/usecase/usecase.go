package usecase

import (
	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/service/nace"
)

// DefaultUserRangeStart is the first major number of the riskNo range
// reserved for approved user submissions; the curated catalog stays below.
const DefaultUserRangeStart = 500

// DefaultSyncBatchSize is the relational-store insert batch size used by the
// synchronizer.
const DefaultSyncBatchSize = 100

type UseCases struct {
	repo     interfaces.Repository
	docStore interfaces.DocumentStore

	Classification *ClassificationUseCase
	Search         *SearchUseCase
	Moderation     *ModerationUseCase
	Sync           *SyncUseCase
}

type Option func(*config)

type config struct {
	naceService    *nace.Service
	vocabulary     []types.SectorTag
	userRangeStart int
	syncBatchSize  int
}

// WithNaceService injects the classification reference table
func WithNaceService(svc *nace.Service) Option {
	return func(c *config) {
		c.naceService = svc
	}
}

// WithSectorVocabulary overrides the built-in sector tag vocabulary
func WithSectorVocabulary(tags []types.SectorTag) Option {
	return func(c *config) {
		c.vocabulary = tags
	}
}

// WithUserRangeStart overrides the reserved riskNo range for user content
func WithUserRangeStart(start int) Option {
	return func(c *config) {
		c.userRangeStart = start
	}
}

// WithSyncBatchSize overrides the synchronizer's insert batch size
func WithSyncBatchSize(size int) Option {
	return func(c *config) {
		c.syncBatchSize = size
	}
}

func New(repo interfaces.Repository, docStore interfaces.DocumentStore, opts ...Option) *UseCases {
	cfg := &config{
		vocabulary:     types.DefaultSectorVocabulary(),
		userRangeStart: DefaultUserRangeStart,
		syncBatchSize:  DefaultSyncBatchSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &UseCases{
		repo:           repo,
		docStore:       docStore,
		Classification: NewClassificationUseCase(cfg.naceService),
		Search:         NewSearchUseCase(repo, cfg.vocabulary),
		Moderation:     NewModerationUseCase(repo, cfg.userRangeStart),
		Sync:           NewSyncUseCase(docStore, repo, cfg.syncBatchSize),
	}
}
