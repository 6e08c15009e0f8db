package memory

import (
	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Memory is the in-memory relational-store backend, used for development
// and tests.
type Memory struct {
	catalog    *catalogRepository
	submission *submissionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		catalog:    newCatalogRepository(),
		submission: newSubmissionRepository(),
	}
}

func (m *Memory) Catalog() interfaces.CatalogRepository {
	return m.catalog
}

func (m *Memory) Submission() interfaces.SubmissionRepository {
	return m.submission
}

func (m *Memory) Close() error {
	return nil
}
