package interfaces

// Repository is the relational-store side of persistence: the canonical
// catalog and the user submission table.
type Repository interface {
	Catalog() CatalogRepository
	Submission() SubmissionRepository

	Close() error
}
