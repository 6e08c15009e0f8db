package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/repository/memory"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
)

func item(riskNo string) model.CatalogItem {
	return model.CatalogItem{
		RiskNo:       riskNo,
		CategoryCode: "500",
		MainCategory: "Kullanıcı katkıları",
		Hazard:       "hazard " + riskNo,
	}
}

func TestReconcile_MergesBothDirections(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	docStore := memory.NewDocumentStore()

	gt.NoError(t, docStore.WriteAll(ctx, []model.CatalogItem{item("500.01"), item("500.02")}))
	gt.NoError(t, repo.Catalog().Insert(ctx, item("500.02")))
	gt.NoError(t, repo.Catalog().Insert(ctx, item("500.03")))

	uc := usecase.NewSyncUseCase(docStore, repo, 100)
	report, err := uc.Reconcile(ctx)
	gt.NoError(t, err)

	gt.V(t, report.LocalToRemote).Equal(1)
	gt.V(t, report.RemoteToLocal).Equal(1)
	gt.V(t, report.AlreadyInBoth).Equal(1)
	gt.V(t, report.Uploaded).Equal(1)
	gt.B(t, report.Success).True()

	local, err := docStore.ReadAll(ctx)
	gt.NoError(t, err)
	gt.A(t, riskNosOf(local)).Equal([]string{"500.01", "500.02", "500.03"})

	remote, err := repo.Catalog().List(ctx)
	gt.NoError(t, err)
	gt.A(t, riskNosOf(remote)).Equal([]string{"500.01", "500.02", "500.03"})
}

func TestReconcile_SecondRunIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	docStore := memory.NewDocumentStore()

	gt.NoError(t, docStore.WriteAll(ctx, []model.CatalogItem{item("500.01")}))
	gt.NoError(t, repo.Catalog().Insert(ctx, item("500.02")))

	uc := usecase.NewSyncUseCase(docStore, repo, 100)
	_, err := uc.Reconcile(ctx)
	gt.NoError(t, err)

	report, err := uc.Reconcile(ctx)
	gt.NoError(t, err)
	gt.V(t, report.LocalToRemote).Equal(0)
	gt.V(t, report.RemoteToLocal).Equal(0)
	gt.V(t, report.AlreadyInBoth).Equal(2)
	gt.V(t, report.Uploaded).Equal(0)
	gt.B(t, report.Success).True()
}

func TestReconcile_PresenceOnlyNeverMergesFields(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	docStore := memory.NewDocumentStore()

	localCopy := item("500.01")
	localCopy.Measures = "document store wording"
	remoteCopy := item("500.01")
	remoteCopy.Measures = "relational store wording"

	gt.NoError(t, docStore.WriteAll(ctx, []model.CatalogItem{localCopy}))
	gt.NoError(t, repo.Catalog().Insert(ctx, remoteCopy))

	uc := usecase.NewSyncUseCase(docStore, repo, 100)
	report, err := uc.Reconcile(ctx)
	gt.NoError(t, err)
	gt.V(t, report.AlreadyInBoth).Equal(1)

	// Field differences between the two copies are left alone.
	local, _ := docStore.ReadAll(ctx)
	gt.V(t, local[0].Measures).Equal("document store wording")
	remote, _ := repo.Catalog().List(ctx)
	gt.V(t, remote[0].Measures).Equal("relational store wording")
}

type failingDocStore struct{}

func (f *failingDocStore) ReadAll(ctx context.Context) ([]model.CatalogItem, error) {
	return nil, errors.New("connection refused")
}

func (f *failingDocStore) WriteAll(ctx context.Context, items []model.CatalogItem) error {
	return errors.New("connection refused")
}

func (f *failingDocStore) Close() error { return nil }

func TestReconcile_ReadFailureAbortsBeforeWrites(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	gt.NoError(t, repo.Catalog().Insert(ctx, item("500.01")))

	uc := usecase.NewSyncUseCase(&failingDocStore{}, repo, 100)
	_, err := uc.Reconcile(ctx)
	gt.Error(t, err)
	gt.B(t, errors.Is(err, usecase.ErrStoreUnavailable)).True()

	// Nothing was written to the surviving store.
	remote, err := repo.Catalog().List(ctx)
	gt.NoError(t, err)
	gt.A(t, remote).Length(1)
}

// flakyRepository fails whole insert batches that contain a designated
// riskNo, leaving other batches untouched.
type flakyRepository struct {
	interfaces.Repository
	failOn string
}

func (f *flakyRepository) Catalog() interfaces.CatalogRepository {
	return &flakyCatalog{
		CatalogRepository: f.Repository.Catalog(),
		failOn:            f.failOn,
	}
}

type flakyCatalog struct {
	interfaces.CatalogRepository
	failOn string
}

func (f *flakyCatalog) BatchInsert(ctx context.Context, items []model.CatalogItem, batchSize int) []interfaces.BatchResult {
	var results []interfaces.BatchResult
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		batch := items[start:end]
		poisoned := false
		for _, it := range batch {
			if it.RiskNo == f.failOn {
				poisoned = true
				break
			}
		}
		if poisoned {
			results = append(results, interfaces.BatchResult{Err: errors.New("disk full")})
			continue
		}
		results = append(results, f.CatalogRepository.BatchInsert(ctx, batch, batchSize)...)
	}
	return results
}

func TestReconcile_PartialBatchFailureKeepsAppliedRows(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepository{Repository: memory.New(), failOn: "500.02"}
	docStore := memory.NewDocumentStore()

	gt.NoError(t, docStore.WriteAll(ctx, []model.CatalogItem{
		item("500.01"), item("500.02"), item("500.03"),
	}))

	// Batch size 1 so only the poisoned batch fails.
	uc := usecase.NewSyncUseCase(docStore, repo, 1)
	report, err := uc.Reconcile(ctx)
	gt.NoError(t, err)

	gt.V(t, report.LocalToRemote).Equal(3)
	gt.V(t, report.Uploaded).Equal(2)
	gt.A(t, report.Errors).Length(1)
	gt.B(t, report.Success).False()

	// Successful batches stay applied, no rollback.
	remote, err := repo.Repository.Catalog().List(ctx)
	gt.NoError(t, err)
	gt.A(t, riskNosOf(remote)).Equal([]string{"500.01", "500.03"})
}
