package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/utils/logging"
)

// SyncUseCase reconciles the document-store copy of the catalog ("local")
// with the relational-store copy ("remote"). It is a merge-only
// synchronizer: items present in both stores are never touched, presence is
// the only signal tracked. Runs are serialized; interleaved runs would
// double-count absent items and upload duplicate rows.
type SyncUseCase struct {
	mu        sync.Mutex
	docStore  interfaces.DocumentStore
	repo      interfaces.Repository
	batchSize int
}

func NewSyncUseCase(docStore interfaces.DocumentStore, repo interfaces.Repository, batchSize int) *SyncUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSyncBatchSize
	}
	return &SyncUseCase{
		docStore:  docStore,
		repo:      repo,
		batchSize: batchSize,
	}
}

// Reconcile converges both stores to the union of their entries. A read
// failure on either side aborts before anything is written. The document
// store is rewritten in full; relational inserts run in batches where a
// failed batch is recorded and the rest continue — already-applied batches
// stay applied, there is no cross-store transaction.
func (uc *SyncUseCase) Reconcile(ctx context.Context) (*model.SyncReport, error) {
	if !uc.mu.TryLock() {
		return nil, goerr.Wrap(ErrSyncAlreadyRunning, "reconciliation is serialized")
	}
	defer uc.mu.Unlock()

	logger := logging.From(ctx)

	local, err := uc.docStore.ReadAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to read document store",
			goerr.V("cause", err.Error()))
	}

	remote, err := uc.repo.Catalog().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "failed to read relational store",
			goerr.V("cause", err.Error()))
	}

	localByNo := indexByRiskNo(local)
	remoteByNo := indexByRiskNo(remote)

	var toLocal []model.CatalogItem // relational rows missing from the document store
	for _, item := range remote {
		if item.RiskNo == "" {
			continue
		}
		if _, ok := localByNo[item.RiskNo]; !ok {
			item.Normalize()
			toLocal = append(toLocal, item)
		}
	}

	var toRemote []model.CatalogItem // document rows missing from the relational store
	alreadyInBoth := 0
	for _, item := range local {
		if item.RiskNo == "" {
			continue
		}
		if _, ok := remoteByNo[item.RiskNo]; ok {
			alreadyInBoth++
			continue
		}
		toRemote = append(toRemote, item)
	}

	report := &model.SyncReport{
		LocalToRemote: len(toRemote),
		RemoteToLocal: len(toLocal),
		AlreadyInBoth: alreadyInBoth,
	}

	if len(toLocal) > 0 {
		if err := uc.docStore.WriteAll(ctx, append(local, toLocal...)); err != nil {
			return nil, goerr.Wrap(ErrStoreUnavailable, "failed to rewrite document store",
				goerr.V("cause", err.Error()))
		}
	}

	if len(toRemote) > 0 {
		for _, result := range uc.repo.Catalog().BatchInsert(ctx, toRemote, uc.batchSize) {
			report.Uploaded += result.Inserted
			if result.Err != nil {
				report.Errors = append(report.Errors, result.Err.Error())
			}
		}
	}

	report.Success = len(report.Errors) == 0

	logger.Info("reconciliation completed",
		"local_to_remote", report.LocalToRemote,
		"remote_to_local", report.RemoteToLocal,
		"already_in_both", report.AlreadyInBoth,
		"uploaded", report.Uploaded,
		"errors", len(report.Errors),
		"success", report.Success,
	)
	return report, nil
}

func indexByRiskNo(items []model.CatalogItem) map[string]model.CatalogItem {
	index := make(map[string]model.CatalogItem, len(items))
	for _, item := range items {
		if item.RiskNo != "" {
			index[item.RiskNo] = item
		}
	}
	return index
}
