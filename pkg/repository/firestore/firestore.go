package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
)

// DocumentStore is the Firestore document-store backend. The catalog is
// stored as one document per category code, each holding that category's
// item list; ReadAll therefore returns items grouped by category, and
// WriteAll replaces the whole collection.
type DocumentStore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.DocumentStore = &DocumentStore{}

type Option func(*DocumentStore)

func WithCollectionPrefix(prefix string) Option {
	return func(d *DocumentStore) {
		d.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*DocumentStore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	d := &DocumentStore{client: client}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *DocumentStore) catalogCollection() string {
	if d.collectionPrefix != "" {
		return d.collectionPrefix + "_catalog_categories"
	}
	return "catalog_categories"
}

type itemDocument struct {
	RiskNo       string   `firestore:"risk_no"`
	MainCategory string   `firestore:"main_category"`
	SubCategory  string   `firestore:"sub_category"`
	Source       string   `firestore:"source"`
	Hazard       string   `firestore:"hazard"`
	Risk         string   `firestore:"risk"`
	Affected     string   `firestore:"affected"`
	Responsible  string   `firestore:"responsible"`
	Measures     string   `firestore:"measures"`
	P            float64  `firestore:"p"`
	F            float64  `firestore:"f"`
	S            float64  `firestore:"s"`
	P2           float64  `firestore:"p2"`
	F2           float64  `firestore:"f2"`
	S2           float64  `firestore:"s2"`
	SectorTags   []string `firestore:"sector_tags"`
}

type categoryDocument struct {
	CategoryCode string         `firestore:"category_code"`
	Items        []itemDocument `firestore:"items"`
}

// looseCategoryDocument is the read-side shape. Item fields are decoded as
// loose maps because legacy documents carry numbers as strings and omit
// fields; model.CatalogItemFromLoose turns them into strict items.
type looseCategoryDocument struct {
	CategoryCode string           `firestore:"category_code"`
	Items        []map[string]any `firestore:"items"`
}

func (d *DocumentStore) ReadAll(ctx context.Context) ([]model.CatalogItem, error) {
	iter := d.client.Collection(d.catalogCollection()).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var items []model.CatalogItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if isUnavailable(err) {
				return nil, goerr.Wrap(ErrUnavailable, "failed to iterate catalog categories",
					goerr.V("cause", err.Error()))
			}
			return nil, goerr.Wrap(err, "failed to iterate catalog categories")
		}

		var catDoc looseCategoryDocument
		if err := doc.DataTo(&catDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal catalog category",
				goerr.V("doc", doc.Ref.ID))
		}

		for _, raw := range catDoc.Items {
			item := model.CatalogItemFromLoose(raw)
			item.CategoryCode = catDoc.CategoryCode
			items = append(items, item)
		}
	}

	return items, nil
}

func (d *DocumentStore) WriteAll(ctx context.Context, items []model.CatalogItem) error {
	grouped := make(map[string][]itemDocument)
	for _, item := range items {
		item.Normalize()
		grouped[item.CategoryCode] = append(grouped[item.CategoryCode], toDocument(item))
	}

	// Collect the existing category documents so stale ones can go; the
	// write is a full replace of the collection, not an incremental update.
	existing, err := d.client.Collection(d.catalogCollection()).
		Select().Documents(ctx).GetAll()
	if err != nil {
		if isUnavailable(err) {
			return goerr.Wrap(ErrUnavailable, "failed to list existing catalog categories",
				goerr.V("cause", err.Error()))
		}
		return goerr.Wrap(err, "failed to list existing catalog categories")
	}

	bw := d.client.BulkWriter(ctx)
	for _, doc := range existing {
		if _, ok := grouped[doc.Ref.ID]; !ok {
			if _, err := bw.Delete(doc.Ref); err != nil {
				return goerr.Wrap(err, "failed to stage category delete",
					goerr.V("category", doc.Ref.ID))
			}
		}
	}

	codes := make([]string, 0, len(grouped))
	for code := range grouped {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		ref := d.client.Collection(d.catalogCollection()).Doc(code)
		if _, err := bw.Set(ref, &categoryDocument{
			CategoryCode: code,
			Items:        grouped[code],
		}); err != nil {
			return goerr.Wrap(err, "failed to stage category write", goerr.V("category", code))
		}
	}

	bw.End()
	return nil
}

func (d *DocumentStore) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

func toDocument(item model.CatalogItem) itemDocument {
	tags := make([]string, len(item.SectorTags))
	for i, t := range item.SectorTags {
		tags[i] = t.String()
	}
	return itemDocument{
		RiskNo:       item.RiskNo,
		MainCategory: item.MainCategory,
		SubCategory:  item.SubCategory,
		Source:       item.Source,
		Hazard:       item.Hazard,
		Risk:         item.Risk,
		Affected:     item.Affected,
		Responsible:  item.Responsible,
		Measures:     item.Measures,
		P:            item.P,
		F:            item.F,
		S:            item.S,
		P2:           item.P2,
		F2:           item.F2,
		S2:           item.S2,
		SectorTags:   tags,
	}
}
