package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/interfaces"
	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

const catalogColumns = `risk_no, category_code, main_category, sub_category,
	source, hazard, risk, affected, responsible, measures,
	p, f, s, p2, f2, s2, sector_tags`

type catalogRepository struct {
	db *sql.DB
}

func (r *catalogRepository) List(ctx context.Context) ([]model.CatalogItem, error) {
	return r.query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items ORDER BY category_code, risk_no`)
}

func (r *catalogRepository) ListBySectorTags(ctx context.Context, tags []types.SectorTag) ([]model.CatalogItem, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	// Tags are stored comma-joined; match each tag surrounded by commas so
	// "maden" does not hit "madencilik-destek".
	var conds []string
	var args []any
	for _, tag := range tags {
		conds = append(conds, `(',' || sector_tags || ',') LIKE ?`)
		args = append(args, "%,"+tag.String()+",%")
	}

	return r.query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE `+strings.Join(conds, " OR ")+
			` ORDER BY category_code, risk_no`, args...)
}

func (r *catalogRepository) ListByCategoryCode(ctx context.Context, code string) ([]model.CatalogItem, error) {
	return r.query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE category_code = ? ORDER BY risk_no`, code)
}

func (r *catalogRepository) ListByRiskNoPrefix(ctx context.Context, prefix string) ([]model.CatalogItem, error) {
	return r.query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE risk_no LIKE ? ORDER BY risk_no`,
		prefix+"%")
}

func (r *catalogRepository) ListByMainCategoryContains(ctx context.Context, substr string) ([]model.CatalogItem, error) {
	return r.query(ctx,
		`SELECT `+catalogColumns+` FROM catalog_items WHERE main_category LIKE ? ORDER BY risk_no`,
		"%"+substr+"%")
}

func (r *catalogRepository) Insert(ctx context.Context, item model.CatalogItem) error {
	item.Normalize()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO catalog_items (`+catalogColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.RiskNo, item.CategoryCode, item.MainCategory, item.SubCategory,
		item.Source, item.Hazard, item.Risk, item.Affected, item.Responsible,
		item.Measures, item.P, item.F, item.S, item.P2, item.F2, item.S2,
		joinTags(item.SectorTags))
	if err != nil {
		return goerr.Wrap(err, "failed to insert catalog item", goerr.V("riskNo", item.RiskNo))
	}
	return nil
}

func (r *catalogRepository) BatchInsert(ctx context.Context, items []model.CatalogItem, batchSize int) []interfaces.BatchResult {
	if batchSize <= 0 {
		batchSize = 100
	}

	var results []interfaces.BatchResult
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		results = append(results, r.insertBatch(ctx, items[start:end]))
	}
	return results
}

// insertBatch inserts one batch in its own transaction. A failed batch rolls
// back only itself; already-committed batches stay applied.
func (r *catalogRepository) insertBatch(ctx context.Context, items []model.CatalogItem) interfaces.BatchResult {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return interfaces.BatchResult{Err: goerr.Wrap(err, "failed to begin batch transaction")}
	}

	for _, item := range items {
		item.Normalize()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_items (`+catalogColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.RiskNo, item.CategoryCode, item.MainCategory, item.SubCategory,
			item.Source, item.Hazard, item.Risk, item.Affected, item.Responsible,
			item.Measures, item.P, item.F, item.S, item.P2, item.F2, item.S2,
			joinTags(item.SectorTags)); err != nil {
			_ = tx.Rollback()
			return interfaces.BatchResult{Err: goerr.Wrap(err, "batch insert failed",
				goerr.V("riskNo", item.RiskNo))}
		}
	}

	if err := tx.Commit(); err != nil {
		return interfaces.BatchResult{Err: goerr.Wrap(err, "failed to commit batch")}
	}
	return interfaces.BatchResult{Inserted: len(items)}
}

func (r *catalogRepository) AllocateRiskNo(ctx context.Context, rangeStart int) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to begin counter transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var major, minor int
	err = tx.QueryRowContext(ctx,
		`SELECT major, minor FROM riskno_counters WHERE range_start = ?`,
		rangeStart).Scan(&major, &minor)
	switch {
	case err == sql.ErrNoRows:
		major, minor, err = seedCounter(ctx, tx, rangeStart)
		if err != nil {
			return "", err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO riskno_counters (range_start, major, minor) VALUES (?, ?, ?)`,
			rangeStart, major, minor); err != nil {
			return "", goerr.Wrap(err, "failed to seed counter", goerr.V("rangeStart", rangeStart))
		}
	case err != nil:
		return "", goerr.Wrap(err, "failed to read counter", goerr.V("rangeStart", rangeStart))
	}

	minor++
	if minor > 99 {
		major++
		minor = 1
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE riskno_counters SET major = ?, minor = ? WHERE range_start = ?`,
		major, minor, rangeStart); err != nil {
		return "", goerr.Wrap(err, "failed to update counter", goerr.V("rangeStart", rangeStart))
	}

	if err := tx.Commit(); err != nil {
		return "", goerr.Wrap(err, "failed to commit counter transaction")
	}

	return fmt.Sprintf("%d.%02d", major, minor), nil
}

// seedCounter derives the counter start from the highest assigned riskNo at
// or above rangeStart, so allocation continues after pre-existing content.
func seedCounter(ctx context.Context, tx *sql.Tx, rangeStart int) (int, int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT risk_no FROM catalog_items`)
	if err != nil {
		return 0, 0, goerr.Wrap(err, "failed to scan existing risk numbers")
	}
	defer rows.Close()

	major, minor := rangeStart, 0
	for rows.Next() {
		var riskNo string
		if err := rows.Scan(&riskNo); err != nil {
			return 0, 0, goerr.Wrap(err, "failed to scan risk number")
		}
		var m, n int
		if _, err := fmt.Sscanf(riskNo, "%d.%d", &m, &n); err != nil {
			continue
		}
		if m < rangeStart {
			continue
		}
		if m > major || (m == major && n > minor) {
			major, minor = m, n
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, goerr.Wrap(err, "failed to iterate risk numbers")
	}
	return major, minor, nil
}

func (r *catalogRepository) query(ctx context.Context, q string, args ...any) ([]model.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query catalog items")
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		var item model.CatalogItem
		var tags string
		if err := rows.Scan(
			&item.RiskNo, &item.CategoryCode, &item.MainCategory, &item.SubCategory,
			&item.Source, &item.Hazard, &item.Risk, &item.Affected, &item.Responsible,
			&item.Measures, &item.P, &item.F, &item.S, &item.P2, &item.F2, &item.S2,
			&tags); err != nil {
			return nil, goerr.Wrap(err, "failed to scan catalog item")
		}
		item.SectorTags = splitTags(tags)
		item.Normalize()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate catalog items")
	}
	return items, nil
}

func joinTags(tags []types.SectorTag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func splitTags(s string) []types.SectorTag {
	if s == "" {
		return []types.SectorTag{}
	}
	parts := strings.Split(s, ",")
	tags := make([]types.SectorTag, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, types.SectorTag(p))
		}
	}
	return tags
}
