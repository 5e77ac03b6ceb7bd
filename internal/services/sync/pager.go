package sync

import (
	"context"
	"fmt"

	"budget-sync-backend/internal/erp"
)

const (
	defaultPageSize  = 500
	maxRecordsPerRun = 10000
)

// pager drives the paged collection read: fixed-size pages until an empty
// page or the per-run record cap. A fetch failure aborts the remaining
// pages for this entity only; pages already handed to fn stay committed.
type pager struct {
	gateway  erp.Gateway
	pageSize int
}

func newPager(gateway erp.Gateway, pageSize int) *pager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &pager{gateway: gateway, pageSize: pageSize}
}

// each fetches pages sequentially and hands each non-empty page to fn.
// It returns the total records fetched, a warning when the cap cut the
// run short, and the first fetch/process error.
func (p *pager) each(ctx context.Context, entity, filter string, fn func(page []erp.Record) error) (int, string, error) {
	fetched := 0
	skip := 0

	for {
		page, err := p.gateway.FetchPage(ctx, entity, p.pageSize, skip, filter)
		if err != nil {
			return fetched, "", err
		}
		if len(page) == 0 {
			return fetched, "", nil
		}

		fetched += len(page)
		if err := fn(page); err != nil {
			return fetched, "", err
		}

		if fetched >= maxRecordsPerRun {
			warn := fmt.Sprintf("record cap reached (%d), remaining %s records left for the next run", maxRecordsPerRun, entity)
			return fetched, warn, nil
		}
		skip += p.pageSize
	}
}
