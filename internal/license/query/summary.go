package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"nexuscomply/internal/license/models"
	"nexuscomply/internal/license/status"
)

// Summary walks every page of the fleet and counts licenses by derived
// state at the instant of st. The first page tells how many remain; the
// rest are fetched concurrently, each into its own slot.
func (c *Catalog) Summary(ctx context.Context, st *status.Engine) (*models.Summary, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveSummary(time.Since(start)) }()

	first, err := c.api.ListLicenses(ctx, 0, c.summaryPageSize)
	if err != nil {
		return nil, err
	}

	pages := make([][]models.License, max(first.TotalPages, 1))
	pages[0] = first.Content

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.summaryConcurrency)
	for n := 1; n < len(pages); n++ {
		g.Go(func() error {
			page, err := c.api.ListLicenses(gctx, n, c.summaryPageSize)
			if err != nil {
				return err
			}
			pages[n] = page.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum models.Summary
	for _, content := range pages {
		for _, l := range content {
			tally(&sum, st.Describe(l))
		}
	}
	return &sum, nil
}

func tally(sum *models.Summary, d models.Derived) {
	sum.Total++
	switch d.Lifecycle {
	case models.LifecycleActive:
		sum.Active++
	case models.LifecycleInactive:
		sum.Inactive++
	case models.LifecycleExpired:
		sum.Expired++
	}
	if d.ExpiringSoon {
		sum.ExpiringSoon++
	}
	switch d.Pressure {
	case models.PressureWarning:
		sum.Warning++
	case models.PressureCritical:
		sum.Critical++
	}
}
