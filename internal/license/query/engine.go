// Package query answers license list queries. Catalog is stateless and
// serves concurrent callers; Engine adds the page, filter and cursor of one
// client view on top of it.
package query

import (
	"context"
	"sync"

	"nexuscomply/internal/access"
	"nexuscomply/internal/license/metrics"
	"nexuscomply/internal/license/models"
	"nexuscomply/internal/license/status"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/requestcontext"
)

//go:generate mockgen -source=engine.go -destination=mocks/mocks.go -package=mocks LicenseAPI

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrSuperseded is returned to a fetch whose response arrived after a newer
// fetch was issued. Its result is discarded.
var ErrSuperseded = dErrors.New(dErrors.CodeRequest, "superseded by a newer page request")

// LicenseAPI is the part of the backend the engine talks to.
type LicenseAPI interface {
	ListLicenses(ctx context.Context, page, size int) (models.Page[models.License], error)
	GetLicense(ctx context.Context, id domain.LicenseID) (*models.License, error)
	CreateLicense(ctx context.Context, in models.LicenseInput) (*models.License, error)
	UpdateLicense(ctx context.Context, id domain.LicenseID, in models.LicenseInput) (*models.License, error)
	DeleteLicense(ctx context.Context, id domain.LicenseID) error
}

// State is a consistent copy of the engine's list state.
type State struct {
	Page        models.Page[models.License]
	Loaded      bool
	CurrentPage int
	PageSize    int
	Filter      models.FilterCriteria
	LastError   error
}

// Engine is the list state of one client view: the current page, the
// filter over it and the cursor a Refresh reloads. Fetches are sequenced so a
// view that flips pages quickly only ever shows its latest answer.
type Engine struct {
	*Catalog

	mu          sync.Mutex
	page        models.Page[models.License]
	loaded      bool
	currentPage int
	pageSize    int
	filter      models.FilterCriteria
	lastErr     error

	// seq numbers fetches; only the response of the latest one is applied.
	seq          uint64
	cancelLatest context.CancelFunc
}

func NewEngine(api LicenseAPI, opts ...Option) *Engine {
	c := NewCatalog(api, opts...)
	return &Engine{Catalog: c, pageSize: c.defaultPageSize}
}

func clampSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// FetchPage loads one page and makes it current. A failure is recorded as
// the last error and the previous page and cursor are kept. Starting a fetch
// cancels the one before it, and a response that is no longer the latest is
// discarded.
func (e *Engine) FetchPage(ctx context.Context, pageNumber, pageSize int) (models.Page[models.License], error) {
	if pageNumber < 0 {
		pageNumber = 0
	}
	pageSize = clampSize(pageSize)

	e.mu.Lock()
	e.seq++
	mine := e.seq
	if e.cancelLatest != nil {
		e.cancelLatest()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	e.cancelLatest = cancel
	e.mu.Unlock()
	defer cancel()

	page, err := e.api.ListLicenses(fetchCtx, pageNumber, pageSize)

	e.mu.Lock()
	defer e.mu.Unlock()
	if mine != e.seq {
		e.metrics.RecordFetch(metrics.OutcomeSuperseded)
		e.logger.DebugContext(ctx, "discarding superseded page response",
			"page", pageNumber,
			"request_id", requestcontext.RequestID(ctx),
		)
		return models.Page[models.License]{}, ErrSuperseded
	}
	e.cancelLatest = nil
	if err != nil {
		e.lastErr = err
		e.metrics.RecordFetch(metrics.OutcomeError)
		e.logger.WarnContext(ctx, "license page fetch failed",
			"page", pageNumber,
			"size", pageSize,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return models.Page[models.License]{}, err
	}
	e.page = page
	e.currentPage = pageNumber
	e.pageSize = pageSize
	e.loaded = true
	e.lastErr = nil
	e.metrics.RecordFetch(metrics.OutcomeOK)
	return page, nil
}

// Load fetches the requested page, unless the page size changed, in which
// case the first page of the new size is fetched.
func (e *Engine) Load(ctx context.Context, pageNumber, pageSize int) (models.Page[models.License], error) {
	e.mu.Lock()
	if pageSize > 0 && clampSize(pageSize) != e.pageSize {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = e.pageSize
	}
	e.mu.Unlock()
	return e.FetchPage(ctx, pageNumber, pageSize)
}

// Refresh refetches the current page.
func (e *Engine) Refresh(ctx context.Context) (models.Page[models.License], error) {
	e.mu.Lock()
	pageNumber, pageSize := e.currentPage, e.pageSize
	e.mu.Unlock()
	return e.FetchPage(ctx, pageNumber, pageSize)
}

// SetPage selects the page the next Refresh loads.
func (e *Engine) SetPage(n int) {
	if n < 0 {
		n = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentPage = n
}

// SetPageSize changes the page size and always goes back to the first page.
func (e *Engine) SetPageSize(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageSize = clampSize(n)
	e.currentPage = 0
}

// SetFilter replaces the client-side filter.
func (e *Engine) SetFilter(c models.FilterCriteria) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = c
}

// ResetFilter clears the filter, restoring the unfiltered page.
func (e *Engine) ResetFilter() {
	e.SetFilter(models.FilterCriteria{})
}

// State returns a copy of the list state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	page := e.page
	page.Content = append([]models.License(nil), e.page.Content...)
	return State{
		Page:        page,
		Loaded:      e.loaded,
		CurrentPage: e.currentPage,
		PageSize:    e.pageSize,
		Filter:      e.filter,
		LastError:   e.lastErr,
	}
}

// Visible returns the current page narrowed by the current filter.
func (e *Engine) Visible() []models.License {
	e.mu.Lock()
	content := append([]models.License(nil), e.page.Content...)
	filter := e.filter
	e.mu.Unlock()

	visible := ApplyFilters(content, filter)
	e.metrics.ObserveFiltered(len(content) - len(visible))
	return visible
}

// rowActions are offered per license, in display order.
var rowActions = []access.Action{access.ActionView, access.ActionUpdate, access.ActionDelete}

// Views derives presentation state for the visible records as seen by p
// at the instant of st.
func (e *Engine) Views(p *domain.Principal, st *status.Engine) []models.View {
	return BuildViews(e.Visible(), p, st)
}

// BuildViews derives presentation state for records as seen by p.
func BuildViews(records []models.License, p *domain.Principal, st *status.Engine) []models.View {
	actions := access.PermittedActions(p, access.ResourceLicenses, rowActions...)
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}

	views := make([]models.View, len(records))
	for i, l := range records {
		views[i] = models.View{
			License: l,
			Derived: st.Describe(l),
			Actions: append([]string(nil), names...),
		}
	}
	return views
}

// Create creates the license and refetches the current page.
func (e *Engine) Create(ctx context.Context, in models.LicenseInput) (*models.License, error) {
	created, err := e.Catalog.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	e.refetchAfterWrite(ctx)
	return created, nil
}

// Update updates the license and refetches the current page.
func (e *Engine) Update(ctx context.Context, id domain.LicenseID, in models.LicenseInput) (*models.License, error) {
	updated, err := e.Catalog.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	e.refetchAfterWrite(ctx)
	return updated, nil
}

// Delete deletes the license and refetches the current page.
func (e *Engine) Delete(ctx context.Context, id domain.LicenseID) error {
	if err := e.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	e.refetchAfterWrite(ctx)
	return nil
}

// refetchAfterWrite reloads the current page. When a delete emptied the last
// page it steps back to the new last page. A refetch failure does not undo
// the write; it is kept as the last error.
func (e *Engine) refetchAfterWrite(ctx context.Context) {
	page, err := e.Refresh(ctx)
	if err != nil {
		return
	}
	if len(page.Content) == 0 && page.PageNumber > 0 && page.TotalPages > 0 && page.PageNumber >= page.TotalPages {
		_, _ = e.FetchPage(ctx, page.TotalPages-1, page.PageSize)
	}
}
