package query

import (
	"context"
	"log/slog"

	"nexuscomply/internal/backend"
	"nexuscomply/internal/license/metrics"
	"nexuscomply/internal/license/models"
	"nexuscomply/internal/platform/logger"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/requestcontext"
	"nexuscomply/pkg/validation"
)

type options struct {
	logger             *slog.Logger
	metrics            *metrics.Metrics
	pageSize           int
	summaryConcurrency int
}

// Option configures a Catalog or an Engine.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithPageSize sets the page size used when a caller does not pick one.
// Default is 10.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = clampSize(n)
		}
	}
}

// WithSummaryConcurrency bounds the page fetches of Summary. Default is 4.
func WithSummaryConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.summaryConcurrency = n
		}
	}
}

// Catalog answers license queries without keeping any list state. Every
// call carries its own page, size and filter, so it is safe to share
// between concurrent HTTP requests.
type Catalog struct {
	api     LicenseAPI
	logger  *slog.Logger
	metrics *metrics.Metrics

	defaultPageSize    int
	summaryPageSize    int
	summaryConcurrency int
}

func NewCatalog(api LicenseAPI, opts ...Option) *Catalog {
	o := options{pageSize: DefaultPageSize, summaryConcurrency: 4}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Catalog{
		api:                api,
		logger:             o.logger,
		metrics:            o.metrics,
		defaultPageSize:    o.pageSize,
		summaryPageSize:    MaxPageSize,
		summaryConcurrency: o.summaryConcurrency,
	}
}

// ListRequest is one self-contained list query. A zero Size means the
// catalog's default page size.
type ListRequest struct {
	Page   int
	Size   int
	Filter models.FilterCriteria
}

// Listing is the answer to one ListRequest.
type Listing struct {
	Page    models.Page[models.License]
	Visible []models.License
	Size    int
	Filter  models.FilterCriteria
}

// List fetches the requested page and narrows it by the request's filter.
func (c *Catalog) List(ctx context.Context, req ListRequest) (*Listing, error) {
	pageNumber := max(req.Page, 0)
	size := c.defaultPageSize
	if req.Size > 0 {
		size = clampSize(req.Size)
	}

	page, err := c.api.ListLicenses(ctx, pageNumber, size)
	if err != nil {
		c.metrics.RecordFetch(metrics.OutcomeError)
		c.logger.WarnContext(ctx, "license page fetch failed",
			"page", pageNumber,
			"size", size,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}
	c.metrics.RecordFetch(metrics.OutcomeOK)

	visible := ApplyFilters(page.Content, req.Filter)
	c.metrics.ObserveFiltered(len(page.Content) - len(visible))
	return &Listing{Page: page, Visible: visible, Size: size, Filter: req.Filter}, nil
}

// Get fetches one license.
func (c *Catalog) Get(ctx context.Context, id domain.LicenseID) (*models.License, error) {
	return c.api.GetLicense(ctx, id)
}

// Create validates input and creates the license.
func (c *Catalog) Create(ctx context.Context, in models.LicenseInput) (*models.License, error) {
	in.Normalize()
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	created, err := c.api.CreateLicense(ctx, in)
	c.metrics.RecordMutation("create", err)
	if err != nil {
		return nil, mutationError(err, "failed to create license")
	}
	c.logger.InfoContext(ctx, "license created",
		"license_id", created.ID,
		"license_key", logger.MaskSecret(created.LicenseKey),
		"request_id", requestcontext.RequestID(ctx),
	)
	return created, nil
}

// Update validates input and replaces the writable fields of the license.
func (c *Catalog) Update(ctx context.Context, id domain.LicenseID, in models.LicenseInput) (*models.License, error) {
	in.Normalize()
	if err := validation.Validate(in); err != nil {
		return nil, err
	}
	updated, err := c.api.UpdateLicense(ctx, id, in)
	c.metrics.RecordMutation("update", err)
	if err != nil {
		return nil, mutationError(err, "failed to update license")
	}
	c.logger.InfoContext(ctx, "license updated", "license_id", id, "request_id", requestcontext.RequestID(ctx))
	return updated, nil
}

// Delete deletes the license. Confirmation is the caller's job.
func (c *Catalog) Delete(ctx context.Context, id domain.LicenseID) error {
	err := c.api.DeleteLicense(ctx, id)
	c.metrics.RecordMutation("delete", err)
	if err != nil {
		return mutationError(err, "failed to delete license")
	}
	c.logger.InfoContext(ctx, "license deleted", "license_id", id, "request_id", requestcontext.RequestID(ctx))
	return nil
}

// mutationError surfaces the backend's message when it sent one and the
// generic fallback otherwise. Transport and session codes are kept.
func mutationError(err error, fallback string) error {
	code := dErrors.CodeOf(err)
	switch code {
	case dErrors.CodeNetwork, dErrors.CodeUnauthorized, dErrors.CodeForbidden, dErrors.CodeNotFound:
	default:
		code = dErrors.CodeRequest
	}
	msg := backend.BackendMessage(err)
	if msg == "" {
		msg = fallback
	}
	return &dErrors.Error{Code: code, Message: msg, Err: err}
}
