package console

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nexuscomply/internal/access"
	"nexuscomply/internal/license/export"
	"nexuscomply/internal/license/models"
	"nexuscomply/internal/license/query"
	"nexuscomply/internal/license/status"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/platform/httputil"
	"nexuscomply/pkg/requestcontext"
)

// ListResponse is one page of licenses as the principal sees it.
type ListResponse struct {
	Items         []models.View         `json:"items"`
	PageNumber    int                   `json:"pageNumber"`
	PageSize      int                   `json:"pageSize"`
	TotalPages    int                   `json:"totalPages"`
	TotalElements int64                 `json:"totalElements"`
	Filter        models.FilterCriteria `json:"filter"`
	// CanCreate drives the "new license" control; it is false rather than absent.
	CanCreate bool `json:"canCreate"`
	CanExport bool `json:"canExport"`
}

// DashboardResponse carries the fleet summary and the menu.
type DashboardResponse struct {
	Summary    *models.Summary  `json:"summary,omitempty"`
	Navigation []access.NavItem `json:"navigation"`
	AsOf       string           `json:"asOf"`
}

// listParams reads page, size and the filter from the query string.
func listParams(r *http.Request) (query.ListRequest, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		return query.ListRequest{}, err
	}
	size, err := intParam(q.Get("size"), "size")
	if err != nil {
		return query.ListRequest{}, err
	}
	c := models.FilterCriteria{
		Search:      q.Get("search"),
		Region:      q.Get("region"),
		LicenseType: q.Get("type"),
		Active:      q.Get("active"),
	}
	switch c.Active {
	case "", "true", "false":
	default:
		return query.ListRequest{}, dErrors.New(dErrors.CodeBadRequest, "active must be true or false")
	}
	return query.ListRequest{Page: page, Size: size, Filter: c}, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

// loadViews fetches the page this request asked for, applies its filter and
// derives the views at the request's instant.
func (s *Server) loadViews(r *http.Request) ([]models.View, *query.Listing, error) {
	ctx := r.Context()
	req, err := listParams(r)
	if err != nil {
		return nil, nil, err
	}

	listing, err := s.licenses.List(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	views := query.BuildViews(listing.Visible, access.PrincipalFrom(ctx), status.At(requestcontext.Now(ctx)))
	return views, listing, nil
}

// HandleListLicenses returns the requested page narrowed by the filter.
func (s *Server) HandleListLicenses(w http.ResponseWriter, r *http.Request) {
	views, listing, err := s.loadViews(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	p := access.PrincipalFrom(r.Context())
	httputil.WriteJSON(w, r, http.StatusOK, ListResponse{
		Items:         views,
		PageNumber:    listing.Page.PageNumber,
		PageSize:      listing.Size,
		TotalPages:    listing.Page.TotalPages,
		TotalElements: listing.Page.TotalElements,
		Filter:        listing.Filter,
		CanCreate:     access.Permits(p, access.ResourceLicenses, access.ActionCreate),
		CanExport:     access.Permits(p, access.ResourceLicenses, access.ActionExport),
	})
}

// HandleExportLicenses streams the filtered page as a workbook.
func (s *Server) HandleExportLicenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, _, err := s.loadViews(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, views); err != nil {
		s.logger.ErrorContext(ctx, "license export failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, r, dErrors.New(dErrors.CodeInternal, "failed to export licenses"))
		return
	}

	s.licenseMetrics.RecordExport()
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(requestcontext.Now(ctx))+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleGetLicense returns one license with its derived state.
func (s *Server) HandleGetLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseLicenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	lic, err := s.licenses.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	views := query.BuildViews([]models.License{*lic}, access.PrincipalFrom(ctx), status.At(requestcontext.Now(ctx)))
	httputil.WriteJSON(w, r, http.StatusOK, views[0])
}

// HandleCreateLicense creates a license.
func (s *Server) HandleCreateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, ok := httputil.DecodeJSON[models.LicenseInput](w, r, s.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	created, err := s.licenses.Create(ctx, *in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusCreated, created)
}

// HandleUpdateLicense replaces the writable fields of a license.
func (s *Server) HandleUpdateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseLicenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	in, ok := httputil.DecodeJSON[models.LicenseInput](w, r, s.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	updated, err := s.licenses.Update(ctx, id, *in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, updated)
}

// HandleDeleteLicense deletes a license. The client asks for confirmation first.
func (s *Server) HandleDeleteLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseLicenseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := s.licenses.Delete(ctx, id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDashboard returns the menu and, for principals who may view
// licenses, fleet-wide counts at the request's instant.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := requestcontext.Now(ctx)
	p := access.PrincipalFrom(ctx)

	resp := DashboardResponse{
		Navigation: access.Navigation(p),
		AsOf:       now.UTC().Format(time.RFC3339),
	}
	if access.Permits(p, access.ResourceLicenses, access.ActionView) {
		sum, err := s.licenses.Summary(ctx, status.At(now))
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard summary failed", "error", err, "request_id", requestcontext.RequestID(ctx))
			httputil.WriteError(w, r, err)
			return
		}
		resp.Summary = sum
	}
	httputil.WriteJSON(w, r, http.StatusOK, resp)
}
