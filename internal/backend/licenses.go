package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"nexuscomply/internal/license/models"
	"nexuscomply/pkg/domain"
)

const licenseRoute = "/licenses/{id}"

// ListLicenses fetches one zero-based page of licenses.
func (c *Client) ListLicenses(ctx context.Context, page, size int) (models.Page[models.License], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	resp, err := c.do(ctx, call{
		method:        http.MethodGet,
		route:         "/licenses",
		path:          "/licenses?" + q.Encode(),
		authenticated: true,
	})
	if err != nil {
		return models.Page[models.License]{}, err
	}
	var out springPage[models.License]
	if err := decode(resp, &out); err != nil {
		return models.Page[models.License]{}, err
	}
	return out.toPage(), nil
}

// GetLicense fetches one license.
func (c *Client) GetLicense(ctx context.Context, id domain.LicenseID) (*models.License, error) {
	resp, err := c.do(ctx, call{
		method:        http.MethodGet,
		route:         licenseRoute,
		path:          "/licenses/" + id.String(),
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	var out models.License
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLicense creates a license and returns the stored record.
func (c *Client) CreateLicense(ctx context.Context, in models.LicenseInput) (*models.License, error) {
	resp, err := c.do(ctx, call{
		method:        http.MethodPost,
		route:         "/licenses",
		path:          "/licenses",
		body:          in,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	var out models.License
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLicense replaces the writable fields of a license.
func (c *Client) UpdateLicense(ctx context.Context, id domain.LicenseID, in models.LicenseInput) (*models.License, error) {
	resp, err := c.do(ctx, call{
		method:        http.MethodPut,
		route:         licenseRoute,
		path:          "/licenses/" + id.String(),
		body:          in,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	var out models.License
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLicense deletes a license.
func (c *Client) DeleteLicense(ctx context.Context, id domain.LicenseID) error {
	_, err := c.do(ctx, call{
		method:        http.MethodDelete,
		route:         licenseRoute,
		path:          "/licenses/" + id.String(),
		authenticated: true,
	})
	return err
}
