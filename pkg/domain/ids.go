// Package domain provides identity and identifier types shared by the console packages.
package domain

import (
	"strconv"

	dErrors "nexuscomply/pkg/domain-errors"
)

// LicenseID is the backend's numeric license identifier.
type LicenseID int64

// ParseLicenseID parses a path or CLI argument. Use at trust boundaries.
func ParseLicenseID(s string) (LicenseID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "license ID cannot be empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "license ID must be a positive integer")
	}
	return LicenseID(n), nil
}

func (id LicenseID) String() string { return strconv.FormatInt(int64(id), 10) }

func (id LicenseID) IsNil() bool { return id == 0 }
