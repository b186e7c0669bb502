package models

import (
	"strings"

	"nexuscomply/pkg/domain"
)

// LicenseType is how a license is counted.
type LicenseType string

const (
	LicenseTypePerDevice  LicenseType = "PER_DEVICE"
	LicenseTypePerUser    LicenseType = "PER_USER"
	LicenseTypeEnterprise LicenseType = "ENTERPRISE"
	LicenseTypeRegion     LicenseType = "REGION"
)

// LicenseTypes lists the known license types.
var LicenseTypes = []LicenseType{
	LicenseTypePerDevice,
	LicenseTypePerUser,
	LicenseTypeEnterprise,
	LicenseTypeRegion,
}

// IsValid returns true if the type is a known value.
func (t LicenseType) IsValid() bool {
	for _, known := range LicenseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// License is a backend license record as held in the current page snapshot.
// Lifecycle status is derived on read and never stored here.
type License struct {
	ID           domain.LicenseID `json:"id"`
	LicenseKey   string           `json:"licenseKey"`
	SoftwareName string           `json:"softwareName"`
	LicenseType  LicenseType      `json:"licenseType"`
	VendorName   string           `json:"vendorName,omitempty"`
	CurrentUsage int              `json:"currentUsage"`
	MaxUsage     int              `json:"maxUsage"`
	ValidFrom    Date             `json:"validFrom"`
	ValidTo      Date             `json:"validTo"`
	Region       string           `json:"region"`
	Cost         *float64         `json:"cost,omitempty"`
	Active       bool             `json:"active"`
}

// LicenseInput is the writable part of a license sent on create and update.
type LicenseInput struct {
	LicenseKey   string      `json:"licenseKey" validate:"notblank,max=128"`
	SoftwareName string      `json:"softwareName" validate:"notblank,max=256"`
	LicenseType  LicenseType `json:"licenseType" validate:"oneof=PER_DEVICE PER_USER ENTERPRISE REGION"`
	VendorName   string      `json:"vendorName,omitempty" validate:"max=256"`
	VendorID     *int64      `json:"vendorId,omitempty"`
	CurrentUsage int         `json:"currentUsage" validate:"gte=0"`
	MaxUsage     int         `json:"maxUsage" validate:"gt=0"`
	ValidFrom    Date        `json:"validFrom" validate:"required"`
	ValidTo      Date        `json:"validTo" validate:"required"`
	Region       string      `json:"region" validate:"notblank"`
	Cost         *float64    `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Active       bool        `json:"active"`
}

// Normalize trims free-text fields and upper-cases the type.
func (in *LicenseInput) Normalize() {
	in.LicenseKey = strings.TrimSpace(in.LicenseKey)
	in.SoftwareName = strings.TrimSpace(in.SoftwareName)
	in.VendorName = strings.TrimSpace(in.VendorName)
	in.Region = strings.TrimSpace(in.Region)
	in.LicenseType = LicenseType(strings.ToUpper(strings.TrimSpace(string(in.LicenseType))))
}
