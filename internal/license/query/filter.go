package query

import (
	"strconv"
	"strings"

	"nexuscomply/internal/license/models"
)

// ApplyFilters narrows records to those matching every set criterion:
// case-insensitive search in licenseKey or softwareName, exact region,
// exact licenseType and the active flag. Empty criteria return records
// unchanged; order is always preserved.
func ApplyFilters(records []models.License, c models.FilterCriteria) []models.License {
	if c.IsEmpty() {
		return records
	}
	search := strings.ToLower(c.Search)
	out := make([]models.License, 0, len(records))
	for _, l := range records {
		if matches(l, c, search) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l models.License, c models.FilterCriteria, search string) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(l.LicenseKey), search) &&
		!strings.Contains(strings.ToLower(l.SoftwareName), search) {
		return false
	}
	if c.Region != "" && l.Region != c.Region {
		return false
	}
	if c.LicenseType != "" && string(l.LicenseType) != c.LicenseType {
		return false
	}
	if c.Active != "" && strconv.FormatBool(l.Active) != c.Active {
		return false
	}
	return true
}
