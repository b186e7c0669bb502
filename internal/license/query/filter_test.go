package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nexuscomply/internal/license/models"
)

func fixtureLicenses() []models.License {
	return []models.License{
		{ID: 1, LicenseKey: "CSCO-ASR-001", SoftwareName: "IOS XR", LicenseType: models.LicenseTypePerDevice, Region: "EMEA", Active: true},
		{ID: 2, LicenseKey: "JNPR-MX-044", SoftwareName: "Junos", LicenseType: models.LicenseTypeEnterprise, Region: "APAC", Active: false},
		{ID: 3, LicenseKey: "NOK-SR-310", SoftwareName: "SR OS", LicenseType: models.LicenseTypePerDevice, Region: "EMEA", Active: false},
		{ID: 4, LicenseKey: "ERIC-ENM-7", SoftwareName: "Ericsson Network Manager", LicenseType: models.LicenseTypePerUser, Region: "AMER", Active: true},
		{ID: 5, LicenseKey: "csco-dnac-2", SoftwareName: "DNA Center", LicenseType: models.LicenseTypeRegion, Region: "EMEA", Active: true},
	}
}

func ids(records []models.License) []int64 {
	out := make([]int64, len(records))
	for i, l := range records {
		out[i] = int64(l.ID)
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.FilterCriteria
		want     []int64
	}{
		{"empty criteria keep everything in order", models.FilterCriteria{}, []int64{1, 2, 3, 4, 5}},
		{"search is case-insensitive on key", models.FilterCriteria{Search: "CSCO"}, []int64{1, 5}},
		{"search matches software name", models.FilterCriteria{Search: "junos"}, []int64{2}},
		{"region is exact", models.FilterCriteria{Region: "EMEA"}, []int64{1, 3, 5}},
		{"region does not match substrings", models.FilterCriteria{Region: "EM"}, []int64{}},
		{"type is exact", models.FilterCriteria{LicenseType: "PER_DEVICE"}, []int64{1, 3}},
		{"active true", models.FilterCriteria{Active: "true"}, []int64{1, 4, 5}},
		{"active false", models.FilterCriteria{Active: "false"}, []int64{2, 3}},
		{"criteria combine with AND", models.FilterCriteria{Region: "EMEA", Active: "true", LicenseType: "PER_DEVICE"}, []int64{1}},
		{"search and region", models.FilterCriteria{Search: "o", Region: "APAC"}, []int64{2}},
		{"no match", models.FilterCriteria{Search: "zzz"}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ApplyFilters(fixtureLicenses(), tt.criteria)))
		})
	}
}

func TestApplyFilters_IsConjunctionOfPredicates(t *testing.T) {
	records := fixtureLicenses()
	single := []models.FilterCriteria{
		{Search: "s"},
		{Region: "EMEA"},
		{LicenseType: "PER_DEVICE"},
		{Active: "false"},
	}
	combined := models.FilterCriteria{Search: "s", Region: "EMEA", LicenseType: "PER_DEVICE", Active: "false"}

	narrowed := records
	for _, c := range single {
		narrowed = ApplyFilters(narrowed, c)
	}
	assert.Equal(t, ids(narrowed), ids(ApplyFilters(records, combined)))
}

func TestApplyFilters_EmptyCriteriaReturnsInput(t *testing.T) {
	records := fixtureLicenses()
	out := ApplyFilters(records, models.FilterCriteria{})
	assert.Equal(t, records, out)
	assert.Same(t, &records[0], &out[0])
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	records := fixtureLicenses()
	_ = ApplyFilters(records, models.FilterCriteria{Region: "APAC"})
	assert.Equal(t, fixtureLicenses(), records)
}
