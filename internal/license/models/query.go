package models

// FilterCriteria is the transient filter state of the license list.
// Empty fields do not constrain. Active is "true", "false" or "".
type FilterCriteria struct {
	Search      string `json:"search,omitempty"`
	Region      string `json:"region,omitempty"`
	LicenseType string `json:"licenseType,omitempty"`
	Active      string `json:"active,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c == FilterCriteria{}
}

// Page is one server-side page. PageNumber is zero-based and TotalPages is
// authoritative from the backend.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.PageNumber+1 < p.TotalPages
}
