package models

// Lifecycle is the derived classification of a license.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "ACTIVE"
	LifecycleExpired  Lifecycle = "EXPIRED"
	LifecycleInactive Lifecycle = "INACTIVE"
)

// Pressure is the derived usage band of a license.
type Pressure string

const (
	PressureNominal  Pressure = "nominal"
	PressureWarning  Pressure = "warning"
	PressureCritical Pressure = "critical"
)

// Derived holds every value computed from a license and an instant.
type Derived struct {
	Lifecycle       Lifecycle `json:"lifecycle"`
	Expired         bool      `json:"expired"`
	ExpiringSoon    bool      `json:"expiringSoon"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
	UsagePercent    float64   `json:"usagePercent"`
	Pressure        Pressure  `json:"pressure"`
}

// View is a license ready for presentation: the record, its derived state
// and the actions the viewer may take. Denied actions are absent.
type View struct {
	License
	Derived
	Actions []string `json:"actions"`
}

// Summary holds fleet-wide counts for the dashboard.
type Summary struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiringSoon"`
	Warning      int `json:"warning"`
	Critical     int `json:"critical"`
}
