package analysis

// AlertLevel grades the overall health of a location's assets.
type AlertLevel string

const (
	AlertLow    AlertLevel = "LOW"
	AlertMedium AlertLevel = "MEDIUM"
	AlertHigh   AlertLevel = "HIGH"
)

// AllAlertLevels returns every valid alert level.
func AllAlertLevels() []AlertLevel {
	return []AlertLevel{AlertLow, AlertMedium, AlertHigh}
}

// IsValid reports whether the level is one of the known grades.
func (l AlertLevel) IsValid() bool {
	switch l {
	case AlertLow, AlertMedium, AlertHigh:
		return true
	}
	return false
}

// Result is a single health assessment for one location.
type Result struct {
	Summary         string     `json:"summary"`
	Recommendations []string   `json:"recommendations"`
	AlertLevel      AlertLevel `json:"alertLevel"`
}

// Fallback returns the assessment substituted when the external
// service cannot be reached or returns an unusable reply. It is
// deliberately distinguishable from a genuine result.
func Fallback() *Result {
	return &Result{
		Summary:         "AI analysis unavailable. Please check your connection or API configuration.",
		Recommendations: []string{"Verify the analysis service is reachable", "Check the configured API credentials"},
		AlertLevel:      AlertMedium,
	}
}

// normalize clamps a decoded result into a shape the dashboard can
// always render. Unknown alert levels degrade to MEDIUM rather than
// failing the whole assessment.
func (r *Result) normalize() {
	if r.Summary == "" {
		r.Summary = "No summary was produced for this location."
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if !r.AlertLevel.IsValid() {
		r.AlertLevel = AlertMedium
	}
}
