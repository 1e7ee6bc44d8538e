package model

// Category is the qualitative bucket of a predicted final grade.
type Category string

const (
	CategoryLow    Category = "low"
	CategoryMedium Category = "medium"
	CategoryHigh   Category = "high"
)

// AdvisoryCode identifies a non-blocking input warning.
type AdvisoryCode string

const (
	AdvisoryHighFailures    AdvisoryCode = "HIGH_FAILURES"
	AdvisoryHighAbsences    AdvisoryCode = "HIGH_ABSENCES"
	AdvisoryPerformanceDrop AdvisoryCode = "PERFORMANCE_DROP"
)

// Advisory is an informational warning derived from the form state.
type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	Message string       `json:"message"`
}

// Interpretation is the bucket a score falls into plus its fixed note.
type Interpretation struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Note     string   `json:"note"`
}

// PredictionResult is returned after a successful prediction.
type PredictionResult struct {
	Record StudentRecord `json:"record"`
	// Raw is the unclipped model output. It is kept for logging and never
	// serialized; clients only see Score.
	Raw float64 `json:"-"`
	// Score is Raw clipped to the 0–20 grade scale.
	Score float64 `json:"score"`
	// Display is Score formatted with two decimals.
	Display string `json:"display"`
	// Scale100 approximates Score on a 0–100 scale.
	Scale100       float64        `json:"scale_100"`
	Interpretation Interpretation `json:"interpretation"`
	Advisories     []Advisory     `json:"advisories"`
	ModelName      string         `json:"model_name"`
}

// PreviewResult is the assembled record as it would be sent to the model.
type PreviewResult struct {
	Columns    []string      `json:"columns"`
	Row        []any         `json:"row"`
	Cells      []PreviewCell `json:"cells"`
	Advisories []Advisory    `json:"advisories"`
}

// ModelInfo describes the loaded artifact.
type ModelInfo struct {
	Name      string             `json:"name"`
	Format    string             `json:"format"`
	Target    string             `json:"target"`
	Features  []string           `json:"features"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	TrainedAt string             `json:"trained_at,omitempty"`
	Path      string             `json:"path"`
}
