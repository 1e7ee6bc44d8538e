package predictor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Frame is a small table handed to Predict. Every row must have one cell per
// column, in column order.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// Info summarizes a loaded artifact.
type Info struct {
	Name      string
	Format    string
	Target    string
	Features  []string
	Metrics   map[string]float64
	TrainedAt string
	Path      string
}

// Model is a loaded, immutable linear-regression pipeline. It is safe for
// concurrent use.
type Model struct {
	artifact Artifact
	path     string
	beta     *mat.VecDense
	width    int
}

func newModel(a *Artifact, path string) *Model {
	coef := make([]float64, len(a.Coefficients))
	copy(coef, a.Coefficients)
	return &Model{
		artifact: *a,
		path:     path,
		beta:     mat.NewVecDense(len(coef), coef),
		width:    len(coef),
	}
}

// NewModel builds a Model from an in-memory artifact.
func NewModel(a *Artifact) (*Model, error) {
	if a == nil {
		return nil, errors.New("nil artifact")
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return newModel(a, ""), nil
}

// Info returns a copy of the artifact metadata.
func (m *Model) Info() Info {
	metrics := make(map[string]float64, len(m.artifact.Metrics))
	for k, v := range m.artifact.Metrics {
		metrics[k] = v
	}
	return Info{
		Name:      m.artifact.Name,
		Format:    m.artifact.Format,
		Target:    m.artifact.Target,
		Features:  m.Features(),
		Metrics:   metrics,
		TrainedAt: m.artifact.TrainedAt,
		Path:      m.path,
	}
}

// Features returns the column names the model was fit on, in order.
func (m *Model) Features() []string {
	names := make([]string, len(m.artifact.Features))
	for i, f := range m.artifact.Features {
		names[i] = f.Name
	}
	return names
}

// Predict returns one value per frame row. Any mismatch between the frame and
// the fitted columns is reported as *PredictionError.
func (m *Model) Predict(f Frame) ([]float64, error) {
	if err := m.checkColumns(f.Columns); err != nil {
		return nil, err
	}
	if len(f.Rows) == 0 {
		return nil, &PredictionError{Err: errors.New("frame has no rows")}
	}

	x := mat.NewDense(len(f.Rows), m.width, nil)
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return nil, &PredictionError{Err: fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(f.Columns))}
		}
		if err := m.encodeRow(x, i, row); err != nil {
			return nil, err
		}
	}

	var y mat.VecDense
	y.MulVec(x, m.beta)

	out := make([]float64, len(f.Rows))
	for i := range out {
		out[i] = y.AtVec(i) + m.artifact.Intercept
	}
	return out, nil
}

func (m *Model) checkColumns(cols []string) error {
	want := m.artifact.Features
	if len(cols) != len(want) {
		return &PredictionError{Err: fmt.Errorf("got %d columns %v, model expects %d %v", len(cols), cols, len(want), m.Features())}
	}
	for i, c := range cols {
		if c != want[i].Name {
			return &PredictionError{Column: c, Err: fmt.Errorf("position %d expects %q", i, want[i].Name)}
		}
	}
	return nil
}

// encodeRow writes one row of the design matrix. Categorical cells are one-hot
// encoded, with the first category dropped when the artifact says so.
func (m *Model) encodeRow(x *mat.Dense, i int, row []any) error {
	col := 0
	for j, spec := range m.artifact.Features {
		switch spec.Kind {
		case KindNumeric:
			v, err := toFloat(row[j])
			if err != nil {
				return &PredictionError{Column: spec.Name, Err: err}
			}
			x.Set(i, col, v)
		case KindCategorical:
			s, ok := row[j].(string)
			if !ok {
				return &PredictionError{Column: spec.Name, Err: fmt.Errorf("expected string category, got %T", row[j])}
			}
			idx := indexOf(spec.Categories, s)
			if idx < 0 {
				return &PredictionError{Column: spec.Name, Err: fmt.Errorf("unknown category %q, expected one of %v", s, spec.Categories)}
			}
			if spec.DropFirst {
				idx--
			}
			if idx >= 0 {
				x.Set(i, col+idx, 1)
			}
		}
		col += spec.width()
	}
	return nil
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("value is not finite")
	}
	return f, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
