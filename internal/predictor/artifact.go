package predictor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// FormatLinearRegressionV1 is the only artifact layout this package reads.
const FormatLinearRegressionV1 = "linear-regression/v1"

// FeatureKind tells the encoder how to turn a cell into design-matrix columns.
type FeatureKind string

const (
	KindNumeric     FeatureKind = "numeric"
	KindCategorical FeatureKind = "categorical"
)

// FeatureSpec is one input column of the fitted pipeline.
type FeatureSpec struct {
	Name       string      `json:"name" yaml:"name"`
	Kind       FeatureKind `json:"kind" yaml:"kind"`
	Categories []string    `json:"categories,omitempty" yaml:"categories,omitempty"`
	DropFirst  bool        `json:"drop_first,omitempty" yaml:"drop_first,omitempty"`
}

// width is the number of encoded columns the feature occupies.
func (f FeatureSpec) width() int {
	if f.Kind == KindNumeric {
		return 1
	}
	if f.DropFirst {
		return len(f.Categories) - 1
	}
	return len(f.Categories)
}

// Artifact is the on-disk description of a fitted linear-regression pipeline.
type Artifact struct {
	Format       string             `json:"format" yaml:"format"`
	Name         string             `json:"name" yaml:"name"`
	Target       string             `json:"target" yaml:"target"`
	Features     []FeatureSpec      `json:"features" yaml:"features"`
	Coefficients []float64          `json:"coefficients" yaml:"coefficients"`
	Intercept    float64            `json:"intercept" yaml:"intercept"`
	Metrics      map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	TrainedAt    string             `json:"trained_at,omitempty" yaml:"trained_at,omitempty"`
}

// Decode parses raw artifact bytes. ext selects the encoding (".json",
// ".yaml" or ".yml").
func Decode(raw []byte, ext string) (*Artifact, error) {
	var a Artifact
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(raw, &a); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported artifact extension %q", ext)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks that the artifact describes a usable model.
func (a *Artifact) Validate() error {
	if a.Format != FormatLinearRegressionV1 {
		return fmt.Errorf("unsupported format %q", a.Format)
	}
	if len(a.Features) == 0 {
		return errors.New("artifact has no features")
	}

	seen := make(map[string]struct{}, len(a.Features))
	width := 0
	for i, f := range a.Features {
		if f.Name == "" {
			return fmt.Errorf("feature %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate feature %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Kind {
		case KindNumeric:
		case KindCategorical:
			if len(f.Categories) == 0 {
				return fmt.Errorf("categorical feature %q has no categories", f.Name)
			}
			if f.DropFirst && len(f.Categories) < 2 {
				return fmt.Errorf("categorical feature %q drops its only category", f.Name)
			}
		default:
			return fmt.Errorf("feature %q has unknown kind %q", f.Name, f.Kind)
		}
		width += f.width()
	}

	if len(a.Coefficients) != width {
		return fmt.Errorf("coefficient count %d does not match encoded width %d", len(a.Coefficients), width)
	}
	for i, c := range a.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(a.Intercept) || math.IsInf(a.Intercept, 0) {
		return errors.New("intercept is not finite")
	}
	return nil
}

// LoadFile reads, decodes and validates the artifact at path. Every failure
// is reported as *ArtifactLoadError.
func LoadFile(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	a, err := Decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, &ArtifactLoadError{Path: path, Err: err}
	}
	return newModel(a, path), nil
}
