// Package web holds the embedded form page and its static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/stemsi/prediksi-nilai/internal/model"
)

// PageTemplate is the name of the form page template.
const PageTemplate = "index.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Static serves the embedded CSS and JS.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// PageError is an error block with the underlying error text and a hint.
type PageError struct {
	Message string
	Hint    string
	Detail  string
}

// Field is one form control together with its current value and error.
type Field struct {
	model.FeatureControl
	Value string
	Error string
}

// Page is the view model of the form page.
type Page struct {
	Schema     model.Schema
	Model      *model.ModelInfo
	ModelError *PageError
	Left       []Field
	Right      []Field
	Preview    model.PreviewResult
	Result     *model.PredictionResult
	Error      *PageError
	Invalid    bool
}

// NewPage builds the page with the default form state. info is nil when the
// model is unavailable.
func NewPage(info *model.ModelInfo) *Page {
	p := &Page{Schema: model.FeatureSchema(), Model: info}
	p.SetRecord(model.DefaultStudentRecord())
	return p
}

// SetRecord fills the controls from rec.
func (p *Page) SetRecord(rec model.StudentRecord) {
	values := make(map[string]string, len(model.FeatureColumns))
	for _, cell := range rec.Preview() {
		values[cell.Column] = fmt.Sprint(cell.Value)
	}
	p.setFields(values, nil)
}

// SetPreview replaces the preview block, including its advisories.
func (p *Page) SetPreview(preview model.PreviewResult) {
	p.Preview = preview
}

// SetInvalid keeps the submitted values in the controls and marks the fields
// that failed validation. The preview is dropped since there is no record.
func (p *Page) SetInvalid(submitted url.Values, fields map[string]string) {
	values := make(map[string]string, len(model.FeatureColumns))
	for _, f := range append(append([]Field{}, p.Left...), p.Right...) {
		values[f.Name] = f.Value
	}
	for name := range values {
		if v, ok := submitted[name]; ok && len(v) > 0 {
			values[name] = v[0]
		}
	}
	p.setFields(values, fields)
	p.Preview = model.PreviewResult{}
	p.Invalid = true
}

func (p *Page) setFields(values, errs map[string]string) {
	p.Left, p.Right = p.Left[:0], p.Right[:0]
	for _, ctrl := range p.Schema.Controls {
		f := Field{FeatureControl: ctrl, Value: values[ctrl.Name], Error: errs[ctrl.Name]}
		if f.Value == "" {
			f.Value = ctrl.Default
		}
		if ctrl.Column == 1 {
			p.Left = append(p.Left, f)
		} else {
			p.Right = append(p.Right, f)
		}
	}
}
