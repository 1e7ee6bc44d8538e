package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/prediksi-nilai/internal/predictor"
	"github.com/stemsi/prediksi-nilai/internal/response"
	"github.com/stemsi/prediksi-nilai/internal/service"
	"github.com/stemsi/prediksi-nilai/internal/validator"
	"github.com/stemsi/prediksi-nilai/internal/web"
)

var repoArtifact = filepath.Join("..", "..", "student_grade_lr.json")

const scenarioJSON = `{"G1":18,"G2":19,"studytime":3,"failures":0,"absences":2,"internet":"yes","higher":"yes","schoolsup":"no"}`

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type failingModel struct{ err error }

func (f failingModel) Predict(predictor.Frame) ([]float64, error) { return nil, f.err }

func (f failingModel) Info() predictor.Info {
	return predictor.Info{Name: "failing", Target: "G3", Path: "failing.json"}
}

func loadedService(t *testing.T) *service.PredictionService {
	t.Helper()
	m, err := predictor.LoadFile(repoArtifact)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return service.NewPredictionService(m, zerolog.Nop())
}

func unavailableService() *service.PredictionService {
	loadErr := &predictor.ArtifactLoadError{Path: "missing.json", Err: errors.New("no such file")}
	return service.NewUnavailablePredictionService("missing.json", loadErr, zerolog.Nop())
}

func newEngine(t *testing.T, svc *service.PredictionService) *gin.Engine {
	t.Helper()
	r := gin.New()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	r.SetHTMLTemplate(tmpl)

	form := NewFormHandler(svc, zerolog.Nop())
	api := NewPredictionHandler(svc, zerolog.Nop())
	r.GET("/", form.Index)
	r.POST("/predict", form.Predict)
	r.GET("/api/v1/schema", api.GetSchema)
	r.GET("/api/v1/model", api.GetModel)
	r.POST("/api/v1/preview", api.Preview)
	r.POST("/api/v1/advisories", api.Advisories)
	r.POST("/api/v1/predict", api.Predict)
	r.GET("/health", NewSystemHandler(svc).Health)
	return r
}

func do(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (map[string]any, *response.ErrorBody) {
	t.Helper()
	var env struct {
		Data  map[string]any      `json:"data"`
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return env.Data, env.Error
}

// ─── Form page ──────────────────────────────────────────────────────

func TestIndexDefaults(t *testing.T) {
	w := do(newEngine(t, loadedService(t)), http.MethodGet, "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, s := range []string{`<form id="grade-form"`, "<th>G1</th>", "<td>yes</td>", "student_grade_lr"} {
		if !strings.Contains(body, s) {
			t.Errorf("page missing %q", s)
		}
	}
	if strings.Contains(body, "Peringatan input") {
		t.Error("default state should have no advisories")
	}
}

func TestIndexQueryStateEvaluatesAdvisories(t *testing.T) {
	w := do(newEngine(t, loadedService(t)), http.MethodGet, "/?failures=4&absences=45", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, code := range []string{"HIGH_FAILURES", "HIGH_ABSENCES"} {
		if !strings.Contains(body, code) {
			t.Errorf("page missing advisory %s", code)
		}
	}
	if strings.Contains(body, "PERFORMANCE_DROP") {
		t.Error("unexpected PERFORMANCE_DROP advisory")
	}
}

func TestIndexInvalidQuery(t *testing.T) {
	w := do(newEngine(t, loadedService(t)), http.MethodGet, "/?G1=25", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), `value="25"`) {
		t.Error("submitted value should be kept in the control")
	}
}

func TestFormPredict(t *testing.T) {
	form := url.Values{
		"G1": {"18"}, "G2": {"19"}, "studytime": {"3"}, "failures": {"0"}, "absences": {"2"},
		"internet": {"yes"}, "higher": {"yes"}, "schoolsup": {"no"},
	}
	w := do(newEngine(t, loadedService(t)), http.MethodPost, "/predict", "application/x-www-form-urlencoded", form.Encode())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, s := range []string{"19.26", "🟢 Tinggi", "Kenapa hasilnya bisa begitu?"} {
		if !strings.Contains(body, s) {
			t.Errorf("page missing %q", s)
		}
	}
}

func TestFormPredictRejected(t *testing.T) {
	svc := service.NewPredictionService(failingModel{err: errors.New("feature names mismatch")}, zerolog.Nop())
	form := url.Values{
		"G1": {"10"}, "G2": {"10"}, "studytime": {"1"}, "failures": {"0"}, "absences": {"0"},
		"internet": {"yes"}, "higher": {"yes"}, "schoolsup": {"yes"},
	}
	w := do(newEngine(t, svc), http.MethodPost, "/predict", "application/x-www-form-urlencoded", form.Encode())
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, response.PredictionHint) || !strings.Contains(body, "feature names mismatch") {
		t.Error("error block should show hint and detail")
	}
	if strings.Contains(body, "Prediksi Nilai Akhir (G3): <strong>") {
		t.Error("no result may be shown after a failure")
	}
}

func TestFormPredictMissingField(t *testing.T) {
	form := url.Values{"G1": {"10"}}
	w := do(newEngine(t, loadedService(t)), http.MethodPost, "/predict", "application/x-www-form-urlencoded", form.Encode())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPageModelUnavailable(t *testing.T) {
	r := newEngine(t, unavailableService())
	for _, tc := range []struct{ method, target, ct string }{
		{http.MethodGet, "/", ""},
		{http.MethodPost, "/predict", "application/x-www-form-urlencoded"},
	} {
		w := do(r, tc.method, tc.target, tc.ct, "")
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want 503", tc.method, tc.target, w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "missing.json") {
			t.Errorf("%s %s should name the artifact path", tc.method, tc.target)
		}
		if strings.Contains(body, "<form") {
			t.Errorf("%s %s must not render controls", tc.method, tc.target)
		}
	}
}

// ─── JSON API ───────────────────────────────────────────────────────

func TestAPIPredict(t *testing.T) {
	w := do(newEngine(t, loadedService(t)), http.MethodPost, "/api/v1/predict", "application/json", scenarioJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data, _ := decode(t, w)
	if data["display"] != "19.26" {
		t.Errorf("display = %v", data["display"])
	}
	interp := data["interpretation"].(map[string]any)
	if interp["category"] != "high" {
		t.Errorf("category = %v", interp["category"])
	}
}

func TestAPIPredictClipsWithoutRawScore(t *testing.T) {
	body := `{"G1":0,"G2":0,"studytime":4,"failures":5,"absences":0,"internet":"no","higher":"no","schoolsup":"no"}`
	w := do(newEngine(t, loadedService(t)), http.MethodPost, "/api/v1/predict", "application/json", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	data, _ := decode(t, w)
	if _, leaked := data["raw"]; leaked {
		t.Errorf("response exposes raw: %v", data)
	}
	if data["score"] != 0.0 || data["display"] != "0.00" {
		t.Errorf("score = %v, display = %v", data["score"], data["display"])
	}
}

func TestAPIPredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *service.PredictionService
		body   string
		status int
		code   response.ErrCode
	}{
		{"validation", loadedService(t), `{"G1":21}`, http.StatusBadRequest, response.ErrValidation},
		{"unavailable", unavailableService(), scenarioJSON, http.StatusServiceUnavailable, response.ErrModelUnavailable},
		{
			"rejected",
			service.NewPredictionService(failingModel{err: &predictor.PredictionError{Column: "G1", Err: errors.New("bad")}}, zerolog.Nop()),
			scenarioJSON, http.StatusUnprocessableEntity, response.ErrPredictionFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newEngine(t, tt.svc), http.MethodPost, "/api/v1/predict", "application/json", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			_, e := decode(t, w)
			if e == nil || e.Code != tt.code {
				t.Fatalf("error = %+v, want %s", e, tt.code)
			}
			if tt.status != http.StatusBadRequest && (e.Hint == "" || e.Detail == "") {
				t.Errorf("hint/detail missing: %+v", e)
			}
		})
	}
}

func TestAPIPreviewAndAdvisories(t *testing.T) {
	r := newEngine(t, loadedService(t))
	body := `{"G1":16,"G2":12,"studytime":2,"failures":3,"absences":30,"internet":"no","higher":"no","schoolsup":"yes"}`

	w := do(r, http.MethodPost, "/api/v1/preview", "application/json", body)
	if w.Code != http.StatusOK {
		t.Fatalf("preview status = %d", w.Code)
	}
	data, _ := decode(t, w)
	cols := data["columns"].([]any)
	if len(cols) != 8 || cols[0] != "G1" || cols[7] != "schoolsup" {
		t.Errorf("columns = %v", cols)
	}

	w = do(r, http.MethodPost, "/api/v1/advisories", "application/json", body)
	data, _ = decode(t, w)
	adv := data["advisories"].([]any)
	if len(adv) != 3 {
		t.Fatalf("advisories = %v, want 3", adv)
	}
	want := []string{"HIGH_FAILURES", "HIGH_ABSENCES", "PERFORMANCE_DROP"}
	for i, a := range adv {
		if code := a.(map[string]any)["code"]; code != want[i] {
			t.Errorf("advisory[%d] = %v, want %s", i, code, want[i])
		}
	}
}

func TestAPIAdvisoriesWorkWithoutModel(t *testing.T) {
	w := do(newEngine(t, unavailableService()), http.MethodPost, "/api/v1/advisories", "application/json", scenarioJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAPISchemaAndModel(t *testing.T) {
	r := newEngine(t, loadedService(t))

	data, _ := decode(t, do(r, http.MethodGet, "/api/v1/schema", "", ""))
	if data["target"] != "G3" || len(data["controls"].([]any)) != 8 {
		t.Errorf("schema = %v", data)
	}

	data, _ = decode(t, do(r, http.MethodGet, "/api/v1/model", "", ""))
	if data["name"] != "student_grade_lr" || data["format"] != predictor.FormatLinearRegressionV1 {
		t.Errorf("model = %v", data)
	}
}

func TestHealth(t *testing.T) {
	data, _ := decode(t, do(newEngine(t, loadedService(t)), http.MethodGet, "/health", "", ""))
	if data["status"] != "ok" {
		t.Errorf("status = %v", data["status"])
	}

	w := do(newEngine(t, unavailableService()), http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	data, _ = decode(t, w)
	if data["status"] != "degraded" || data["model"].(map[string]any)["loaded"] != false {
		t.Errorf("health = %v", data)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42s", "0m 42s"},
		{"3h5m1s", "3h 5m 1s"},
		{"50h", "2d 2h 0m 0s"},
	}
	for _, tt := range tests {
		d, _ := time.ParseDuration(tt.in)
		if got := formatDuration(d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
