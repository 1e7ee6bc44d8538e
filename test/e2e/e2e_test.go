//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/stemsi/prediksi-nilai/internal/model"
)

const defaultBaseURL = "http://localhost:8080"

var baseURL string

// scenario is the reference student; the shipped artifact rates it high.
var scenario = map[string]interface{}{
	"G1": 18, "G2": 19, "studytime": 3, "failures": 0, "absences": 2,
	"internet": "yes", "higher": "yes", "schoolsup": "no",
}

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	resp, err := get("/health")
	if err != nil {
		fmt.Printf("Server not reachable at %s: %v\n", baseURL, err)
		os.Exit(1)
	}
	resp.Body.Close()

	os.Exit(m.Run())
}

func TestE2EFlow(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		resp, err := get("/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Status != "ok" {
			t.Fatalf("status = %q, server must run with a loaded model", body.Data.Status)
		}
	})

	t.Run("FormPage", func(t *testing.T) {
		resp, err := get("/?failures=4")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		body := readBody(resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if !strings.Contains(body, string(model.AdvisoryHighFailures)) {
			t.Error("page missing the failures advisory")
		}
	})

	t.Run("FormSubmit", func(t *testing.T) {
		form := url.Values{}
		for k, v := range scenario {
			form.Set(k, fmt.Sprint(v))
		}
		resp, err := http.PostForm(baseURL+"/predict", form)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		body := readBody(resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Prediksi Nilai Akhir (G3)") {
			t.Error("result block missing")
		}
	})

	t.Run("APIPredict", func(t *testing.T) {
		resp, err := post("/api/v1/predict", scenario)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var body struct {
			Data model.PredictionResult `json:"data"`
		}
		decodeJSON(t, resp, &body)
		if body.Data.Score < 0 || body.Data.Score > 20 {
			t.Errorf("score %v outside 0–20", body.Data.Score)
		}
		if body.Data.Score >= 14 && body.Data.Interpretation.Category != model.CategoryHigh {
			t.Errorf("category = %s for score %v", body.Data.Interpretation.Category, body.Data.Score)
		}
		if len(body.Data.Advisories) != 0 {
			t.Errorf("advisories = %v, want none", body.Data.Advisories)
		}
	})

	t.Run("APIValidation", func(t *testing.T) {
		resp, err := post("/api/v1/predict", map[string]interface{}{"G1": 99})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status %d, want 400", resp.StatusCode)
		}
	})

	t.Run("FormStream", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/v1/form"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		if err := conn.WriteJSON(map[string]interface{}{"action": "evaluate", "form": scenario}); err != nil {
			t.Fatalf("write: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var ev struct {
			Event   string              `json:"event"`
			Preview model.PreviewResult `json:"preview"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		if ev.Event != "evaluated" || len(ev.Preview.Columns) != len(model.FeatureColumns) {
			t.Errorf("event = %+v", ev)
		}
	})
}

// ─── Helpers ──────────────────────────────────────────────────────────

func post(path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest("POST", baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func get(path string) (*http.Response, error) {
	req, err := http.NewRequest("GET", baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
