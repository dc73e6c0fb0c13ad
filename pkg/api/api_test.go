package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/pkgcycle/pkg/cache"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/observability"
	"github.com/matzehuels/pkgcycle/pkg/pipeline"
	"github.com/matzehuels/pkgcycle/pkg/report"
	"github.com/matzehuels/pkgcycle/pkg/store"
)

const cycleFacts = `{
  "classes": [
    {"package": "a", "name": "A"},
    {"package": "b", "name": "B"}
  ],
  "usages": [
    {"from": {"package": "a", "class": "A"}, "to": {"package": "b", "class": "B"}},
    {"from": {"package": "b", "class": "B"}, "to": {"package": "a", "class": "A"}}
  ]
}`

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := New(Options{
		Runner: pipeline.NewRunner(cache.NewMemoryCache(0, 0), nil, logger),
		Store:  st,
		Logger: logger,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("error body %q: %v", data, err)
	}
	return e
}

func TestCircuits(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		body       string
		circuits   [][]string
		components [][]string
	}{
		{
			name:       "two cycle",
			body:       `{"graph": {"a": ["b"], "b": ["a"]}}`,
			circuits:   [][]string{{"a", "b"}},
			components: [][]string{{"a", "b"}},
		},
		{
			name:       "iterative self loop",
			body:       `{"graph": {"a": ["a", "b"], "b": []}, "iterative": true}`,
			circuits:   [][]string{{"a"}},
			components: [][]string{{"a"}},
		},
		{
			name:       "acyclic",
			body:       `{"graph": {"a": ["b"], "b": []}}`,
			circuits:   [][]string{},
			components: [][]string{},
		},
		{
			name:       "empty",
			body:       `{"graph": {}}`,
			circuits:   [][]string{},
			components: [][]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/v1/circuits", tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", resp.StatusCode, data)
			}
			var got CircuitsResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Circuits, tt.circuits) {
				t.Errorf("Circuits = %v, want %v", got.Circuits, tt.circuits)
			}
			if !reflect.DeepEqual(got.Components, tt.components) {
				t.Errorf("Components = %v, want %v", got.Components, tt.components)
			}
		})
	}
}

func TestCircuitsErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"not closed", `{"graph": {"a": ["b"]}}`, http.StatusBadRequest, errors.ErrCodeInvalidGraph},
		{"malformed", `{"graph": `, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"graph": {}, "depth": 3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/v1/circuits", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decodeError(t, data); got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	srv := New(Options{
		Runner:       pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		MaxBodyBytes: 16,
	})
	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"graph": {"a": ["b"], "b": ["a"]}}`)
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/circuits", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeAndGetReport(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/analyze", cycleFacts)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", resp.StatusCode, data)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatal(err)
	}
	if rep.ID == "" {
		t.Fatal("report should have an ID")
	}
	if rep.Summary.Cycles != 1 || !reflect.DeepEqual(rep.Cycles, [][]string{{"a", "b"}}) {
		t.Errorf("Cycles = %v (summary %d), want [[a b]]", rep.Cycles, rep.Summary.Cycles)
	}
	if len(rep.Issues) == 0 {
		t.Error("expected package-cycle issues")
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/reports/"+rep.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d: %s", resp.StatusCode, data)
	}
	var got report.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != rep.ID || got.Summary != rep.Summary {
		t.Errorf("stored report = %s %+v, want %s %+v", got.ID, got.Summary, rep.ID, rep.Summary)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/reports", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list listResponse
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Reports) != 1 || list.Reports[0].ID != rep.ID {
		t.Errorf("list = %d reports", len(list.Reports))
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v1/reports/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing report status = %d, want 404", resp.StatusCode)
	}
	if got := decodeError(t, data); got.Code != errors.ErrCodeReportNotFound {
		t.Errorf("code = %q, want %q", got.Code, errors.ErrCodeReportNotFound)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	ts := newTestServer(t, store.NewMemory())

	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"empty class", `{"classes": [{"package": "a", "name": ""}]}`, errors.ErrCodeInvalidInput},
		{"language", `{"language": "cobol"}`, errors.ErrCodeInvalidLanguage},
		{"settings", `{"settings": {"issue_mode": "nowhere"}}`, errors.ErrCodeInvalidConfig},
		{"max cycles", `{"max_cycles": -1}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, ts.URL+"/v1/analyze", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", resp.StatusCode, data)
			}
			if got := decodeError(t, data); got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestReportsWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := do(t, http.MethodPost, ts.URL+"/v1/analyze", cycleFacts)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("analyze without a store status = %d, want 200", resp.StatusCode)
	}
	resp, data := do(t, http.MethodGet, ts.URL+"/v1/reports/x", "")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
	if got := decodeError(t, data); got.Code != errors.ErrCodeUnsupported {
		t.Errorf("code = %q, want UNSUPPORTED", got.Code)
	}
}

func TestHealthAndRouting(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, data := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(data, &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Build.Version == "" {
		t.Errorf("health = %+v", h)
	}

	resp, data = do(t, http.MethodGet, ts.URL+"/v2/nothing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", resp.StatusCode)
	}
	if got := decodeError(t, data); got.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", got.Code)
	}

	resp, _ = do(t, http.MethodGet, ts.URL+"/v1/circuits", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/circuits status = %d, want 405", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := observability.NewPrometheus(reg)
	observability.SetHTTPHooks(p)
	t.Cleanup(observability.Reset)

	srv := New(Options{
		Runner:  pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		Metrics: p.Handler(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	do(t, http.MethodPost, ts.URL+"/v1/circuits", `{"graph": {"a": ["a"]}}`)
	resp, data := do(t, http.MethodGet, ts.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	want := `pkgcycle_http_requests_total{method="POST",route="/v1/circuits",status="200"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("metrics output missing %q", want)
	}
}
