package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iwvelando/carbon-lens/internal/registry"
	"github.com/iwvelando/carbon-lens/pkg/constants"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	reg, err := registry.New(nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return NewHandler(zap.NewNop(), reg, constants.DefaultMaxRequestSizeBytes, "test")
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func referencePayload() map[string]interface{} {
	return map[string]interface{}{
		"region":                "India",
		"dailyDistanceKm":       10,
		"monthlyElectricityKwh": 200,
		"mealsPerDay":           3,
		"weeklyWasteKg":         5,
	}
}

func TestHandleEstimateSuccess(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/estimate", referencePayload(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp estimateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Region != "India" {
		t.Errorf("region = %s, expected India", resp.Region)
	}
	if resp.Baseline.TotalT != 3.88 {
		t.Errorf("baseline total = %v, expected 3.88", resp.Baseline.TotalT)
	}
	if resp.Baseline.TransportationT != 0.51 {
		t.Errorf("transportation = %v, expected 0.51", resp.Baseline.TransportationT)
	}

	if len(rr.Result().Cookies()) == 0 {
		t.Error("expected a session cookie on first request")
	}
}

func TestHandleEstimateUnknownRegion(t *testing.T) {
	handler := newTestHandler(t)

	payload := referencePayload()
	payload["region"] = "Atlantis"

	rr := postJSON(t, handler, "/api/estimate", payload, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleEstimateInvalidInput(t *testing.T) {
	handler := newTestHandler(t)

	payload := referencePayload()
	payload["dailyDistanceKm"] = -5

	rr := postJSON(t, handler, "/api/estimate", payload, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleScenarioWithoutBaseline(t *testing.T) {
	handler := newTestHandler(t)

	rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 50}, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleScenarioAfterBaseline(t *testing.T) {
	handler := newTestHandler(t)

	baselineRR := postJSON(t, handler, "/api/estimate", referencePayload(), nil)
	if baselineRR.Code != http.StatusOK {
		t.Fatalf("baseline request failed with %d: %s", baselineRR.Code, baselineRR.Body.String())
	}
	cookies := baselineRR.Result().Cookies()

	rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 100}, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("scenario request failed with %d: %s", rr.Code, rr.Body.String())
	}

	var resp scenarioResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Projection.Projected.TransportationT != 0 {
		t.Errorf("projected transportation = %v, expected 0", resp.Projection.Projected.TransportationT)
	}
	if resp.Projection.Projected.WasteT != resp.Baseline.WasteT {
		t.Errorf("waste changed: %v != %v", resp.Projection.Projected.WasteT, resp.Baseline.WasteT)
	}
	if resp.Projection.AbsoluteSavingsT != 0.51 {
		t.Errorf("savings = %v, expected 0.51", resp.Projection.AbsoluteSavingsT)
	}
}

func TestHandleScenarioZeroBaseline(t *testing.T) {
	handler := newTestHandler(t)

	zero := map[string]interface{}{"region": "India"}
	baselineRR := postJSON(t, handler, "/api/estimate", zero, nil)
	if baselineRR.Code != http.StatusOK {
		t.Fatalf("zero baseline request failed with %d: %s", baselineRR.Code, baselineRR.Body.String())
	}
	cookies := baselineRR.Result().Cookies()

	rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 50}, cookies)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleScenarioInvalidReduction(t *testing.T) {
	handler := newTestHandler(t)

	baselineRR := postJSON(t, handler, "/api/estimate", referencePayload(), nil)
	cookies := baselineRR.Result().Cookies()

	rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 150}, cookies)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestBaselineRecalculationClearsScenario(t *testing.T) {
	handler := newTestHandler(t)

	baselineRR := postJSON(t, handler, "/api/estimate", referencePayload(), nil)
	cookies := baselineRR.Result().Cookies()

	if rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 50}, cookies); rr.Code != http.StatusOK {
		t.Fatalf("scenario request failed with %d: %s", rr.Code, rr.Body.String())
	}

	// Recalculate the baseline; the recorded scenario must be dropped.
	if rr := postJSON(t, handler, "/api/estimate", referencePayload(), cookies); rr.Code != http.StatusOK {
		t.Fatalf("second baseline request failed with %d: %s", rr.Code, rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("session request failed with %d: %s", rr.Code, rr.Body.String())
	}

	var resp sessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Baseline == nil {
		t.Fatal("expected a baseline after recalculation")
	}
	if resp.Scenario != nil {
		t.Fatal("scenario survived a baseline recalculation")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	handler := newTestHandler(t)

	// First caller records a baseline; second caller (no cookie) must not see it.
	if rr := postJSON(t, handler, "/api/estimate", referencePayload(), nil); rr.Code != http.StatusOK {
		t.Fatalf("baseline request failed with %d: %s", rr.Code, rr.Body.String())
	}

	rr := postJSON(t, handler, "/api/scenario", map[string]interface{}{"transportPct": 50}, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for fresh session, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleRegions(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/regions", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string][]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	regions := resp["regions"]
	if len(regions) != 1 || regions[0] != "India" {
		t.Errorf("regions = %v, expected [India]", regions)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Errorf("version = %s, expected test", resp["version"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/estimate"},
		{http.MethodGet, "/api/scenario"},
		{http.MethodPost, "/api/regions"},
		{http.MethodPost, "/api/session"},
		{http.MethodPost, "/api/version"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status 405, got %d", rr.Code)
			}
		})
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	reg, err := registry.New(nil)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	handler := NewHandler(zap.NewNop(), reg, 16, "test")

	rr := postJSON(t, handler, "/api/estimate", referencePayload(), nil)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStaticIndexServed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("CarbonLens")) {
		t.Error("index page missing application title")
	}
}
