package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lindel.lk/lims/handlers"
	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
	"lindel.lk/lims/store"
)

// apiServer builds the full route table over a fresh store and mints an
// admin token for the protected surface.
func apiServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	clock := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	handlers.Store = store.New().WithClock(func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	})
	token, err := middleware.GenerateToken("u-1", models.RoleAdmin, "Admin", "admin@lindel.lk")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return RegisterRoutes(), token
}

func apiCall(t *testing.T, h http.Handler, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// The filter paths under /requests and /crfs carry fixed segments that
// must not be swallowed by the {id} captures registered alongside them.
func TestFixedSegmentsNotSwallowedByIDRoutes(t *testing.T) {
	h, token := apiServer(t)

	w := apiCall(t, h, token, "POST", "/api/v1/requests", map[string]interface{}{
		"customer":        "Edinburgh Products (Pvt) Ltd",
		"sampleType":      "Wastewater",
		"testParameters":  []string{"COD", "pH"},
		"numberOfSamples": 2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create request status = %d, body = %s", w.Code, w.Body.String())
	}
	var req models.Request
	if err := json.Unmarshal(w.Body.Bytes(), &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}

	w = apiCall(t, h, token, "GET", "/api/v1/requests/confirmed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /requests/confirmed status = %d, body = %s", w.Code, w.Body.String())
	}

	w = apiCall(t, h, token, "PATCH", "/api/v1/requests/"+req.RequestID+"/status",
		map[string]interface{}{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm request status = %d, body = %s", w.Code, w.Body.String())
	}

	w = apiCall(t, h, token, "GET", "/api/v1/requests/confirmed", nil)
	var confirmed []models.Request
	if err := json.Unmarshal(w.Body.Bytes(), &confirmed); err != nil {
		t.Fatalf("decode confirmed: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].RequestID != req.RequestID {
		t.Errorf("confirmed = %+v, want the one confirmed request", confirmed)
	}

	w = apiCall(t, h, token, "GET", "/api/v1/requests/status/confirmed", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /requests/status/confirmed status = %d", w.Code)
	}
	var byStatus []models.Request
	if err := json.Unmarshal(w.Body.Bytes(), &byStatus); err != nil {
		t.Fatalf("decode by status: %v", err)
	}
	if len(byStatus) != 1 {
		t.Errorf("requests with status confirmed = %d, want 1", len(byStatus))
	}
}

func TestCRFFilterResultAndSamplingPaths(t *testing.T) {
	h, token := apiServer(t)

	w := apiCall(t, h, token, "POST", "/api/v1/crfs", map[string]interface{}{
		"crfType":         "CS",
		"customer":        "Edinburgh Products (Pvt) Ltd",
		"sampleType":      "Wastewater",
		"testParameters":  []string{"COD", "pH"},
		"numberOfSamples": 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create crf status = %d, body = %s", w.Code, w.Body.String())
	}
	var crf models.CRF
	if err := json.Unmarshal(w.Body.Bytes(), &crf); err != nil {
		t.Fatalf("decode crf: %v", err)
	}

	w = apiCall(t, h, token, "GET", "/api/v1/crfs/status/draft", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /crfs/status/draft status = %d", w.Code)
	}
	var drafts []models.CRF
	if err := json.Unmarshal(w.Body.Bytes(), &drafts); err != nil {
		t.Fatalf("decode drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].CRFID != crf.CRFID {
		t.Errorf("draft crfs = %+v, want the created one", drafts)
	}

	w = apiCall(t, h, token, "GET", "/api/v1/crfs/customer/edinburgh", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /crfs/customer status = %d", w.Code)
	}
	var byCustomer []models.CRF
	if err := json.Unmarshal(w.Body.Bytes(), &byCustomer); err != nil {
		t.Fatalf("decode by customer: %v", err)
	}
	if len(byCustomer) != 1 {
		t.Errorf("crfs for customer = %d, want 1", len(byCustomer))
	}

	// Results are submitted with PUT: one result per triple.
	dashed := strings.ReplaceAll(crf.CRFID, "/", "-")
	w = apiCall(t, h, token, "PUT", "/api/v1/crfs/"+dashed+"/results", map[string]interface{}{
		"sampleId":  crf.Samples[0].SampleID,
		"parameter": "COD",
		"testValue": "210",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT results status = %d, body = %s", w.Code, w.Body.String())
	}

	w = apiCall(t, h, token, "GET", "/api/v1/parameters/sample-type/Wastewater", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /parameters/sample-type status = %d", w.Code)
	}

	// Sampling lives under its CRF; an unknown id reaches the handler
	// and reports the missing CRF rather than an unmatched route.
	w = apiCall(t, h, token, "GET", "/api/v1/crfs/XX-99-999/sampling", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "XX/99/999") {
		t.Errorf("GET sampling of unknown crf = %d %q, want store not-found", w.Code, w.Body.String())
	}

	w = apiCall(t, h, token, "GET", "/api/v1/export/sample-register", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /export/sample-register status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheet") {
		t.Errorf("export content type = %q", ct)
	}
}
