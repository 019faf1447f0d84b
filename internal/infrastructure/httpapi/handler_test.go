package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"macromanager/internal/domain"
	"macromanager/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDB struct {
	foods     map[string][]domain.FoodCandidate
	panels    map[int64][]domain.NutrientEntry
	searchErr error
	calls     int
}

func (s *stubDB) SearchFood(_ context.Context, _ string, name string) ([]domain.FoodCandidate, error) {
	s.calls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if res, ok := s.foods[name]; ok {
		return res, nil
	}
	return []domain.FoodCandidate{}, nil
}

func (s *stubDB) FetchPanels(_ context.Context, _ string, ids []int64) ([][]domain.NutrientEntry, error) {
	s.calls++
	out := make([][]domain.NutrientEntry, len(ids))
	for i, id := range ids {
		out[i] = s.panels[id]
	}
	return out, nil
}

type stubQuota struct{}

func (stubQuota) Snapshot() domain.Quota { return domain.Quota{Limit: "1000", Remaining: "996"} }

func newTestRouter(db *stubDB, key string) *gin.Engine {
	client := usecase.NewNutritionClient(db, stubQuota{}, nil)
	client.Configure(key)
	return NewRouter(NewHandler(client, nil))
}

func defaultStub() *stubDB {
	return &stubDB{
		foods: map[string][]domain.FoodCandidate{
			"avocado": {{DisplayName: "Avocado, raw", FDCID: 171705}, {DisplayName: "Avocado, NFS", FDCID: 2346395}},
		},
		panels: map[int64][]domain.NutrientEntry{
			171705: {{Name: "Protein", Amount: 2, Unit: "g"}},
			1:      {{Name: "Energy", Amount: 100, Unit: "kcal"}},
			2:      {{Name: "Energy", Amount: 100, Unit: "kcal"}},
			3:      {{Name: "Energy", Amount: 400, Unit: "kJ"}},
		},
	}
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not json: %v (%q)", err, rec.Body.String())
	}
	return rec, decoded
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(defaultStub(), "k"), http.MethodGet, "/api/foods/search?query=avocado", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	foods := body["foods"].([]any)
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %v", foods)
	}
	first := foods[0].(map[string]any)
	if first["description"] != "Avocado, raw" || first["fdcId"].(float64) != 171705 {
		t.Fatalf("unexpected first food: %v", first)
	}
}

func TestSearchEndpointNoMatches(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(defaultStub(), "k"), http.MethodGet, "/api/foods/search?query=qwxzzy", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if foods, ok := body["foods"].([]any); !ok || len(foods) != 0 {
		t.Fatalf("expected empty foods array, got %v", body["foods"])
	}
}

func TestSearchEndpointErrors(t *testing.T) {
	t.Parallel()

	rec, _ := do(t, newTestRouter(defaultStub(), "k"), http.MethodGet, "/api/foods/search?query=", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty query: unexpected status %d", rec.Code)
	}

	stub := defaultStub()
	rec, _ = do(t, newTestRouter(stub, ""), http.MethodGet, "/api/foods/search?query=avocado", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no key: unexpected status %d", rec.Code)
	}
	if stub.calls != 0 {
		t.Fatalf("no key must not reach upstream")
	}

	stub = defaultStub()
	stub.searchErr = &domain.UpstreamError{StatusCode: 429, Message: "OVER_RATE_LIMIT"}
	rec, body := do(t, newTestRouter(stub, "k"), http.MethodGet, "/api/foods/search?query=avocado", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("upstream failure: unexpected status %d", rec.Code)
	}
	if body["upstreamStatus"].(float64) != 429 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestUnclassifiedErrorsAreNotEchoed(t *testing.T) {
	t.Parallel()

	stub := defaultStub()
	stub.searchErr = fmt.Errorf("do request: %w", errors.New("dial https://fdc.invalid/?api_key=SECRET-KEY-123"))
	rec, body := do(t, newTestRouter(stub, "SECRET-KEY-123"), http.MethodGet, "/api/foods/search?query=avocado", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if body["error"] != "internal error" || strings.Contains(rec.Body.String(), "SECRET-KEY-123") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	stub = defaultStub()
	stub.searchErr = context.DeadlineExceeded
	rec, _ = do(t, newTestRouter(stub, "k"), http.MethodGet, "/api/foods/search?query=avocado", "")
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("timeout: unexpected status %d", rec.Code)
	}
}

func TestProfileEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(defaultStub(), "k")
	rec, body := do(t, router, http.MethodPost, "/api/profile", `{"selections":[{"fdcId":171705,"amountGrams":150}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %v", rec.Code, body)
	}

	nutrients := body["nutrients"].([]any)
	protein := nutrients[0].(map[string]any)
	if protein["name"] != "Protein" || protein["unit"] != "g" || protein["amount"].(float64) != 3 {
		t.Fatalf("unexpected nutrient: %v", protein)
	}
	quota := body["quota"].(map[string]any)
	if quota["remaining"] != "996" {
		t.Fatalf("unexpected quota: %v", quota)
	}
}

func TestProfileEndpointDefaultsAmount(t *testing.T) {
	t.Parallel()

	rec, body := do(t, newTestRouter(defaultStub(), "k"), http.MethodPost, "/api/profile",
		`{"selections":[{"fdcId":1},{"fdcId":2,"amountGrams":200}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %v", rec.Code, body)
	}
	energy := body["nutrients"].([]any)[0].(map[string]any)
	if energy["amount"].(float64) != 300 {
		t.Fatalf("unexpected energy: %v", energy)
	}
}

func TestProfileEndpointErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{"selections":`, http.StatusBadRequest},
		{"no selections", `{"selections":[]}`, http.StatusBadRequest},
		{"zero amount", `{"selections":[{"fdcId":1,"amountGrams":0}]}`, http.StatusBadRequest},
		{"unit mismatch", `{"selections":[{"fdcId":1},{"fdcId":3}]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec, _ := do(t, newTestRouter(defaultStub(), "k"), http.MethodPost, "/api/profile", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: status %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestQuotaAndHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(defaultStub(), "")
	rec, body := do(t, router, http.MethodGet, "/api/quota", "")
	if rec.Code != http.StatusOK || body["limit"] != "1000" || body["remaining"] != "996" {
		t.Fatalf("unexpected quota response: %d %v", rec.Code, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	hrec := httptest.NewRecorder()
	router.ServeHTTP(hrec, req)
	if hrec.Code != http.StatusOK || hrec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("unexpected health response: %d %q", hrec.Code, hrec.Header().Get("X-Request-ID"))
	}
	if !strings.Contains(hrec.Body.String(), `"configured":false`) {
		t.Fatalf("unexpected health body: %s", hrec.Body.String())
	}
}
