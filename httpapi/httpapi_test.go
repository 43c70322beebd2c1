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

	"github.com/readpack/readpack/model"
	"github.com/readpack/readpack/pkg/packer"
)

// stubService returns canned results; handler tests only exercise the HTTP
// surface.
type stubService struct {
	result      *packer.Result
	invocation  *model.Invocation
	invocations []*model.Invocation
	outcomes    []model.FileOutcome
	packErr     error
	lookupErr   error
}

func (s *stubService) Pack(ctx context.Context, files []packer.FileRequest, opts packer.Options) (*packer.Result, *model.Invocation, error) {
	if s.packErr != nil {
		return nil, nil, s.packErr
	}
	return s.result, s.invocation, nil
}

func (s *stubService) Invocations(limit int) ([]*model.Invocation, error) {
	return s.invocations, nil
}

func (s *stubService) Invocation(id string) (*model.Invocation, []model.FileOutcome, error) {
	if s.lookupErr != nil {
		return nil, nil, s.lookupErr
	}
	return s.invocation, s.outcomes, nil
}

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := New(&stubService{})
	w := doRequest(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPackEndpoint(t *testing.T) {
	svc := &stubService{
		result: &packer.Result{
			Text:      "@/a\n<<'ALPHA_1_ABCDEF'\nhello\nALPHA_1_ABCDEF",
			Strategy:  packer.StrategyRequestOrder,
			Processed: 1,
			Succeeded: 1,
		},
		invocation: &model.Invocation{ID: "inv-1"},
	}
	h := New(svc)

	w := doRequest(t, h, http.MethodPost, "/api/pack", `{"files":[{"path":"/a"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		InvocationID string        `json:"invocation_id"`
		Result       packer.Result `json:"result"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.InvocationID != "inv-1" {
		t.Errorf("invocation id: got %q", resp.InvocationID)
	}
	if !strings.Contains(resp.Result.Text, "@/a") {
		t.Errorf("text: got %q", resp.Result.Text)
	}
}

func TestPackEndpointValidation(t *testing.T) {
	h := New(&stubService{})

	cases := []struct {
		name string
		body string
	}{
		{"invalid JSON", "{"},
		{"no files", `{"files":[]}`},
		{"missing path", `{"files":[{"path":""}]}`},
		{"negative offset", `{"files":[{"path":"/a","offset":-1}]}`},
		{"too many files", tooManyFilesBody()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/api/pack", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func tooManyFilesBody() string {
	files := make([]string, packer.MaxFiles+1)
	for i := range files {
		files[i] = fmt.Sprintf(`{"path":"/f%d"}`, i)
	}
	return `{"files":[` + strings.Join(files, ",") + `]}`
}

func TestPackEndpointError(t *testing.T) {
	h := New(&stubService{packErr: errors.New("packer: reader exploded")})
	w := doRequest(t, h, http.MethodPost, "/api/pack", `{"files":[{"path":"/a"}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPackEndpointCancellation(t *testing.T) {
	h := New(&stubService{packErr: fmt.Errorf("canceled: %w", context.Canceled)})
	w := doRequest(t, h, http.MethodPost, "/api/pack", `{"files":[{"path":"/a"}]}`)
	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", w.Code)
	}
}

func TestListInvocationsEndpoint(t *testing.T) {
	h := New(&stubService{invocations: []*model.Invocation{{ID: "inv-1"}, {ID: "inv-2"}}})
	w := doRequest(t, h, http.MethodGet, "/api/invocations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var invs []model.Invocation
	if err := json.NewDecoder(w.Body).Decode(&invs); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(invs) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(invs))
	}
}

func TestListInvocationsBadLimit(t *testing.T) {
	h := New(&stubService{})
	w := doRequest(t, h, http.MethodGet, "/api/invocations?limit=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetInvocationEndpoint(t *testing.T) {
	h := New(&stubService{
		invocation: &model.Invocation{ID: "inv-1", Strategy: "request-order"},
		outcomes:   []model.FileOutcome{{Path: "/a", Inclusion: "full"}},
	})
	w := doRequest(t, h, http.MethodGet, "/api/invocations/inv-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Invocation model.Invocation    `json:"invocation"`
		Files      []model.FileOutcome `json:"files"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Invocation.ID != "inv-1" || len(resp.Files) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGetInvocationMissing(t *testing.T) {
	h := New(&stubService{lookupErr: errors.New("not found")})
	w := doRequest(t, h, http.MethodGet, "/api/invocations/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
