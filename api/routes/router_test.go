package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/internal/session"
	"github.com/tanvicrafts/storefront-backend/pkg/config"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSource struct {
	products map[string]catalog.Product
}

func (s stubSource) List(ctx context.Context, params catalog.ListParams) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s stubSource) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type recordingSink struct {
	mu       sync.Mutex
	payloads []enquiry.Payload
}

func (s *recordingSink) Submit(ctx context.Context, payload enquiry.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *recordingSink) calls() []enquiry.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]enquiry.Payload(nil), s.payloads...)
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "dev", Port: "0"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T, sink enquiry.Sink) http.Handler {
	t.Helper()

	source := stubSource{products: map[string]catalog.Product{
		"throw-1": {
			ID:    "throw-1",
			Name:  "Handloom Throw",
			Price: 120,
			Unit:  "piece",
			Variants: []catalog.Variant{
				{ID: "v0", Color: "Indigo", Quantity: 4},
			},
		},
	}}

	registry, err := session.NewRegistry(session.RegistryParams{
		Storage:       kv.NewMemory(),
		Sink:          sink,
		Products:      source,
		TTL:           time.Hour,
		SweepInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(registry.Close)

	return NewRouter(testConfig(), nil, stubPinger{}, source, stubPinger{}, registry, sink, nil)
}

func doJSON(t *testing.T, h http.Handler, method, target, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope.Data
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})

	if w := doJSON(t, router, http.MethodGet, "/health/live", "", ""); w.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodGet, "/health/ready", "", ""); w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
}

func TestSessionHeaderIsMintedWhenMissing(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/cart", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected a minted session id header")
	}
}

func TestCartFlowThroughRouter(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})
	sid := "router-cart-session"

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", sid,
		`{"product_id":"throw-1","quantity":2,"variant_index":0}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := decodeData(t, doJSON(t, router, http.MethodGet, "/api/v1/cart", sid, ""))
	if count, _ := data["item_count"].(float64); count != 2 {
		t.Fatalf("expected item_count 2, got %v", data["item_count"])
	}
	if total, _ := data["total"].(string); total != "240.00" {
		t.Fatalf("expected total 240.00, got %v", data["total"])
	}

	lines, _ := data["lines"].([]any)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %v", data["lines"])
	}
	line := lines[0].(map[string]any)
	if line["id"] != "throw-1:0" {
		t.Fatalf("expected composite line id, got %v", line["id"])
	}
	if line["color"] != "Indigo" {
		t.Fatalf("expected variant color, got %v", line["color"])
	}

	w = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/throw-1:0", sid, `{"quantity":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = decodeData(t, w)
	if count, _ := data["item_count"].(float64); count != 5 {
		t.Fatalf("expected item_count 5 after update, got %v", data["item_count"])
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/cart", sid, "")
	data = decodeData(t, w)
	if count, _ := data["item_count"].(float64); count != 0 {
		t.Fatalf("expected empty cart after clear, got %v", data["item_count"])
	}
}

func TestUnknownProductAnswers404(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})
	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", "s404",
		`{"product_id":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBuyNowOpensEnquiry(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})
	sid := "router-buynow-session"

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", sid,
		`{"product_id":"throw-1","quantity":3,"buy_now":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeData(t, w)
	if open, _ := data["enquiry_open"].(bool); !open {
		t.Fatal("buy_now must open the enquiry form")
	}

	data = decodeData(t, doJSON(t, router, http.MethodGet, "/api/v1/enquiries", sid, ""))
	if open, _ := data["open"].(bool); !open {
		t.Fatal("enquiry must be open for the session")
	}
	draft, _ := data["draft"].(map[string]any)
	if qty, _ := draft["quantity"].(float64); qty != 3 {
		t.Fatalf("expected default quantity 3 from the cart line, got %v", draft["quantity"])
	}
}

func TestEnquirySubmitThroughRouter(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	router := newTestRouter(t, sink)
	sid := "router-enquiry-session"

	w := doJSON(t, router, http.MethodPost, "/api/v1/enquiries/open", sid,
		`{"product_id":"throw-1","quantity":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("open: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/enquiries", sid,
		`{"name":"Asha","email":"asha@example.com","phone":"+919998042577","location":"Mumbai","quantity":2,"purchase_type":"personal"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	calls := sink.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one collector call, got %d", len(calls))
	}
	if calls[0].ProductID != "throw-1" || calls[0].Quantity != 2 {
		t.Fatalf("unexpected payload %+v", calls[0])
	}
}

func TestEnquiryValidationErrorsThroughRouter(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})
	sid := "router-invalid-session"

	doJSON(t, router, http.MethodPost, "/api/v1/enquiries/open", sid,
		`{"product_id":"throw-1"}`)

	w := doJSON(t, router, http.MethodPost, "/api/v1/enquiries", sid,
		`{"purchase_type":"wholesale","quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	for _, field := range []string{"name", "email", "phone", "location", "company_name"} {
		if _, ok := envelope.Error.Details[field]; !ok {
			t.Fatalf("expected %s in details, got %v", field, envelope.Error.Details)
		}
	}
}

func TestWorkshopRegistrationThroughRouter(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	router := newTestRouter(t, sink)

	w := doJSON(t, router, http.MethodPost, "/api/v1/workshops/registrations", "router-workshop",
		`{"workshop_id":"w1","workshop_name":"Natural Dyeing","attendees":2,"name":"Asha","email":"asha@example.com","phone":"+919998042577","location":"Mumbai"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	calls := sink.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one collector call, got %d", len(calls))
	}
	if calls[0].Kind != enquiry.KindWorkshopRegistration || calls[0].WorkshopID != "w1" {
		t.Fatalf("unexpected payload %+v", calls[0])
	}
}

func TestToastsAccumulateAndDismiss(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &recordingSink{})
	sid := "router-toast-session"

	// Adding to the cart pushes a success toast.
	doJSON(t, router, http.MethodPost, "/api/v1/cart/items", sid, `{"product_id":"throw-1"}`)

	w := doJSON(t, router, http.MethodGet, "/api/v1/toasts", sid, "")
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode toasts: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected one toast, got %v", envelope.Data)
	}

	id, _ := envelope.Data[0]["id"].(string)
	w = doJSON(t, router, http.MethodDelete, "/api/v1/toasts/"+id, sid, "")
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode toasts after dismiss: %v", err)
	}
	if len(envelope.Data) != 0 {
		t.Fatalf("expected empty queue after dismiss, got %v", envelope.Data)
	}
}
