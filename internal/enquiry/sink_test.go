package enquiry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tanvicrafts/storefront-backend/pkg/config"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
)

func newSinkForURL(t *testing.T, url string) *HTTPSink {
	t.Helper()

	sink, err := NewHTTPSink(config.EnquiryConfig{
		CollectorURL: url,
		Timeout:      2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sink
}

func TestHTTPSinkPostsPayload(t *testing.T) {
	t.Parallel()

	var received Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := newSinkForURL(t, srv.URL)
	err := sink.Submit(context.Background(), Payload{
		Kind:  KindProductEnquiry,
		Name:  "Asha",
		Email: "asha@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.Name != "Asha" || received.Kind != KindProductEnquiry {
		t.Fatalf("collector saw %+v", received)
	}
}

func TestHTTPSinkRejectsNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sink := newSinkForURL(t, srv.URL)
	err := sink.Submit(context.Background(), Payload{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSubmission {
		t.Fatalf("expected submission error, got %v", err)
	}
}

func TestHTTPSinkRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPSink(config.EnquiryConfig{}, nil); err == nil {
		t.Fatal("expected an error for a missing collector url")
	}
}
