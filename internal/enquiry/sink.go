package enquiry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tanvicrafts/storefront-backend/pkg/config"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

// HTTPSink posts enquiry payloads to the collector endpoint. Any 2xx answer
// counts as accepted; the exact response body is irrelevant.
type HTTPSink struct {
	url  string
	http *http.Client
	logg *logger.Logger
}

// NewHTTPSink builds the collector client from config.
func NewHTTPSink(cfg config.EnquiryConfig, logg *logger.Logger) (*HTTPSink, error) {
	url := strings.TrimSpace(cfg.CollectorURL)
	if url == "" {
		return nil, fmt.Errorf("enquiry collector url required")
	}
	return &HTTPSink{
		url:  url,
		http: &http.Client{Timeout: cfg.Timeout},
		logg: logg,
	}, nil
}

func (s *HTTPSink) Submit(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode enquiry payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build collector request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSubmission, err, "call enquiry collector")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pkgerrors.New(pkgerrors.CodeSubmission, fmt.Sprintf("collector returned status %d", resp.StatusCode))
	}
	return nil
}
