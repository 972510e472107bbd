package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NAVigator/internal/model"
)

// DefaultBaseURL is the public mfapi.in endpoint.
const DefaultBaseURL = "https://api.mfapi.in/mf"

// MfapiFetcher implements Fetcher against the mfapi.in REST API.
type MfapiFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewMfapiFetcher creates a fetcher with optional proxy support.
func NewMfapiFetcher(baseURL string, timeout time.Duration, proxyURL string) *MfapiFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MfapiFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *MfapiFetcher) Name() string { return "mfapi" }

func (f *MfapiFetcher) FetchSchemes(ctx context.Context) ([]model.Scheme, error) {
	var schemes []model.Scheme
	if err := f.getJSON(ctx, SchemesRequest(), f.BaseURL, &schemes); err != nil {
		return nil, err
	}
	return schemes, nil
}

func (f *MfapiFetcher) FetchLatestNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	var d model.SchemeDetails
	endpoint := f.BaseURL + "/" + strconv.Itoa(code) + "/latest"
	if err := f.getJSON(ctx, LatestRequest(code), endpoint, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *MfapiFetcher) FetchHistoricalNAV(ctx context.Context, code int) (*model.SchemeDetails, error) {
	var d model.SchemeDetails
	endpoint := f.BaseURL + "/" + strconv.Itoa(code)
	if err := f.getJSON(ctx, HistoricalRequest(code), endpoint, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (f *MfapiFetcher) getJSON(ctx context.Context, r Request, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Request: r, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return &FetchError{Request: r, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{
			Request:    r,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Request: r, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
