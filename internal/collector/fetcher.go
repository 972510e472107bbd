package collector

import (
	"context"
	"fmt"
	"strconv"

	"NAVigator/internal/model"
)

// Fetcher defines the interface for fetching scheme data from a NAV source.
type Fetcher interface {
	FetchSchemes(ctx context.Context) ([]model.Scheme, error)
	FetchLatestNAV(ctx context.Context, code int) (*model.SchemeDetails, error)
	FetchHistoricalNAV(ctx context.Context, code int) (*model.SchemeDetails, error)
	Name() string
}

// RequestKind identifies one of the logical data-source requests.
type RequestKind string

const (
	KindSchemes RequestKind = "schemes"
	KindLatest  RequestKind = "latest"
	KindHistory RequestKind = "history"
)

// Request is the logical identity of a fetch. Its Key is the cache key.
type Request struct {
	Kind       RequestKind
	SchemeCode int
}

func SchemesRequest() Request            { return Request{Kind: KindSchemes} }
func LatestRequest(code int) Request     { return Request{Kind: KindLatest, SchemeCode: code} }
func HistoricalRequest(code int) Request { return Request{Kind: KindHistory, SchemeCode: code} }

// Key renders the request as "schemes", "scheme/{code}/latest" or "scheme/{code}".
func (r Request) Key() string {
	switch r.Kind {
	case KindSchemes:
		return "schemes"
	case KindLatest:
		return "scheme/" + strconv.Itoa(r.SchemeCode) + "/latest"
	default:
		return "scheme/" + strconv.Itoa(r.SchemeCode)
	}
}

// FetchError reports a failed remote call. StatusCode is 0 for transport
// and decode failures.
type FetchError struct {
	Request    Request
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Request.Key(), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Request.Key(), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
