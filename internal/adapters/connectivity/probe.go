// Package connectivity reports network reachability so the planner can fail
// fast while offline instead of burning provider retries.
package connectivity

import (
	"net/http"
	"time"
)

// HTTPProbe checks reachability with a HEAD request against a well-known
// endpoint, by default the directions provider itself. Any HTTP response at
// all counts as online; only transport errors count as offline.
type HTTPProbe struct {
	session *http.Client
	url     string
}

func NewHTTPProbe(url string) *HTTPProbe {
	if url == "" {
		url = "https://router.project-osrm.org"
	}
	return &HTTPProbe{
		session: &http.Client{Timeout: 3 * time.Second},
		url:     url,
	}
}

func (p *HTTPProbe) IsOnline() bool {
	req, err := http.NewRequest(http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.session.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Static is a fixed-answer probe for tests and forced-offline setups.
type Static bool

func (s Static) IsOnline() bool { return bool(s) }
