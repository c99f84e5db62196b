// Package httpclient provides a sandboxed HTTP client collaborator:
// a thin wrapper over net/http that refuses any request whose host
// does not match a configured allow-list pattern. It exists so that
// an embedding host can opt a running script into network access
// without granting it unrestricted egress.
package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Response is the result of a Do call, trimmed to what a shell
// builtin needs to expose to a script.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Doer is the interface a sandbox's "http"/"curl"-style builtin
// consumes. *Client below satisfies it, and with it
// interp.State.HTTPClient (via interp.HTTPDoer's plain-typed method
// signature); that field is left nil by default, so network access is
// opt-in.
type Doer interface {
	Do(method, url string, headers map[string]string, body []byte) (status int, respHeaders map[string]string, respBody []byte, err error)
}

// DeniedError reports that a request was blocked by the allow-list.
type DeniedError struct {
	Host string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("httpclient: host %q is not in the allow-list", e.Host)
}

// AllowList is an ordered set of host glob patterns (as matched by
// doublestar, e.g. "*.example.com", "api.github.com", "localhost:*").
// A request is permitted only if its host matches at least one
// pattern; patterns are tried in order and the first match wins, so
// a narrower deny can precede a broader allow by using "!" negation.
type AllowList []string

// Allows reports whether host passes the allow-list. An empty list
// allows nothing — a Client is opt-in by construction, not
// opt-out-by-omission.
func (al AllowList) Allows(host string) bool {
	for _, pat := range al {
		negate := strings.HasPrefix(pat, "!")
		p := strings.TrimPrefix(pat, "!")
		ok, err := doublestar.Match(p, host)
		if err != nil {
			continue
		}
		if ok {
			return !negate
		}
	}
	return false
}

// Config configures a sandboxed Client.
type Config struct {
	Allow   AllowList
	Timeout time.Duration
}

// New builds a Client enforcing cfg's allow-list over a standard
// net/http.Client with cfg.Timeout (defaulting to 10s).
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		allow: cfg.Allow,
		hc:    &http.Client{Timeout: timeout},
	}
}

// Client is the concrete, allow-list-enforcing implementation of the
// Doer interface.
type Client struct {
	allow AllowList
	hc    *http.Client
}

// Do issues method against rawURL, rejecting it up front with a
// *DeniedError if the target host fails the allow-list check. It
// returns plain types rather than Response so *Client satisfies
// interp.HTTPDoer without interp needing to import this package.
func (c *Client) Do(method, rawURL string, headers map[string]string, body []byte) (status int, respHeaders map[string]string, respBody []byte, err error) {
	resp, err := c.fetch(method, rawURL, headers, body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.Status, resp.Headers, resp.Body, nil
}

// Fetch is the struct-returning equivalent of Do, for callers within
// this module that prefer a Response value over four return values.
func (c *Client) Fetch(method, rawURL string, headers map[string]string, body []byte) (Response, error) {
	return c.fetch(method, rawURL, headers, body)
}

func (c *Client) fetch(method, rawURL string, headers map[string]string, body []byte) (Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: %w", err)
	}
	if !c.allow.Allows(u.Host) {
		return Response{}, &DeniedError{Host: u.Host}
	}
	req, err := http.NewRequest(method, rawURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: reading response: %w", err)
	}
	hdrs := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		hdrs[k] = resp.Header.Get(k)
	}
	return Response{Status: resp.StatusCode, Headers: hdrs, Body: data}, nil
}
