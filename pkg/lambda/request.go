package lambda

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Request is the canonical, platform-agnostic request handlers operate on.
//
// Method, Query, Cookies, Headers and Body are fixed at construction. Params
// is frozen the instant a matched sub-request is derived. The routing target
// (url/path) is the only mutable routing-relevant state; see SetURL.
type Request struct {
	Method  string
	Query   map[string]interface{}
	Params  map[string]string
	Cookies map[string]interface{}
	Headers *Headers
	Body    interface{}
	Source  EventSource
	Log     *logrus.Entry

	baseURL     string
	originalURL string
	url         string
	path        string
	parent      *Request
}

// NewRequest normalizes either event shape into the canonical model.
func NewRequest(ev *Event, log *logrus.Entry) *Request {
	headers := NewHeaders()
	if len(ev.MultiValueHeaders) > 0 {
		for name, vals := range ev.MultiValueHeaders {
			for _, v := range vals {
				headers.Add(name, v)
			}
		}
	} else {
		for name, val := range ev.Headers {
			headers.Add(name, val)
		}
	}

	req := &Request{
		Method:      strings.ToUpper(ev.Method),
		Query:       parseQuery(ev.QueryStringParameters, ev.MultiValueQueryStringParameters),
		Params:      map[string]string{},
		Cookies:     parseCookies(headers.Get("cookie")),
		Headers:     headers,
		Source:      ev.Source,
		Log:         log,
		originalURL: ev.Path,
		url:         ev.Path,
		path:        stripQuery(ev.Path),
	}
	req.Body = parseBody(ev.Body, req.Header("content-type"))
	return req
}

// URL returns the current routing target, including any query component.
func (r *Request) URL() string { return r.url }

// Path returns the url with any query component stripped.
func (r *Request) Path() string { return r.path }

// BaseURL returns the mount prefix this request was derived under. Empty for
// a top-level request.
func (r *Request) BaseURL() string { return r.baseURL }

// OriginalURL returns the url the top-level request was constructed with. It
// never changes, at any derivation depth.
func (r *Request) OriginalURL() string { return r.originalURL }

// SetURL rewrites the routing target in flight. Path is recomputed, and on a
// derived sub-request the matching suffix of every ancestor's url is
// rewritten, so a parent's url always equals its own prefix plus each
// descendant's url.
//
// A query component on the new url is deliberately not re-parsed: Query keeps
// the values parsed at construction. This mirrors the platform adapters this
// model is compatible with and is not an oversight.
func (r *Request) SetURL(u string) {
	old := r.url
	for anc := r.parent; anc != nil; anc = anc.parent {
		if strings.HasSuffix(anc.url, old) {
			anc.url = anc.url[:len(anc.url)-len(old)] + u
			anc.path = stripQuery(anc.url)
		}
	}
	r.url = u
	r.path = stripQuery(u)
}

// Header returns the last value for a header name, ignoring case. The
// referer and referrer spellings alias each other.
func (r *Request) Header(name string) string {
	if v := r.Headers.Get(name); v != "" {
		return v
	}
	switch strings.ToLower(name) {
	case "referer":
		return r.Headers.Get("referrer")
	case "referrer":
		return r.Headers.Get("referer")
	}
	return ""
}

// WithParams derives the sub-request handed to a matched route's handlers.
// The extracted params are copied and frozen; BaseURL is unchanged. Headers,
// Body, Query and Cookies are shared with the parent by reference.
func (r *Request) WithParams(params map[string]string) *Request {
	sub := r.clone()
	frozen := make(map[string]string, len(params))
	for k, v := range params {
		frozen[k] = v
	}
	sub.Params = frozen
	return sub
}

// WithBase derives the sub-request handed to a mounted sub-router. The
// prefix becomes the sub-request's additional base url and the url is
// pointed at the remaining suffix. The caller trims the trailing slash from
// the prefix before calling.
func (r *Request) WithBase(prefix string) *Request {
	sub := r.clone()
	sub.baseURL = r.baseURL + prefix
	sub.url = strings.TrimPrefix(r.url, prefix)
	if sub.url == "" {
		sub.url = "/"
	}
	sub.path = stripQuery(sub.url)
	return sub
}

// clone copies the request, linking the copy to its parent. Reference-typed
// state stays shared.
func (r *Request) clone() *Request {
	sub := *r
	sub.parent = r
	return &sub
}

// stripQuery returns the portion of a url before any query component.
func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// parseBody decodes a raw event body by content type: JSON bodies decode to
// structured values, form bodies to a value map, anything else stays a raw
// string. An empty body normalizes to nil. Bodies that fail to decode stay
// raw strings rather than failing the request.
func parseBody(body, contentType string) interface{} {
	if body == "" {
		return nil
	}
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "application/json":
		var out interface{}
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			return body
		}
		return out
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(body)
		if err != nil {
			return body
		}
		return parseQuery(nil, values)
	default:
		return body
	}
}
