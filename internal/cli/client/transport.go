package client

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

// bearerTransport attaches the access token and a request id to every
// outgoing request
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())

	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			r.Header.Set(headerAuthorization, bearerPrefix+token)
		}
	}

	if r.Header.Get(headerRequestID) == "" {
		id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
		r.Header.Set(headerRequestID, id.String())
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
