package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// authTransport decorates every request with the session token and a
// request id, and ends the session on any 401.
type authTransport struct {
	next    http.RoundTripper
	session SessionSource
	log     logging.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	r := req.Clone(ctx)
	if tok := t.session.Token(); tok != "" {
		r.Header.Set(common.AuthorizationHeader, common.BearerValue(tok))
	}
	if r.Header.Get(common.RequestIDHeader) == "" {
		r.Header.Set(common.RequestIDHeader, uuid.NewString())
	}

	resp, err := t.next.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.log.Warn(ctx, "server rejected credentials, ending session",
			"method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get(common.RequestIDHeader))
		if lerr := t.session.Logout(context.WithoutCancel(ctx)); lerr != nil {
			t.log.Error(ctx, "logout after 401 failed", "error", lerr)
		}
	}
	return resp, nil
}
