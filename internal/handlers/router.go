package handlers

import (
	"net/http"
	"strings"
)

// SessionRouter dispatches /v1/sessions/{id}/... paths to the right
// handler by their trailing segment.
type SessionRouter struct {
	Sessions http.Handler
	Commands http.Handler
	Events   http.Handler
}

func (sr *SessionRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/commands"), strings.HasSuffix(r.URL.Path, "/tick"):
		sr.Commands.ServeHTTP(w, r)
	case strings.HasSuffix(r.URL.Path, "/events"):
		sr.Events.ServeHTTP(w, r)
	default:
		sr.Sessions.ServeHTTP(w, r)
	}
}
