// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handler groups of the admin console.
// Each group holds its dependencies and registers methods on the router.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"fastadmin/internal/platform"
	"fastadmin/internal/render"
	"fastadmin/internal/session"
)

// flashes pops the session's queued flash messages and converts them into
// the renderer's representation.
func flashes(sessions *session.Store, r *http.Request) []render.Flash {
	queued := sessions.PopFlashes(r.Context(), r)
	if len(queued) == 0 {
		return nil
	}
	out := make([]render.Flash, 0, len(queued))
	for _, f := range queued {
		out = append(out, render.Flash{Type: f.Kind, Message: f.Message})
	}
	return out
}

// redirect sends the browser to target. HTMX requests get an HX-Redirect
// header so the client performs a full-page navigation instead of swapping
// the fragment.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// upstreamError deals with a failed platform API call. A 401 means the
// bearer token is no longer accepted, so the session is destroyed and the
// operator lands back on the login page. Everything else becomes an error
// flash and a redirect to backTo.
func upstreamError(w http.ResponseWriter, r *http.Request, sessions *session.Store, err error, fallback, backTo string) {
	if platform.IsUnauthorized(err) {
		slog.Warn("platform token rejected, forcing logout")
		sessions.Destroy(r.Context(), w, r)
		redirect(w, r, "/login?expired=1")
		return
	}

	slog.Error("platform call failed", "error", err)
	sessions.AddFlash(r.Context(), r, "error", platform.ErrorMessage(err, fallback))
	redirect(w, r, backTo)
}

// matchesFilter reports whether any of the fields contains q,
// case-insensitively. An empty q matches everything.
func matchesFilter(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
