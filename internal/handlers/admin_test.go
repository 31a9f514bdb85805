// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fastadmin/internal/session"
)

// fakeUsersAPI serves a fixed user list and records mutations.
type fakeUsersAPI struct {
	listCalls   int
	deleteCalls int
	failDelete  bool
}

func (f *fakeUsersAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-test" {
			http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/users":
			f.listCalls++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":"u1","email":"alice@customer.test","role":"USER"},
				{"id":"u2","email":"bob@customer.test","role":"USER"},
				{"id":"u3","email":"root@platform.test","role":"SUPER_ADMIN"}
			]`))
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/users/"):
			f.deleteCalls++
			if f.failDelete {
				http.Error(w, `{"message":"User has active subscriptions"}`, http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
		}
	})
}

func TestUsersFilterIsNonDestructive(t *testing.T) {
	fake := &fakeUsersAPI{}
	env := newTestEnv(t, fake.handler())
	sess := testSession("tok-test")

	get := func(q string) string {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/dashboard/users?q="+q, nil)
		r = r.WithContext(ctxWithSession(r.Context(), sess))
		env.Admin.Users(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("q=%q: got %d, want 200", q, w.Code)
		}
		return w.Body.String()
	}

	// Case-insensitive substring over email and role.
	body := get("ALICE")
	if !strings.Contains(body, "alice@customer.test") {
		t.Error("filter should match case-insensitively")
	}
	if strings.Contains(body, "bob@customer.test") {
		t.Error("filter should exclude non-matching users")
	}

	body = get("super_admin")
	if !strings.Contains(body, "root@platform.test") {
		t.Error("filter should match the role field")
	}

	// Clearing the filter restores the full list — nothing was deleted.
	body = get("")
	for _, email := range []string{"alice@customer.test", "bob@customer.test", "root@platform.test"} {
		if !strings.Contains(body, email) {
			t.Errorf("full list should contain %s after filtering", email)
		}
	}
	if fake.deleteCalls != 0 {
		t.Errorf("filtering caused %d delete calls upstream", fake.deleteCalls)
	}

	// The list was served from cache after the first fetch.
	if fake.listCalls != 1 {
		t.Errorf("list fetched %d times, want 1 (cached)", fake.listCalls)
	}
}

func TestDeleteUserInvalidatesCacheAndAudits(t *testing.T) {
	fake := &fakeUsersAPI{}
	env := newTestEnv(t, fake.handler())
	cleanAuditLog(t, env.DB)
	t.Cleanup(func() { cleanAuditLog(t, env.DB) })

	ctx := context.Background()
	sess := testSession("tok-test")

	// Prime the cache entries a user delete must stale.
	env.Valkey.Set(ctx, "query:users", `[]`, 0)
	env.Valkey.Set(ctx, "query:stats", `{}`, 0)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/dashboard/users/u2", nil)
	r = withSessionAndParams(r, sess, "id", "u2")
	env.Admin.DeleteUser(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if fake.deleteCalls != 1 {
		t.Fatalf("delete calls: got %d, want 1", fake.deleteCalls)
	}

	for _, key := range []string{"query:users", "query:stats"} {
		if exists, _ := env.Valkey.Exists(ctx, key).Result(); exists != 0 {
			t.Errorf("%s should be invalidated after a user delete", key)
		}
	}

	var count int
	err := env.DB.QueryRow(
		"SELECT COUNT(*) FROM audit_log WHERE admin_email = $1 AND action = $2 AND entity_id = $3",
		"operator@console.test", "user_delete", "u2",
	).Scan(&count)
	if err != nil {
		t.Fatalf("audit query: %v", err)
	}
	if count != 1 {
		t.Errorf("audit rows: got %d, want 1", count)
	}
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	fake := &fakeUsersAPI{failDelete: true}
	env := newTestEnv(t, fake.handler())
	cleanAuditLog(t, env.DB)

	ctx := context.Background()
	sess := testSession("tok-test")

	env.Valkey.Set(ctx, "query:users", `[{"id":"u2"}]`, 0)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/dashboard/users/u2", nil)
	r = withSessionAndParams(r, sess, "id", "u2")
	env.Admin.DeleteUser(w, r)

	// The handler redirects back with an error flash.
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	// Cached reads stay valid: the mutation failed, nothing changed upstream.
	val, err := env.Valkey.Get(ctx, "query:users").Result()
	if err != nil {
		t.Fatalf("cache entry gone after failed mutation: %v", err)
	}
	if val != `[{"id":"u2"}]` {
		t.Errorf("cache entry changed after failed mutation: %s", val)
	}

	// And no audit entry is written for a mutation that did not happen.
	var count int
	env.DB.QueryRow(
		"SELECT COUNT(*) FROM audit_log WHERE admin_email = $1 AND action = $2",
		"operator@console.test", "user_delete",
	).Scan(&count)
	if count != 0 {
		t.Errorf("audit rows after failed delete: got %d, want 0", count)
	}
}

func TestUnknownRoleRejectedLocally(t *testing.T) {
	fake := &fakeUsersAPI{}
	env := newTestEnv(t, fake.handler())
	sess := testSession("tok-test")

	form := strings.NewReader("role=SUPERUSER")
	r := httptest.NewRequest(http.MethodPost, "/dashboard/users/u1/role", form)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r = withSessionAndParams(r, sess, "id", "u1")

	w := httptest.NewRecorder()
	env.Admin.UpdateUserRole(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	// The bogus role never reaches the platform.
	if fake.listCalls+fake.deleteCalls != 0 {
		t.Error("unexpected upstream call for an invalid role")
	}
}

func TestExpiredTokenForcesLogout(t *testing.T) {
	// Every platform call 401s: the token was revoked upstream.
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
	})
	env := newTestEnv(t, api)
	ctx := context.Background()

	// A real stored session that the 401 must destroy.
	sess := testSession("tok-revoked")
	createW := httptest.NewRecorder()
	id, err := env.Sessions.Create(ctx, createW, sess)
	if err != nil {
		t.Fatalf("session create: %v", err)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard/domains", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	r = r.WithContext(ctxWithSession(r.Context(), sess))
	env.Admin.Domains(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login?expired=1" {
		t.Errorf("redirect: got %q, want /login?expired=1", loc)
	}
	if exists, _ := env.Valkey.Exists(ctx, "session:"+id).Result(); exists != 0 {
		t.Error("session should be destroyed after an upstream 401")
	}
}

func TestApproveAdsTargetsSingleWebsite(t *testing.T) {
	var gotPath string
	var gotBody map[string]bool
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/approve-ads") {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	})
	env := newTestEnv(t, api)
	cleanAuditLog(t, env.DB)
	t.Cleanup(func() { cleanAuditLog(t, env.DB) })

	sess := testSession("tok-test")
	r := httptest.NewRequest(http.MethodPut, "/dashboard/websites/w7/approve-ads?approved=true", nil)
	r = withSessionAndParams(r, sess, "id", "w7")

	w := httptest.NewRecorder()
	env.Admin.ApproveAds(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if gotPath != "/admin/websites/w7/approve-ads" {
		t.Errorf("path: got %q, want /admin/websites/w7/approve-ads", gotPath)
	}
	if !gotBody["approved"] {
		t.Error("payload should carry approved=true")
	}
}

func TestHTMXMutationGetsHXRedirect(t *testing.T) {
	fake := &fakeUsersAPI{}
	env := newTestEnv(t, fake.handler())
	cleanAuditLog(t, env.DB)
	t.Cleanup(func() { cleanAuditLog(t, env.DB) })

	sess := testSession("tok-test")
	r := httptest.NewRequest(http.MethodDelete, "/dashboard/users/u1", nil)
	r.Header.Set("HX-Request", "true")
	r = withSessionAndParams(r, sess, "id", "u1")

	w := httptest.NewRecorder()
	env.Admin.DeleteUser(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("HTMX mutation: got %d, want 200", w.Code)
	}
	if loc := w.Header().Get("HX-Redirect"); loc != "/dashboard/users" {
		t.Errorf("HX-Redirect: got %q, want /dashboard/users", loc)
	}
}
