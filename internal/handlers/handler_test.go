// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. The platform API is faked with httptest servers;
// tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"fastadmin/internal/database"
	"fastadmin/internal/middleware"
	"fastadmin/internal/platform"
	"fastadmin/internal/query"
	"fastadmin/internal/render"
	"fastadmin/internal/session"
	"fastadmin/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "fastadmin")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "fastadmin")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session, flash and cache keys.
		for _, pattern := range []string{"session:*", "flash:*", "query:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// newFakePlatform starts an httptest server standing in for the platform
// API. A nil handler yields a server that 500s on every call.
func newFakePlatform(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	if handler == nil {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"unexpected call"}`, http.StatusInternalServerError)
		})
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Renderer   *render.Renderer
	Sessions   *session.Store
	Cache      *query.Cache
	API        *platform.Client
	AdminStore *store.AdminStore
	AuditStore *store.AuditStore
	Auth       *Auth
	Admin      *Admin
	Prompts    *Prompts
	Storage    *Storage
}

// newTestEnv creates a complete test environment. platformHandler fakes the
// upstream API; its server is torn down with the test.
func newTestEnv(t *testing.T, platformHandler http.Handler) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	srv := newFakePlatform(t, platformHandler)

	sessions := session.NewStore(vk, false)
	cache := query.NewCache(vk, 1*time.Minute)
	api := platform.New(srv.URL)
	adminStore := store.NewAdminStore(db)
	auditStore := store.NewAuditStore(db)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Renderer:   renderer,
		Sessions:   sessions,
		Cache:      cache,
		API:        api,
		AdminStore: adminStore,
		AuditStore: auditStore,
		Auth:       NewAuth(renderer, sessions, adminStore, api, cache),
		Admin:      NewAdmin(renderer, sessions, api, cache, auditStore),
		Prompts:    NewPrompts(renderer, sessions, api, cache, auditStore),
		Storage:    NewStorage(renderer, sessions, api, cache, auditStore),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates session data for an authenticated operator.
func testSession(token string) *session.Data {
	return &session.Data{
		AdminID:    uuid.New(),
		PlatformID: "platform-admin-1",
		Email:      "operator@console.test",
		Role:       "SUPER_ADMIN",
		Token:      token,
		TwoFADone:  true,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSessionAndParams decorates a request with a session and chi URL
// parameters (given as alternating key, value pairs).
func withSessionAndParams(r *http.Request, sess *session.Data, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// cleanAuditLog removes audit entries written by handler tests.
func cleanAuditLog(t *testing.T, db *sql.DB) {
	t.Helper()
	db.Exec("DELETE FROM audit_log WHERE admin_email = $1", "operator@console.test")
}

// cleanConsoleAdmins removes console_admins rows created by handler tests.
func cleanConsoleAdmins(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM console_admins WHERE email = $1", email)
	}
}
