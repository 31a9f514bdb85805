// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fastadmin/internal/middleware"
	"fastadmin/internal/models"
	"fastadmin/internal/platform"
	"fastadmin/internal/query"
	"fastadmin/internal/render"
	"fastadmin/internal/session"
	"fastadmin/internal/store"
)

// Storage serves the content-storage drill-down and the provider toggle.
// The aggregates shown here are computed by the platform; the console never
// recounts anything.
type Storage struct {
	renderer *render.Renderer
	sessions *session.Store
	api      *platform.Client
	cache    *query.Cache
	audit    *store.AuditStore
}

// NewStorage creates a new Storage handler group.
func NewStorage(renderer *render.Renderer, sessions *session.Store, api *platform.Client, cache *query.Cache, audit *store.AuditStore) *Storage {
	return &Storage{
		renderer: renderer,
		sessions: sessions,
		api:      api,
		cache:    cache,
		audit:    audit,
	}
}

func (h *Storage) logAudit(sess *session.Data, action, entityType, entityID, detail string) {
	if err := h.audit.Log(sess.Email, action, entityType, entityID, detail); err != nil {
		slog.Error("audit write failed", "action", action, "error", err)
	}
}

// Overview renders per-website content aggregates, filtered by the q
// parameter against domain, subdomain and owner email.
func (h *Storage) Overview(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")

	items, err := query.Fetch(r.Context(), h.cache, query.KeyStorageOverview, func(ctx context.Context) ([]platform.StorageOverviewItem, error) {
		return h.api.StorageOverview(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load the storage overview.", "/dashboard")
		return
	}

	filtered := make([]platform.StorageOverviewItem, 0, len(items))
	for _, item := range items {
		if matchesFilter(q, item.DomainName, item.Subdomain, item.UserEmail) {
			filtered = append(filtered, item)
		}
	}

	h.renderer.Page(w, r, "storage", &render.PageData{
		Title:   "Storage",
		Section: "storage",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Items": filtered},
	})
}

// Detail renders one website's blog sections and content blocks.
func (h *Storage) Detail(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "websiteID")

	detail, err := query.Fetch(r.Context(), h.cache, query.StorageDetailKey(websiteID), func(ctx context.Context) (*platform.WebsiteStorageDetail, error) {
		return h.api.WebsiteStorage(ctx, sess.Token, websiteID)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load the website's storage.", "/dashboard/storage")
		return
	}

	h.renderer.Page(w, r, "storage_detail", &render.PageData{
		Title:   "Storage detail",
		Section: "storage",
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Detail": detail},
	})
}

// DeleteSection removes one blog section with its blocks and image.
func (h *Storage) DeleteSection(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "websiteID")
	sectionID := chi.URLParam(r, "sectionID")

	if err := h.api.DeleteBlogSection(r.Context(), sess.Token, sectionID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the blog section.", "/dashboard/storage/"+websiteID)
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateSectionDelete, websiteID)...)
	h.logAudit(sess, models.AuditSectionDelete, "blog_section", sectionID, "website "+websiteID)
	h.sessions.AddFlash(r.Context(), r, "success", "Blog section deleted.")
	redirect(w, r, "/dashboard/storage/"+websiteID)
}

// DeleteBlock removes a single content block.
func (h *Storage) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "websiteID")
	blockID := chi.URLParam(r, "blockID")

	if err := h.api.DeleteContentBlock(r.Context(), sess.Token, blockID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the content block.", "/dashboard/storage/"+websiteID)
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateBlockDelete, websiteID)...)
	h.logAudit(sess, models.AuditBlockDelete, "content_block", blockID, "website "+websiteID)
	h.sessions.AddFlash(r.Context(), r, "success", "Content block deleted.")
	redirect(w, r, "/dashboard/storage/"+websiteID)
}

// WipeContent removes every blog section of a website.
func (h *Storage) WipeContent(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "websiteID")

	if err := h.api.DeleteAllWebsiteContent(r.Context(), sess.Token, websiteID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the website's content.", "/dashboard/storage/"+websiteID)
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateContentWipe, websiteID)...)
	h.logAudit(sess, models.AuditContentWipe, "website", websiteID, "all content deleted")
	h.sessions.AddFlash(r.Context(), r, "success", "All content deleted.")
	redirect(w, r, "/dashboard/storage/"+websiteID)
}

// ProviderPage renders the storage-provider toggle.
func (h *Storage) ProviderPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	provider, err := query.Fetch(r.Context(), h.cache, query.KeyStorageProvider, func(ctx context.Context) (platform.StorageProvider, error) {
		return h.api.GetStorageProvider(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load the storage provider.", "/dashboard")
		return
	}

	h.renderer.Page(w, r, "storage_provider", &render.PageData{
		Title:   "Storage provider",
		Section: "provider",
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Provider": provider},
	})
}

// SetProvider switches where new uploads land. Existing content is not
// migrated.
func (h *Storage) SetProvider(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	provider := platform.StorageProvider(r.FormValue("provider"))

	if !provider.Valid() {
		h.sessions.AddFlash(r.Context(), r, "error", "Unknown storage provider.")
		redirect(w, r, "/dashboard/storage/provider")
		return
	}

	if err := h.api.SetStorageProvider(r.Context(), sess.Token, provider); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not switch the storage provider.", "/dashboard/storage/provider")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateProviderSet, "")...)
	h.logAudit(sess, models.AuditProviderSwitch, "storage_provider", string(provider), "")
	h.sessions.AddFlash(r.Context(), r, "success", "Storage provider switched to "+string(provider)+".")
	redirect(w, r, "/dashboard/storage/provider")
}
