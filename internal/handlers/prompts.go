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

// promptTabs are the console-facing type filters. ALL shows everything;
// TITLE and CONTENT both select prompts stored as TEXT on the wire.
var promptTabs = []string{"ALL", "TITLE", "CONTENT", "IMAGE"}

// Prompts serves the AI prompt management pages.
type Prompts struct {
	renderer *render.Renderer
	sessions *session.Store
	api      *platform.Client
	cache    *query.Cache
	audit    *store.AuditStore
}

// NewPrompts creates a new Prompts handler group.
func NewPrompts(renderer *render.Renderer, sessions *session.Store, api *platform.Client, cache *query.Cache, audit *store.AuditStore) *Prompts {
	return &Prompts{
		renderer: renderer,
		sessions: sessions,
		api:      api,
		cache:    cache,
		audit:    audit,
	}
}

func (h *Prompts) logAudit(sess *session.Data, action, promptID, detail string) {
	if err := h.audit.Log(sess.Email, action, "prompt", promptID, detail); err != nil {
		slog.Error("audit write failed", "action", action, "error", err)
	}
}

// tabMatches reports whether a prompt's wire type belongs under the tab.
func tabMatches(tab, wireType string) bool {
	switch tab {
	case "TITLE", "CONTENT":
		return wireType == platform.WireText
	case "IMAGE":
		return wireType == platform.WireImage
	default:
		return true
	}
}

// fetchPrompts reads the prompt list through the cache.
func (h *Prompts) fetchPrompts(r *http.Request, sess *session.Data) ([]platform.Prompt, error) {
	return query.Fetch(r.Context(), h.cache, query.KeyPrompts, func(ctx context.Context) ([]platform.Prompt, error) {
		return h.api.ListPrompts(ctx, sess.Token)
	})
}

// List renders the prompt table with the type tabs and key/template search.
func (h *Prompts) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")
	tab := r.URL.Query().Get("type")
	if tab == "" {
		tab = "ALL"
	}

	prompts, err := h.fetchPrompts(r, sess)
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load prompts.", "/dashboard")
		return
	}

	filtered := make([]platform.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if tabMatches(tab, p.PromptType) && matchesFilter(q, p.PromptKey, p.TemplateKey) {
			filtered = append(filtered, p)
		}
	}

	h.renderer.Page(w, r, "prompts", &render.PageData{
		Title:   "AI Prompts",
		Section: "prompts",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data: map[string]any{
			"Prompts":   filtered,
			"Tabs":      promptTabs,
			"ActiveTab": tab,
		},
	})
}

// NewForm renders the empty prompt form.
func (h *Prompts) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, r, "prompt_form", &render.PageData{
		Title:   "New prompt",
		Section: "prompts",
		Flashes: flashes(h.sessions, r),
		Data: map[string]any{
			"Prompt":     nil,
			"FormAction": "/dashboard/prompts",
		},
	})
}

// Create adds a new prompt. The console type (TITLE, CONTENT, IMAGE)
// collapses to its wire value before it leaves the process.
func (h *Prompts) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	req := platform.CreatePromptRequest{
		PromptKey:   r.FormValue("promptKey"),
		PromptText:  r.FormValue("promptText"),
		PromptType:  platform.PromptType(r.FormValue("promptType")).WireType(),
		TemplateKey: r.FormValue("templateKey"),
	}
	if req.PromptKey == "" || req.PromptText == "" || req.TemplateKey == "" {
		h.sessions.AddFlash(r.Context(), r, "error", "Key, template and prompt text are required.")
		redirect(w, r, "/dashboard/prompts/new")
		return
	}

	if err := h.api.CreatePrompt(r.Context(), sess.Token, req); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not create the prompt.", "/dashboard/prompts/new")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutatePromptCreate, "")...)
	h.logAudit(sess, models.AuditPromptCreate, req.PromptKey, "template "+req.TemplateKey)
	h.sessions.AddFlash(r.Context(), r, "success", "Prompt created.")
	redirect(w, r, "/dashboard/prompts")
}

// EditForm renders the prompt form pre-filled for editing. Key and template
// render as disabled fields; they are immutable after creation.
func (h *Prompts) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	promptID := chi.URLParam(r, "id")

	prompts, err := h.fetchPrompts(r, sess)
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load the prompt.", "/dashboard/prompts")
		return
	}

	var prompt *platform.Prompt
	for i := range prompts {
		if prompts[i].ID == promptID {
			prompt = &prompts[i]
			break
		}
	}
	if prompt == nil {
		h.sessions.AddFlash(r.Context(), r, "error", "Prompt not found.")
		redirect(w, r, "/dashboard/prompts")
		return
	}

	h.renderer.Page(w, r, "prompt_form", &render.PageData{
		Title:   "Edit prompt",
		Section: "prompts",
		Flashes: flashes(h.sessions, r),
		Data: map[string]any{
			"Prompt":     prompt,
			"FormAction": "/dashboard/prompts/" + promptID,
		},
	})
}

// Update changes a prompt's text and type. The payload deliberately omits
// the key and template key.
func (h *Prompts) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	promptID := chi.URLParam(r, "id")

	req := platform.UpdatePromptRequest{
		PromptText: r.FormValue("promptText"),
		PromptType: platform.PromptType(r.FormValue("promptType")).WireType(),
	}
	if req.PromptText == "" {
		h.sessions.AddFlash(r.Context(), r, "error", "Prompt text is required.")
		redirect(w, r, "/dashboard/prompts/"+promptID+"/edit")
		return
	}

	if err := h.api.UpdatePrompt(r.Context(), sess.Token, promptID, req); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not save the prompt.", "/dashboard/prompts/"+promptID+"/edit")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutatePromptUpdate, "")...)
	h.logAudit(sess, models.AuditPromptUpdate, promptID, "")
	h.sessions.AddFlash(r.Context(), r, "success", "Prompt saved.")
	redirect(w, r, "/dashboard/prompts")
}

// Delete removes a prompt.
func (h *Prompts) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	promptID := chi.URLParam(r, "id")

	if err := h.api.DeletePrompt(r.Context(), sess.Token, promptID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the prompt.", "/dashboard/prompts")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutatePromptDelete, "")...)
	h.logAudit(sess, models.AuditPromptDelete, promptID, "")
	h.sessions.AddFlash(r.Context(), r, "success", "Prompt deleted.")
	redirect(w, r, "/dashboard/prompts")
}
