// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
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

// recentActivityLimit bounds the console-activity panel on the dashboard.
const recentActivityLimit = 8

// Admin serves the dashboard and the user, website, domain and lead pages.
type Admin struct {
	renderer *render.Renderer
	sessions *session.Store
	api      *platform.Client
	cache    *query.Cache
	audit    *store.AuditStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, api *platform.Client, cache *query.Cache, audit *store.AuditStore) *Admin {
	return &Admin{
		renderer: renderer,
		sessions: sessions,
		api:      api,
		cache:    cache,
		audit:    audit,
	}
}

// logAudit records a console action. Audit failures never abort the
// operation that triggered them.
func (h *Admin) logAudit(sess *session.Data, action, entityType, entityID, detail string) {
	if err := h.audit.Log(sess.Email, action, entityType, entityID, detail); err != nil {
		slog.Error("audit write failed", "action", action, "error", err)
	}
}

// Dashboard renders the platform counters and recent activity.
func (h *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	stats, err := query.Fetch(r.Context(), h.cache, query.KeyStats, func(ctx context.Context) (*platform.Stats, error) {
		return h.api.Stats(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load platform stats.", "/dashboard")
		return
	}

	activity, err := h.audit.Recent(recentActivityLimit)
	if err != nil {
		slog.Error("audit read failed", "error", err)
		// The dashboard still renders without the activity panel.
	}

	h.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Flashes: flashes(h.sessions, r),
		Data: map[string]any{
			"Stats":    stats,
			"Activity": activity,
		},
	})
}

// --- Users ---

// Users renders the user list, filtered by the q parameter against email
// and role.
func (h *Admin) Users(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")

	users, err := query.Fetch(r.Context(), h.cache, query.KeyUsers, func(ctx context.Context) ([]platform.User, error) {
		return h.api.ListUsers(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load users.", "/dashboard")
		return
	}

	filtered := make([]platform.User, 0, len(users))
	for _, u := range users {
		if matchesFilter(q, u.Email, string(u.Role)) {
			filtered = append(filtered, u)
		}
	}

	h.renderer.Page(w, r, "users", &render.PageData{
		Title:   "Users",
		Section: "users",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Users": filtered},
	})
}

// UpdateUserRole changes a platform account's role.
func (h *Admin) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	userID := chi.URLParam(r, "id")
	role := platform.Role(r.FormValue("role"))

	if role != platform.RoleUser && role != platform.RoleSuperAdmin {
		h.sessions.AddFlash(r.Context(), r, "error", "Unknown role.")
		redirect(w, r, "/dashboard/users")
		return
	}

	if err := h.api.UpdateUserRole(r.Context(), sess.Token, userID, role); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not update the user's role.", "/dashboard/users")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateUserRole, "")...)
	h.logAudit(sess, models.AuditRoleChange, "user", userID, "role set to "+string(role))
	h.sessions.AddFlash(r.Context(), r, "success", "Role updated.")
	redirect(w, r, "/dashboard/users")
}

// DeleteUser removes a platform account.
func (h *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	userID := chi.URLParam(r, "id")

	if err := h.api.DeleteUser(r.Context(), sess.Token, userID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the user.", "/dashboard/users")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateUserDelete, "")...)
	h.logAudit(sess, models.AuditUserDelete, "user", userID, "")
	h.sessions.AddFlash(r.Context(), r, "success", "User deleted.")
	redirect(w, r, "/dashboard/users")
}

// --- Websites ---

// Websites renders the website list, filtered by the q parameter against
// domain name, subdomain and template key.
func (h *Admin) Websites(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")

	websites, err := query.Fetch(r.Context(), h.cache, query.KeyWebsites, func(ctx context.Context) ([]platform.Website, error) {
		return h.api.ListWebsites(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load websites.", "/dashboard")
		return
	}

	filtered := make([]platform.Website, 0, len(websites))
	for _, site := range websites {
		domainName := ""
		if site.Domain != nil {
			domainName = site.Domain.DomainName
		}
		if matchesFilter(q, domainName, site.Subdomain, site.TemplateKey) {
			filtered = append(filtered, site)
		}
	}

	h.renderer.Page(w, r, "websites", &render.PageData{
		Title:   "Websites",
		Section: "websites",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Websites": filtered},
	})
}

// EditWebsite renders the settings form for one website. Fetched directly,
// not through the cache: the form must show current server values.
func (h *Admin) EditWebsite(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "id")

	website, err := h.api.GetWebsite(r.Context(), sess.Token, websiteID)
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load the website.", "/dashboard/websites")
		return
	}

	h.renderer.Page(w, r, "website_edit", &render.PageData{
		Title:   "Edit website",
		Section: "websites",
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Website": website},
	})
}

// UpdateWebsite saves the settings form. Unchecked checkboxes are absent
// from the form body, so their fields come out false.
func (h *Admin) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "id")

	settings := platform.WebsiteSettings{
		TemplateKey:        r.FormValue("templateKey"),
		AdsEnabled:         r.FormValue("adsEnabled") == "true",
		ContactFormEnabled: r.FormValue("contactFormEnabled") == "true",
		MetaTitle:          r.FormValue("metaTitle"),
		MetaDescription:    r.FormValue("metaDescription"),
		MetaKeywords:       r.FormValue("metaKeywords"),
		MetaAuthor:         r.FormValue("metaAuthor"),
		InstagramURL:       r.FormValue("instagramUrl"),
		FacebookURL:        r.FormValue("facebookUrl"),
		TwitterURL:         r.FormValue("twitterUrl"),
		ContactEmail:       r.FormValue("contactEmail"),
		ContactPhone:       r.FormValue("contactPhone"),
		GoogleAnalyticsID:  r.FormValue("googleAnalyticsId"),
		LogoDisplayMode:    platform.LogoDisplayMode(r.FormValue("logoDisplayMode")),
	}

	if err := h.api.UpdateWebsiteSettings(r.Context(), sess.Token, websiteID, settings); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not save the website settings.", "/dashboard/websites/"+websiteID)
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateWebsiteSettings, "")...)
	h.logAudit(sess, models.AuditWebsiteUpdate, "website", websiteID, "settings saved")
	h.sessions.AddFlash(r.Context(), r, "success", "Settings saved.")
	redirect(w, r, "/dashboard/websites/"+websiteID)
}

// ApproveAds toggles the ads-approval flag for exactly one website.
func (h *Admin) ApproveAds(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	websiteID := chi.URLParam(r, "id")
	approved := r.URL.Query().Get("approved") == "true"

	if err := h.api.ApproveAds(r.Context(), sess.Token, websiteID, approved); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not change the ads approval.", "/dashboard/websites")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateAdsApproval, "")...)
	h.logAudit(sess, models.AuditAdsApproval, "website", websiteID, fmt.Sprintf("approved=%t", approved))
	if approved {
		h.sessions.AddFlash(r.Context(), r, "success", "Ads approved.")
	} else {
		h.sessions.AddFlash(r.Context(), r, "success", "Ads approval revoked.")
	}
	redirect(w, r, "/dashboard/websites")
}

// --- Domains ---

// Domains renders the domain list, filtered by the q parameter against
// domain name and owner email.
func (h *Admin) Domains(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")

	domains, err := query.Fetch(r.Context(), h.cache, query.KeyDomains, func(ctx context.Context) ([]platform.Domain, error) {
		return h.api.ListDomains(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load domains.", "/dashboard")
		return
	}

	filtered := make([]platform.Domain, 0, len(domains))
	for _, d := range domains {
		ownerEmail := ""
		if d.User != nil {
			ownerEmail = d.User.Email
		}
		if matchesFilter(q, d.DomainName, ownerEmail) {
			filtered = append(filtered, d)
		}
	}

	h.renderer.Page(w, r, "domains", &render.PageData{
		Title:   "Domains",
		Section: "domains",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Domains": filtered},
	})
}

// DeleteDomain removes a domain. The platform cascades the deletion to the
// domain's websites and content, so everything derived goes stale at once.
func (h *Admin) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	domainID := chi.URLParam(r, "id")

	if err := h.api.DeleteDomain(r.Context(), sess.Token, domainID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the domain.", "/dashboard/domains")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateDomainDelete, "")...)
	h.logAudit(sess, models.AuditDomainDelete, "domain", domainID, "cascades to websites and content")
	h.sessions.AddFlash(r.Context(), r, "success", "Domain deleted.")
	redirect(w, r, "/dashboard/domains")
}

// --- Leads ---

// Leads renders the lead list, filtered by the q parameter against name,
// email, company and the originating website's domain.
func (h *Admin) Leads(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	q := r.URL.Query().Get("q")

	leads, err := query.Fetch(r.Context(), h.cache, query.KeyLeads, func(ctx context.Context) ([]platform.Lead, error) {
		return h.api.ListLeads(ctx, sess.Token)
	})
	if err != nil {
		upstreamError(w, r, h.sessions, err, "Could not load leads.", "/dashboard")
		return
	}

	filtered := make([]platform.Lead, 0, len(leads))
	for _, lead := range leads {
		domainName := ""
		if lead.Website != nil && lead.Website.Domain != nil {
			domainName = lead.Website.Domain.DomainName
		}
		if matchesFilter(q, lead.Name, lead.Email, lead.Company, domainName) {
			filtered = append(filtered, lead)
		}
	}

	h.renderer.Page(w, r, "leads", &render.PageData{
		Title:   "Leads",
		Section: "leads",
		Query:   q,
		Flashes: flashes(h.sessions, r),
		Data:    map[string]any{"Leads": filtered},
	})
}

// DeleteLead removes a contact-form submission.
func (h *Admin) DeleteLead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	leadID := chi.URLParam(r, "id")

	if err := h.api.DeleteLead(r.Context(), sess.Token, leadID); err != nil {
		upstreamError(w, r, h.sessions, err, "Could not delete the lead.", "/dashboard/leads")
		return
	}

	h.cache.Invalidate(r.Context(), query.KeysFor(query.MutateLeadDelete, "")...)
	h.logAudit(sess, models.AuditLeadDelete, "lead", leadID, "")
	h.sessions.AddFlash(r.Context(), r, "success", "Lead deleted.")
	redirect(w, r, "/dashboard/leads")
}
