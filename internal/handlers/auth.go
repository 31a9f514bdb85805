// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"fastadmin/internal/middleware"
	"fastadmin/internal/platform"
	"fastadmin/internal/query"
	"fastadmin/internal/render"
	"fastadmin/internal/session"
	"fastadmin/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "Fastadmin"

// Auth groups all authentication-related HTTP handlers. Credentials are
// verified by the upstream platform API; the console adds its own TOTP
// second factor on top.
type Auth struct {
	renderer   *render.Renderer
	sessions   *session.Store
	adminStore *store.AdminStore
	api        *platform.Client
	cache      *query.Cache
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, adminStore *store.AdminStore, api *platform.Client, cache *query.Cache) *Auth {
	return &Auth{
		renderer:   renderer,
		sessions:   sessions,
		adminStore: adminStore,
		api:        api,
		cache:      cache,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in with 2FA complete, redirect to dashboard.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	fl := flashes(a.sessions, r)
	// A 401 upstream destroys the session, so the expiry notice cannot ride
	// the flash queue. It arrives as a query parameter instead.
	if r.URL.Query().Get("expired") != "" {
		fl = append(fl, render.Flash{Type: "error", Message: "Your session has expired. Please sign in again."})
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Sign in",
		Flashes: fl,
	})
}

// loginError re-renders the login form with an inline error flash. Failed
// logins have no session, so the message cannot ride the flash queue.
func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, message string) {
	a.renderer.Page(w, r, "login", &render.PageData{
		Title:   "Sign in",
		Flashes: []render.Flash{{Type: "error", Message: message}},
	})
}

// LoginSubmit exchanges credentials for a platform token. Only SUPER_ADMIN
// accounts get a session; any other role is rejected outright and neither
// the token nor any session state is persisted.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	result, err := a.api.Login(r.Context(), email, password)
	if err != nil {
		if platform.IsUnauthorized(err) {
			a.loginError(w, r, "Invalid email or password.")
			return
		}
		slog.Error("platform login failed", "error", err)
		a.loginError(w, r, platform.ErrorMessage(err, "Sign-in is temporarily unavailable."))
		return
	}

	if !result.User.IsSuperAdmin() {
		slog.Warn("login rejected for non-admin account", "email", email, "role", result.User.Role)
		a.loginError(w, r, "This console is restricted to platform administrators.")
		return
	}

	// Ensure the local enrollment row exists for the console's own 2FA.
	admin, err := a.adminStore.Ensure(result.User.Email, result.User.ID)
	if err != nil {
		slog.Error("admin enrollment failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// TwoFADone starts false. The operator must complete the console's
	// second factor before reaching any page.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		AdminID:    admin.ID,
		PlatformID: result.User.ID,
		Email:      result.User.Email,
		Role:       string(result.User.Role),
		Token:      result.Token,
		TwoFADone:  false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if admin.Needs2FASetup() {
		http.Redirect(w, r, "/2fa/setup", http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
	}
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.adminStore.SetTOTPSecret(sess.AdminID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.render2FASetup(w, r, key.URL(), key.Secret(), nil)
}

// render2FASetup renders the setup page with the QR code for the given
// otpauth URL.
func (a *Auth) render2FASetup(w http.ResponseWriter, r *http.Request, otpURL, secret string, extraFlashes []render.Flash) {
	qrPNG, err := qrcode.Encode(otpURL, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title:   "Set up two-factor authentication",
		Flashes: extraFlashes,
		Data: map[string]any{
			"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": secret,
		},
	})
}

// TwoFASetupSubmit validates the first code against the freshly stored
// secret and enables TOTP for the operator.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	admin, err := a.adminStore.FindByID(sess.AdminID)
	if err != nil || admin == nil {
		slog.Error("admin lookup for 2fa setup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if admin.TOTPSecret == nil {
		http.Redirect(w, r, "/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *admin.TOTPSecret) {
		otpURL := totpKeyURL(admin.Email, *admin.TOTPSecret)
		a.render2FASetup(w, r, otpURL, *admin.TOTPSecret, []render.Flash{
			{Type: "error", Message: "Invalid code. Please try again."},
		})
		return
	}

	if err := a.adminStore.EnableTOTP(admin.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.completeLogin(w, r, sess)
}

// TwoFAVerifyPage renders the 2FA code entry form (for operators who have
// already enrolled).
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Two-factor verification",
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	admin, err := a.adminStore.FindByID(sess.AdminID)
	if err != nil || admin == nil {
		slog.Error("admin lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if admin.TOTPSecret == nil || !admin.TOTPEnabled {
		http.Redirect(w, r, "/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *admin.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title:   "Two-factor verification",
			Flashes: []render.Flash{{Type: "error", Message: "Invalid code. Please try again."}},
		})
		return
	}

	a.completeLogin(w, r, sess)
}

// completeLogin marks 2FA as done and lands the operator on the dashboard.
func (a *Auth) completeLogin(w http.ResponseWriter, r *http.Request, sess *session.Data) {
	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout destroys the session, drops all cached platform reads, and
// redirects to the login page. The bearer token dies with the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	a.cache.InvalidateAll(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// totpKeyURL rebuilds the otpauth URL for an already stored secret.
func totpKeyURL(email, secret string) string {
	return "otpauth://totp/" + totpIssuer + ":" + email + "?secret=" + secret + "&issuer=" + totpIssuer
}
