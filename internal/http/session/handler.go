package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/narensv/vyapari/internal/backend"
	"github.com/narensv/vyapari/internal/session"
)

// ShellURLs is where the browser is sent after the handshake.
type ShellURLs struct {
	Landing   string
	Dashboard string
}

type Handler struct {
	exchanger session.Exchanger
	registry  session.CodeRegistry
	upstream  *backend.Client
	shell     ShellURLs
}

func NewHandler(exchanger session.Exchanger, registry session.CodeRegistry, upstream *backend.Client, shell ShellURLs) *Handler {
	return &Handler{
		exchanger: exchanger,
		registry:  registry,
		upstream:  upstream,
		shell:     shell,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/exchange", h.exchange)
	r.Get("/me", h.me)
	r.Post("/logout", h.logout)
}

// relayPage promotes the URL fragment into the query string and reloads.
// Providers return the exchange code as #session_id=..., which the browser
// never sends to the server; the relay only runs when the query carries no
// code, so the fragment keeps precedence.
const relayPage = `<!DOCTYPE html>
<html>
<head><title>Completing sign in...</title></head>
<body>
<p>Completing sign in&hellip;</p>
<script>
(function () {
  var frag = new URLSearchParams(window.location.hash.slice(1));
  var code = frag.get("session_id");
  if (code) {
    window.location.replace(window.location.pathname + "?session_id=" + encodeURIComponent(code));
  } else {
    window.location.replace("%s?auth_error=" + encodeURIComponent("Authentication failed: no session ID"));
  }
})();
</script>
</body>
</html>`

// Callback is the redirect landing. Exactly one exchange happens per code
// even when the browser re-requests the page.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	if session.CodeFromURL(r.URL) == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if _, err := w.Write([]byte(relayFor(h.shell.Landing))); err != nil {
			slog.Error("failed to write relay page", "error", err)
		}

		return
	}

	b := session.NewBootstrap(h.exchanger, h.registry)

	identity, err := b.Run(r.Context(), r.URL, true)
	if err != nil {
		if errors.Is(err, session.ErrCodeConsumed) {
			// Double invocation; the winning request already signed in.
			http.Redirect(w, r, h.shell.Dashboard, http.StatusSeeOther)
			return
		}

		slog.Error("session exchange failed", "error", err)
		http.Redirect(w, r, h.shell.Landing+"?auth_error="+url.QueryEscape(userMessage(err)), http.StatusSeeOther)

		return
	}

	setSessionCookie(w, identity.SessionToken)
	http.Redirect(w, r, h.shell.Dashboard, http.StatusSeeOther)
}

type exchangeRequest struct {
	RedirectURL string `json:"redirect_url,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
}

type identityResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	BusinessName  string `json:"business_name,omitempty"`
	BusinessGSTIN string `json:"business_gstin,omitempty"`
	Plan          string `json:"subscription_plan,omitempty"`
	SessionToken  string `json:"session_token"`
}

// exchange is the JSON variant of the handshake for non-browser shells.
func (h *Handler) exchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	landing, err := landingURL(req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	b := session.NewBootstrap(h.exchanger, h.registry)

	identity, err := b.Run(r.Context(), landing, true)

	switch {
	case errors.Is(err, session.ErrCodeMissing):
		writeDetail(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, session.ErrCodeConsumed):
		writeDetail(w, http.StatusConflict, userMessage(err))
	case err != nil:
		slog.Error("session exchange failed", "error", err)
		writeDetail(w, http.StatusUnauthorized, userMessage(err))
	default:
		setSessionCookie(w, identity.SessionToken)
		writeJSON(w, http.StatusOK, toIdentityResponse(identity))
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, err := h.upstream.WithToken(bearerToken(r)).Me(r.Context())
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			writeDetail(w, apiErr.StatusCode, apiErr.Detail)
			return
		}

		writeDetail(w, http.StatusBadGateway, "backend unavailable")

		return
	}

	writeJSON(w, http.StatusOK, toIdentityResponse(identity))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.upstream.WithToken(bearerToken(r)).Logout(r.Context()); err != nil {
		slog.Error("backend logout failed", "error", err)
	}

	// Tear the session down locally regardless of the backend's answer.
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

func landingURL(req exchangeRequest) (*url.URL, error) {
	if req.RedirectURL != "" {
		return url.Parse(req.RedirectURL)
	}

	// A bare code is treated as a query-carried landing.
	return &url.URL{RawQuery: url.Values{"session_id": {req.SessionID}}.Encode()}, nil
}

func relayFor(landing string) string {
	// The landing URL is configuration, not user input; it lands inside a
	// JS string literal here.
	return fmt.Sprintf(relayPage, landing)
}

func userMessage(err error) string {
	var exErr *session.ExchangeError
	if errors.As(err, &exErr) && exErr.Detail != "" {
		return exErr.Detail
	}

	switch {
	case errors.Is(err, session.ErrCodeMissing):
		return "Authentication failed: no session ID"
	case errors.Is(err, session.ErrCodeConsumed):
		return "This sign-in link was already used"
	case errors.Is(err, session.ErrNoUser):
		return "Authentication failed: no user in response"
	}

	return "Authentication failed. Please try again."
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerToken(r *http.Request) string {
	if c, err := r.Cookie("session_token"); err == nil {
		return c.Value
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}

func toIdentityResponse(identity *session.Identity) identityResponse {
	return identityResponse{
		UserID:        identity.UserID,
		Email:         identity.Email,
		Name:          identity.Name,
		Picture:       identity.Picture,
		BusinessName:  identity.BusinessName,
		BusinessGSTIN: identity.BusinessGSTIN,
		Plan:          identity.Plan,
		SessionToken:  identity.SessionToken,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
