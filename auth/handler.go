package auth

import (
	"net/http"
	"time"

	"github.com/cardoctor/server/config"
	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/utils"
	"go.uber.org/zap"
)

// SessionResponse is the body returned by login and logout
type SessionResponse struct {
	Success bool `json:"success"`
}

// Handler serves the session endpoints: token issuance on login and cookie removal on logout
type Handler struct {
	tokens *TokenService
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(cfg config.AuthConfig, tokens *TokenService, logger *zap.Logger) *Handler {
	return &Handler{
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

// HandleLogin issues a token for the posted identity and stores it in an HttpOnly cookie
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var identity Identity
	if err := utils.DecodeJSON(r, &identity); err != nil {
		_ = utils.WriteBadRequest(w, "invalid login payload", nil)
		return
	}

	if err := utils.ValidateStruct(identity); err != nil {
		verr := services.FromValidation("invalid login payload", err)
		_ = utils.WriteBadRequest(w, verr.Message, verr.Details)
		return
	}

	token, err := h.tokens.Issue(identity, h.cfg.TokenTTL)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.cfg.TokenTTL/time.Second)))

	h.logger.Debug("token issued", zap.String("email", identity.Email))
	_ = utils.WriteOK(w, SessionResponse{Success: true})
}

// HandleLogout expires the token cookie. The token itself stays valid until
// its own expiry since nothing is revoked server side.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	_ = utils.WriteOK(w, SessionResponse{Success: true})
}

// cookie builds the token cookie. Cross-site frontends need SameSite=None,
// which browsers only accept together with Secure.
func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if h.cfg.CookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: sameSite,
	}
}
