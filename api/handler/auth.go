package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/api/transport"
	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/internal/view"
	"github.com/rew4n/smart-task-resource-manager/pkg/httpcontext"
	authUC "github.com/rew4n/smart-task-resource-manager/usecase/auth"
)

// AuthHandler serves the login/logout pages and the API token endpoint.
type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	renderer *view.Renderer
}

func NewAuthHandler(uc *authUC.UseCase, renderer *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		renderer:    renderer,
	}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.renderPage(ctx, "login", view.Page{
		Title: "Log in",
		Flash: h.takeFlash(ctx),
	})
}

// LoginSubmit checks the submitted credential pair. Any session referenced
// by an existing cookie is revoked before a new one is issued.
func (h *AuthHandler) LoginSubmit(ctx *fasthttp.RequestCtx) {
	username := string(ctx.PostArgs().Peek("username"))
	password := string(ctx.PostArgs().Peek("password"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, username, password, h.sessionToken(ctx))
	if err != nil {
		h.clearSessionCookie(ctx)
		h.setFlash(ctx, "Invalid username or password.")
		h.redirect(ctx, "/login")
		return
	}

	h.setSessionCookie(ctx, session.Token, int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()))
	h.redirect(ctx, "/tasks")
}

// Logout clears the session and cookie unconditionally.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, h.sessionToken(ctx)); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	h.clearSessionCookie(ctx)
	h.setFlash(ctx, "You have been logged out.")
	h.redirect(ctx, "/")
}

// APILogin validates the credential pair and issues a bearer token for API
// clients.
func (h *AuthHandler) APILogin(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Error()})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, req.Username, req.Password, "")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.uc.IssueAPIToken(session.Identity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TokenResponse{Token: token})
}

func (h *AuthHandler) renderPage(ctx *fasthttp.RequestCtx, name string, data view.Page) {
	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	if err := h.renderer.Render(ctx, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
	}
}
