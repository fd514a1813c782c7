package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/api/transport"
	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/pkg/httpcontext"
)

const (
	// SessionCookieName carries the session token for both surfaces.
	SessionCookieName = "session_token"
	flashCookieName   = "notice"

	// IdentityKey is the request-scoped user value set by the auth middleware.
	IdentityKey = "identity"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := mapErrorStatus(err)
	h.respondJSON(ctx, status, transport.ErrorResponse{Error: err.Error()})
}

// identity returns the authenticated identity placed by the auth middleware.
func (h baseHandler) identity(ctx *fasthttp.RequestCtx) string {
	identity, _ := ctx.UserValue(IdentityKey).(string)
	return identity
}

func (h baseHandler) sessionToken(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Cookie(SessionCookieName))
}

func (h baseHandler) setSessionCookie(ctx *fasthttp.RequestCtx, token string, maxAge int) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(SessionCookieName)
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	if maxAge > 0 {
		cookie.SetMaxAge(maxAge)
	} else {
		cookie.SetExpire(fasthttp.CookieExpireDelete)
	}
	ctx.Response.Header.SetCookie(cookie)
}

func (h baseHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	h.setSessionCookie(ctx, "", -1)
}

// setFlash stores a transient notice shown on the next rendered page.
func (h baseHandler) setFlash(ctx *fasthttp.RequestCtx, message string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(flashCookieName)
	cookie.SetValue(url.QueryEscape(message))
	cookie.SetPath("/")
	cookie.SetMaxAge(60)
	ctx.Response.Header.SetCookie(cookie)
}

// takeFlash reads and clears the pending notice.
func (h baseHandler) takeFlash(ctx *fasthttp.RequestCtx) string {
	raw := string(ctx.Request.Header.Cookie(flashCookieName))
	if raw == "" {
		return ""
	}
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)
	cookie.SetKey(flashCookieName)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)

	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

func (h baseHandler) redirect(ctx *fasthttp.RequestCtx, location string) {
	ctx.Redirect(location, http.StatusSeeOther)
}

func mapErrorStatus(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
