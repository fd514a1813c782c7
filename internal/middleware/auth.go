package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/api/handler"
	"github.com/rew4n/smart-task-resource-manager/api/transport"
	"github.com/rew4n/smart-task-resource-manager/domain"
)

// IdentityResolver resolves a session token to an authenticated identity.
type IdentityResolver interface {
	Identity(ctx context.Context, token string) (string, error)
}

// SessionAuth builds the two auth wrappers. API routes accept either the
// session cookie or a bearer token; web routes accept the cookie and
// redirect to the login page when it is absent or stale.
type SessionAuth struct {
	resolver  IdentityResolver
	jwtSecret []byte
	timeout   time.Duration
	logger    *zap.Logger
}

func NewSessionAuth(resolver IdentityResolver, jwtSecret string, timeout time.Duration, logger *zap.Logger) *SessionAuth {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionAuth{
		resolver:  resolver,
		jwtSecret: []byte(jwtSecret),
		timeout:   timeout,
		logger:    logger,
	}
}

// API guards JSON routes; unauthenticated requests get a 401 body.
func (a *SessionAuth) API(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		identity := a.resolve(ctx)
		if identity == "" {
			ctx.Response.Header.SetContentType("application/json")
			ctx.SetStatusCode(http.StatusUnauthorized)
			body, _ := json.Marshal(transport.ErrorResponse{Error: domain.ErrNotAuthenticated.Error()})
			ctx.SetBody(body)
			return
		}
		ctx.SetUserValue(handler.IdentityKey, identity)
		next(ctx)
	}
}

// Web guards HTML routes; unauthenticated requests redirect to /login.
func (a *SessionAuth) Web(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		identity := a.resolve(ctx)
		if identity == "" {
			ctx.Redirect("/login", http.StatusSeeOther)
			return
		}
		ctx.SetUserValue(handler.IdentityKey, identity)
		next(ctx)
	}
}

func (a *SessionAuth) resolve(ctx *fasthttp.RequestCtx) string {
	if token := extractBearer(ctx); token != "" {
		if identity := a.identityFromJWT(token); identity != "" {
			return identity
		}
	}

	token := string(ctx.Request.Header.Cookie(handler.SessionCookieName))
	if token == "" {
		return ""
	}

	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	identity, err := a.resolver.Identity(stdCtx, token)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			a.logger.Warn("session lookup failed", zap.Error(err))
		}
		return ""
	}
	return identity
}

func (a *SessionAuth) identityFromJWT(tokenString string) string {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		a.logger.Warn("invalid bearer token", zap.Error(err))
		return ""
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if identity, ok := claims["identity"].(string); ok {
			return identity
		}
	}
	return ""
}

func extractBearer(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
