package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/handlers"
)

type contextKey string

const shopContextKey contextKey = "shop"

// ShopHeader заголовок с доменом магазина, когда проверка токена выключена (локальная разработка)
const ShopHeader = "X-Shop-Domain"

const (
	msgMissingToken = "missing session token"
	msgInvalidToken = "invalid session token"
	msgMissingShop  = "shop is required"
)

var (
	ErrMissingDest   = errors.New("session token has no dest claim")
	ErrInvalidDest   = errors.New("session token dest is not a shop url")
	ErrMissingBearer = errors.New("authorization header must be Bearer <token>")
)

// SessionClaims claims сессионного токена админки магазина
// dest содержит URL магазина, например https://demo.myshopify.com
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// AuthConfig настройки проверки сессионных токенов
type AuthConfig struct {
	Enabled  bool
	Secret   string
	Audience string
	Leeway   time.Duration
}

// Auth проверяет сессионный токен (HS256) и кладёт домен магазина в контекст
// При выключенной проверке магазин берётся из заголовка X-Shop-Domain или параметра shop
func Auth(cfg AuthConfig, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				shop := strings.TrimSpace(r.Header.Get(ShopHeader))
				if shop == "" {
					shop = strings.TrimSpace(r.URL.Query().Get("shop"))
				}
				if shop == "" {
					handlers.RespondUnauthorized(w, msgMissingShop)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithShop(r.Context(), shop)))
				return
			}

			raw, err := bearerToken(r)
			if err != nil {
				log.Warn("Auth: %s %s - %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			shop, err := ParseSessionToken(raw, cfg)
			if err != nil {
				log.Warn("Auth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithShop(r.Context(), shop)))
		})
	}
}

// ParseSessionToken проверяет подпись и срок действия токена и возвращает домен магазина
func ParseSessionToken(raw string, cfg AuthConfig) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}

	if claims.Dest == "" {
		return "", ErrMissingDest
	}
	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDest, claims.Dest)
	}

	return dest.Host, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingBearer
	}
	return strings.TrimSpace(token), nil
}

// WithShop кладёт домен магазина в контекст
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// GetShop достаёт домен аутентифицированного магазина из контекста
func GetShop(ctx context.Context) (string, bool) {
	shop, ok := ctx.Value(shopContextKey).(string)
	return shop, ok && shop != ""
}
