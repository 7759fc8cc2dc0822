package interceptors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

const (
	sessionName   = "planmesh"
	clientIDValue = "client_id"
	sessionMaxAge = 30 * 24 * 60 * 60
	tokenIssuer   = "planmesh-api"
	bearerPrefix  = "bearer "
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims ties a bearer token to one client's session slot. Subject holds the
// client id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 client tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(clientID, email string) (string, error) {
	now := t.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewCookieStore builds the cookie store that remembers a browser's client id.
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// NewClientIdentityMiddleware binds a per-client session slot to every
// request. A valid bearer token names the slot; otherwise a signed cookie
// carries a client id, minted on first visit.
func NewClientIdentityMiddleware(store sessions.Store, tokens *TokenIssuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				claims, err := tokens.Parse(raw)
				if err != nil {
					respond.Error(w, r, http.StatusUnauthorized, ErrInvalidToken.Error())
					return
				}
				next.ServeHTTP(w, r.WithContext(storage.WithSessionSlot(r.Context(), claims.Subject)))
				return
			}

			// A tampered or stale cookie decodes to a fresh session.
			session, err := store.Get(r, sessionName)
			if err != nil {
				logger.DebugContext(r.Context(), "discarding undecodable session cookie", slog.Any("error", err))
			}

			clientID, _ := session.Values[clientIDValue].(string)
			if clientID == "" {
				clientID = uuid.NewString()
				session.Values[clientIDValue] = clientID
				if err := session.Save(r, w); err != nil {
					logger.ErrorContext(r.Context(), "failed to save session cookie", appendLoggerFields(r.Context(), "error", err)...)
					respond.Error(w, r, http.StatusInternalServerError, "internal server error")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(storage.WithSessionSlot(r.Context(), clientID)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}
