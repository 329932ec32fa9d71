package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "некорректный токен авторизации"

	claimRole = "role"
)

var errInvalidClaims = errors.New("invalid token claims")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Bearer-токен (HS256) и кладет в контекст пользователя из claims sub и role
func Auth(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondUnauthorized(w, msgMissingToken)
				return
			}

			actor, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn("Auth: %s %s - invalid token: %v", r.Method, r.URL.Path, err)
				respondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// ParseToken проверяет подпись и срок действия токена и собирает из него пользователя
func ParseToken(secret, raw string) (domain.Actor, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return domain.Actor{}, err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return domain.Actor{}, errInvalidClaims
	}

	userID, err := subjectID(claims["sub"])
	if err != nil {
		return domain.Actor{}, err
	}

	roleRaw, _ := claims[claimRole].(string)
	role := domain.Role(roleRaw)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", errInvalidClaims, roleRaw)
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}

// NewAccessToken подписывает HS256-токен с claims sub, role, exp и iat
func NewAccessToken(secret string, actor domain.Actor, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatInt(actor.UserID, 10),
		claimRole: string(actor.Role),
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// sub встречается и строкой, и числом
func subjectID(v interface{}) (int64, error) {
	var (
		id  int64
		err error
	)
	switch s := v.(type) {
	case string:
		id, err = strconv.ParseInt(s, 10, 64)
	case float64:
		id = int64(s)
	case json.Number:
		id, err = s.Int64()
	default:
		return 0, fmt.Errorf("%w: missing sub", errInvalidClaims)
	}
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad sub %v", errInvalidClaims, v)
	}
	return id, nil
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
