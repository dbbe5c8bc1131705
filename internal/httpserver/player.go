// internal/httpserver/player.go
//
// Player identity.
// A player is whoever holds a signed HS256 token naming their player ID. The
// token travels as an HttpOnly cookie, or as a bearer token for clients that
// cannot keep cookies. It identifies a profile; it does not protect the game.
//
// withPlayer resolves the token to a *game.Player, minting a new player (and
// token) on first contact or when the token is missing, invalid or expired.
// A valid token whose player was swept gets a fresh player under the same ID.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mindreader/internal/game"
	"github.com/robalobadob/mindreader/internal/store"
)

// playerTokenHeader carries a freshly minted token for bearer clients.
const playerTokenHeader = "X-Player-Token"

// ctxPlayerKey is the context key type for storing *game.Player.
type ctxPlayerKey struct{}

// playerFrom returns the player withPlayer attached to the request.
func playerFrom(r *http.Request) *game.Player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*game.Player)
	return p
}

// withPlayer attaches the request's player, creating one when needed.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := s.parseToken(bearerOrCookie(r, s.cfg.CookieName))
		minted := false
		if err != nil {
			id, minted = uuid.NewString(), true
		}

		p, err := s.players.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			p = game.NewPlayer(id, s.engineOpts...)
			err = s.players.Save(ctx, p)
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("player", id).Msg("resolve player")
			http.Error(w, `{"error":"player_unavailable"}`, http.StatusInternalServerError)
			return
		}

		if minted {
			tok, exp, err := s.signToken(id)
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("sign player token")
				http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
				return
			}
			s.setPlayerCookie(w, tok, exp)
			w.Header().Set(playerTokenHeader, tok)
			hlog.FromRequest(r).Info().Str("player", id).Msg("new player")
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxPlayerKey{}, p)))
	})
}

// ------------------------------ JWT & cookies ------------------------------

// signToken creates an HS256 JWT naming the player, valid for JWTExpiresDays.
func (s *Server) signToken(playerID string) (string, time.Time, error) {
	days := s.cfg.JWTExpiresDays
	if days <= 0 {
		days = 14
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken validates tok and returns the player ID it names.
func (s *Server) parseToken(tok string) (string, error) {
	if tok == "" {
		return "", errors.New("no token")
	}
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token without subject")
	}
	return claims.Subject, nil
}

// setPlayerCookie writes the player token cookie with appropriate security attributes.
func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

func (s *Server) cookieName() string {
	if s.cfg.CookieName == "" {
		return "mindreader_player"
	}
	return s.cfg.CookieName
}

// bearerOrCookie extracts a bearer token from the Authorization header or the player cookie.
func bearerOrCookie(r *http.Request, cookie string) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if cookie == "" {
		cookie = "mindreader_player"
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}
