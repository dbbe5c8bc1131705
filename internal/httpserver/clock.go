// internal/httpserver/clock.go
//
// GET /game/clock upgrades to a websocket that pushes the session clock.
// Each tick carries elapsed and (timed mode) remaining seconds. The stream
// ends when the game is over, when a timed game runs out of time, or when the
// client goes away. Expiry itself is still only applied by the next guess.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mindreader/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 5 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

type clockTick struct {
	Mode      game.Mode `json:"mode"`
	Elapsed   float64   `json:"elapsedSeconds"`
	Remaining *float64  `json:"remainingSeconds,omitempty"`
	GameOver  bool      `json:"gameOver"`
	Expired   bool      `json:"expired,omitempty"`
}

var errNoSession = errors.New("no session")

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.cfg.ClientOrigin
		},
	}
}

// handleClock streams clockTick frames for the caller's current session.
func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	lg := hlog.FromRequest(r)

	if _, err := s.tick(p); err != nil {
		http.Error(w, `{"error":"no_game"}`, http.StatusNotFound)
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		lg.Warn().Err(err).Msg("clock upgrade")
		return
	}
	defer conn.Close()

	// reader: only notices the peer closing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxMessageSize)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	every := s.clockEvery
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		t, err := s.tick(p)
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(t); err != nil {
			lg.Debug().Err(err).Msg("clock write")
			return
		}
		if t.GameOver || t.Expired {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "clock stopped"),
				time.Now().Add(writeWait))
			return
		}
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// tick reads the clock under the player lock.
func (s *Server) tick(p *game.Player) (clockTick, error) {
	var t clockTick
	err := p.Do(func(e *game.Engine) error {
		sess := e.Session()
		if sess == nil {
			return errNoSession
		}
		t = clockTick{Mode: sess.Mode, Elapsed: e.Elapsed().Seconds(), GameOver: sess.GameOver}
		if sess.Mode == game.ModeTimed {
			left := e.Remaining().Seconds()
			t.Remaining = &left
			t.Expired = left <= 0
		}
		return nil
	})
	return t, err
}
