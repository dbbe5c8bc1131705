// internal/httpserver/routes_game.go
//
// Game and player endpoints.
//   - POST /game/new    {difficulty, mode, timeLimit, daily} -> snapshot
//   - POST /game/guess  {guess}                             -> feedback + snapshot
//   - POST /game/hint                                       -> hint + snapshot
//   - GET  /game                                            -> snapshot
//   - GET  /stats/me                                        -> profile
//   - GET  /games/mine                                      -> finished games
//   - GET  /leaderboard?date=YYYY-MM-DD|today&limit=N       -> best games
//
// Every engine call runs inside Player.Do. Finished games are recorded in the
// ledger after the lock is released; ledger failures are logged, not returned.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mindreader/internal/daily"
	"github.com/robalobadob/mindreader/internal/game"
	"github.com/robalobadob/mindreader/internal/ledger"
)

type newGameReq struct {
	Difficulty string `json:"difficulty"`
	Mode       string `json:"mode"`
	TimeLimit  int    `json:"timeLimit"`
	Daily      bool   `json:"daily"`
}

type guessReq struct {
	Guess *int `json:"guess"`
}

type guessResp struct {
	Feedback game.Feedback `json:"feedback"`
	Message  string        `json:"message"`
	Game     game.Snapshot `json:"game"`
}

type hintResp struct {
	Hint      *game.Hint    `json:"hint,omitempty"`
	Exhausted bool          `json:"exhausted,omitempty"`
	Message   string        `json:"message"`
	Game      game.Snapshot `json:"game"`
}

// handleNewGame starts a fresh session, replacing any current one.
// An empty body starts a medium/normal game.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		req.Difficulty = string(game.DifficultyMedium)
	}
	if strings.TrimSpace(req.Mode) == "" {
		req.Mode = string(game.ModeNormal)
	}
	d, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, `{"error":"unknown_difficulty"}`, http.StatusBadRequest)
		return
	}
	m, err := game.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, `{"error":"unknown_mode"}`, http.StatusBadRequest)
		return
	}

	p := playerFrom(r)
	var snap game.Snapshot
	err = p.Do(func(e *game.Engine) error {
		var err error
		if req.Daily {
			snap, err = e.StartSeeded(d, m, req.TimeLimit, daily.Rand(s.now(), s.cfg.DailySalt))
		} else {
			snap, err = e.StartGame(d, m, req.TimeLimit)
		}
		return err
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start game")
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}

	hlog.FromRequest(r).Info().
		Str("player", p.ID).
		Str("difficulty", string(d)).
		Str("mode", string(m)).
		Bool("daily", req.Daily).
		Msg("game started")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, r, snap)
}

// handleGuess applies one guess.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Guess == nil {
		http.Error(w, `{"error":"guess_required"}`, http.StatusBadRequest)
		return
	}

	p := playerFrom(r)
	var (
		resp     guessResp
		finished *ledger.Result
	)
	err := p.Do(func(e *game.Engine) error {
		fb, err := e.SubmitGuess(*req.Guess)
		if err != nil {
			return err
		}
		resp = guessResp{Feedback: fb, Message: fb.String(), Game: e.Snapshot()}
		if sess := e.Session(); sess.GameOver {
			row := ledger.FromSession(p.ID, sess, sess.StartTime.Add(e.Elapsed()))
			finished = &row
		}
		return nil
	})
	switch {
	case errors.Is(err, game.ErrNoGame):
		http.Error(w, `{"error":"no_game"}`, http.StatusNotFound)
		return
	case errors.Is(err, game.ErrGameOver):
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("submit guess")
		http.Error(w, `{"error":"guess_failed"}`, http.StatusInternalServerError)
		return
	}

	if finished != nil {
		s.record(r, *finished)
	}
	writeJSON(w, r, resp)
}

// record stores a finished game; failures are logged only.
func (s *Server) record(r *http.Request, row ledger.Result) {
	lg := hlog.FromRequest(r)
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(r.Context(), row); err != nil {
		lg.Warn().Err(err).Str("player", row.PlayerID).Msg("ledger record failed")
		return
	}
	lg.Info().
		Str("player", row.PlayerID).
		Str("outcome", row.Outcome).
		Int("points", row.Points).
		Int("attempts", row.Attempts).
		Msg("game finished")
}

// handleHint reveals one more clue. An exhausted budget is a normal reply,
// not an error.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	var resp hintResp
	err := p.Do(func(e *game.Engine) error {
		h, err := e.RequestHint()
		switch {
		case errors.Is(err, game.ErrNoHints):
			resp = hintResp{Exhausted: true, Message: "No more hints available!"}
		case err != nil:
			return err
		default:
			resp = hintResp{Hint: &h, Message: "Hint: " + h.Text}
		}
		resp.Game = e.Snapshot()
		return nil
	})
	if errors.Is(err, game.ErrNoGame) {
		http.Error(w, `{"error":"no_game"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("request hint")
		http.Error(w, `{"error":"hint_failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, resp)
}

// handleState returns the current snapshot; before any game only the
// profile is populated.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	_ = playerFrom(r).Do(func(e *game.Engine) error {
		snap = e.Snapshot()
		return nil
	})
	writeJSON(w, r, snap)
}

// handleStats returns the caller's profile.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	var prof game.PlayerProfile
	_ = p.Do(func(e *game.Engine) error {
		prof = *e.Profile()
		return nil
	})
	writeJSON(w, r, map[string]any{"playerId": p.ID, "profile": prof})
}

// handleMine lists the caller's finished games, newest first.
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	p := playerFrom(r)
	rows := []ledger.Result{}
	if s.ledger != nil {
		var err error
		rows, err = s.ledger.ByPlayer(r.Context(), p.ID, queryInt(r, "limit"))
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("list games")
			http.Error(w, `{"error":"ledger_unavailable"}`, http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, r, map[string]any{"games": rows})
}

// handleLeaderboard returns the best finished games. ?date= narrows it to
// daily challenges started that UTC day; "today" is accepted.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := ledger.Query{Date: strings.TrimSpace(r.URL.Query().Get("date")), Limit: queryInt(r, "limit")}
	if q.Date == "today" {
		q.Date = daily.DateKey(s.now())
	}
	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
			return
		}
	}
	rows := []ledger.Result{}
	if s.ledger != nil {
		var err error
		rows, err = s.ledger.Leaderboard(r.Context(), q)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
			http.Error(w, `{"error":"ledger_unavailable"}`, http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, r, map[string]any{"date": q.Date, "entries": rows})
}

// queryInt parses a positive integer query parameter; anything else is 0.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, 100)
}
