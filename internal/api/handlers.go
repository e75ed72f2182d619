package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanafuda/koikoi-go/internal/game"
)

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "malformed request body")
		return false
	}
	return true
}

// lookupSession resolves the gameID route parameter or writes a 404.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) *game.Session {
	gameID := chi.URLParam(r, "gameID")
	session := s.session(gameID)
	if session == nil {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "game not found: "+gameID)
	}
	return session
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	config := game.DefaultConfig()
	if req.MaxRounds != 0 {
		valid := false
		for _, n := range game.GameLengths {
			if n == req.MaxRounds {
				valid = true
			}
		}
		if !valid {
			s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "unsupported game length")
			return
		}
		config.MaxRounds = req.MaxRounds
	}
	if req.AllowViewingsYaku != "" {
		config.AllowViewingsYaku = req.AllowViewingsYaku
	}
	config.DoubleScoreOverSeven = req.DoubleScoreOverSeven
	config.SakeIsWildCard = req.SakeIsWildCard

	session, err := game.NewSession(config, s.logger)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if req.P1Name != "" {
		session.Players.SetName(game.P1, req.P1Name)
	}
	if req.P2Name != "" {
		session.Players.SetName(game.P2, req.P2Name)
	}
	s.register(session)
	s.writeJSON(w, http.StatusCreated, summarize(session))
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if err := session.StartRound(); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	// A dealt instant-win hand ends the round immediately; the summary
	// carries the recorded result either way.
	session.CheckDealtTeyaku()
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	var req SelectRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := session.SelectFromHand(req.Card); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if err := session.PlaySelected(); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if err := session.Draw(); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	if err := session.PlaySelected(); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if err := session.Collect(); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	active := session.Players.Active()
	session.Data.NextPhase(session.Players)
	if active != nil {
		fresh := session.EvaluateCompletions(active.ID)
		switch {
		case len(fresh) > 0 && !session.Decision.Pending():
			// Completed on the last hand card: nothing left to play
			// for, so the points bank immediately.
			session.CallStop(active.ID)
		case !session.Decision.Pending() && session.Table.HandsEmpty():
			session.EndRoundDrawn()
		}
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	var req DecisionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !session.Decision.Pending() {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, "no decision pending")
		return
	}
	// The decision belongs to the player who just finished the turn.
	caller := session.Players.Inactive()
	if caller == nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "corrupted player state")
		return
	}
	switch req.Call {
	case string(game.DecisionKoiKoi):
		session.CallKoiKoi(caller.ID)
	case string(game.DecisionStop):
		session.CallStop(caller.ID)
	default:
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "call must be koikoi or stop")
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleAutoTurn(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if session.Data.RoundOver || session.Data.GameOver {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, "round is over")
		return
	}
	if _, err := session.PlayAutoTurn(); err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	if !session.Data.RoundOver {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, "round still in progress")
		return
	}
	if session.Data.GameOver {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, "game is over")
		return
	}
	session.AdvanceRound()
	s.writeJSON(w, http.StatusOK, summarize(session))
}
