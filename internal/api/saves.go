package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/save"
	"github.com/hanafuda/koikoi-go/internal/stats"
)

func (s *Server) handleSaveGame(w http.ResponseWriter, r *http.Request) {
	session := s.lookupSession(w, r)
	if session == nil {
		return
	}
	var req SaveGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UID == "" {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "uid is required")
		return
	}
	state, err := s.manager.Serialize(session)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	ctx := save.SaveContext{
		UID:     req.UID,
		IsGuest: req.IsGuest,
		Seat:    game.PlayerKey(req.Seat),
	}
	record, err := save.BuildRecord(ctx, req.Mode, state, session)
	if err != nil {
		s.writeError(w, http.StatusForbidden, ErrTypeValidation, err.Error())
		return
	}
	if err := s.store.PutSave(record); err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleRestoreGame(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.UID == "" {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "uid is required")
		return
	}
	record, err := s.store.GetSave(req.UID, save.SaveKey(req.Mode))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if record == nil {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no save in slot")
		return
	}
	state, err := save.Decode(record.GameState)
	if err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	session, err := game.NewSession(nil, s.logger)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if err := s.manager.Deserialize(session, state); err != nil {
		s.writeError(w, http.StatusConflict, ErrTypeConflict, err.Error())
		return
	}
	s.register(session)
	s.writeJSON(w, http.StatusOK, summarize(session))
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	records, err := s.store.ListSaves(uid)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if records == nil {
		records = []save.GameSaveRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	profile, err := s.store.GetProfile(uid)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if profile == nil {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "profile not found: "+uid)
		return
	}
	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	var profile stats.Profile
	if !s.decode(w, r, &profile) {
		return
	}
	if profile.UID == "" {
		profile.UID = uid
	}
	if profile.UID != uid {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "uid mismatch")
		return
	}
	if profile.Stats != nil {
		profile.Stats = stats.VerifyOrReset(profile.Stats)
	}
	if err := s.store.PutProfile(&profile); err != nil {
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, &profile)
}
