package api

import (
	"net/http"
	"time"
)

// HealthStatus is the health endpoint body.
type HealthStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	LiveSessions int    `json:"liveSessions"`
	StoreEnabled bool   `json:"storeEnabled"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sessions := len(s.sessions)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, HealthStatus{
		Status:       "ok",
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
		LiveSessions: sessions,
		StoreEnabled: s.store != nil,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, VersionInfo{
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
	})
}
