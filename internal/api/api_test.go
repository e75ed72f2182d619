package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/integrity"
	"github.com/hanafuda/koikoi-go/internal/save"
	"github.com/hanafuda/koikoi-go/internal/stats"
)

func newTestServer() (*Server, http.Handler) {
	manager := save.NewManager(integrity.NewCipher("api-test-salt"), nil)
	server := NewServer(manager, save.NewMemoryStore())
	return server, server.Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeSummary(t *testing.T, rec *httptest.ResponseRecorder) GameSummary {
	t.Helper()
	var summary GameSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v (body %s)", err, rec.Body.String())
	}
	return summary
}

func TestCreateGame(t *testing.T) {
	_, handler := newTestServer()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/games", CreateGameRequest{
		MaxRounds: 6,
		P1Name:    "Hana",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	summary := decodeSummary(t, rec)
	if summary.GameID == "" {
		t.Error("no game id assigned")
	}
	if summary.RoundCounter != 1 || summary.TurnPhase != game.PhaseSelect {
		t.Errorf("unexpected opening state: %+v", summary)
	}
}

func TestCreateGameRejectsBadLength(t *testing.T) {
	_, handler := newTestServer()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/games", CreateGameRequest{MaxRounds: 5})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetGameNotFound(t *testing.T) {
	_, handler := newTestServer()
	rec := doJSON(t, handler, http.MethodGet, "/api/v1/games/nope/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Type != ErrTypeNotFound {
		t.Errorf("error type = %q", apiErr.Type)
	}
}

func TestStartRoundAndAutoPlay(t *testing.T) {
	_, handler := newTestServer()
	created := decodeSummary(t, doJSON(t, handler, http.MethodPost, "/api/v1/games", CreateGameRequest{MaxRounds: 3}))
	base := "/api/v1/games/" + created.GameID

	rec := doJSON(t, handler, http.MethodPost, base+"/start-round", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start-round status = %d, body %s", rec.Code, rec.Body.String())
	}
	summary := decodeSummary(t, rec)
	if !summary.RoundOver {
		if summary.Hands[game.P1] != 8 || summary.Hands[game.P2] != 8 {
			t.Errorf("hands = %v after deal", summary.Hands)
		}
		if len(summary.Field) != 8 || summary.DeckSize != 24 {
			t.Errorf("field %d / deck %d after deal", len(summary.Field), summary.DeckSize)
		}
	}

	// Starting again while the round runs (or just ended) must not
	// silently redeal.
	rec = doJSON(t, handler, http.MethodPost, base+"/start-round", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("restart status = %d, want 409", rec.Code)
	}
	if !summary.RoundOver {
		for turns := 0; turns < 40; turns++ {
			rec = doJSON(t, handler, http.MethodPost, base+"/auto-turn", nil)
			if rec.Code == http.StatusConflict {
				break
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("auto-turn status = %d, body %s", rec.Code, rec.Body.String())
			}
			if decodeSummary(t, rec).RoundOver {
				break
			}
		}
		final := decodeSummary(t, doJSON(t, handler, http.MethodGet, base+"/", nil))
		if !final.RoundOver {
			t.Fatal("round never finished under auto play")
		}
	}
}

func TestCollectBanksFinalCardCompletion(t *testing.T) {
	server, handler := newTestServer()

	session, err := game.NewSession(nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.StartRound(); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	// P1's last hand card matched the poetry ribbon that completes
	// aka-tan; the pair sits staged with both hands already empty.
	table := session.Table
	table.Hand[game.P1] = nil
	table.Hand[game.P2] = nil
	table.Collection[game.P1] = []cards.Name{"matsu-no-tan", "ume-no-tan"}
	table.Collection[game.P2] = nil
	table.Field = []cards.Name{"sakura-no-tan", "sakura-no-kasu-1"}
	table.Staged = nil
	table.StageForCollection([]cards.Name{"sakura-no-tan", "sakura-no-kasu-1"})
	session.Data.TurnPhase = game.PhaseCollect
	server.register(session)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/games/"+session.Data.GameID+"/collect", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("collect status = %d, body %s", rec.Code, rec.Body.String())
	}
	summary := decodeSummary(t, rec)
	if !summary.RoundOver {
		t.Fatal("round still open after final-card completion")
	}
	if len(summary.Results) == 0 {
		t.Fatal("no round result recorded")
	}
	result := summary.Results[0]
	if result.Winner != game.P1 {
		t.Errorf("winner = %q, want p1", result.Winner)
	}
	if result.Score == 0 {
		t.Error("completion on the final card scored nothing")
	}
	found := false
	for _, report := range result.CompletedYaku {
		if report.Name == "aka-tan" {
			found = true
		}
	}
	if !found {
		t.Errorf("completed yaku = %+v, want aka-tan", result.CompletedYaku)
	}
}

func TestSaveAndRestoreThroughAPI(t *testing.T) {
	_, handler := newTestServer()
	created := decodeSummary(t, doJSON(t, handler, http.MethodPost, "/api/v1/games", nil))
	base := "/api/v1/games/" + created.GameID

	if rec := doJSON(t, handler, http.MethodPost, base+"/start-round", nil); rec.Code != http.StatusOK {
		t.Fatalf("start-round status = %d", rec.Code)
	}

	rec := doJSON(t, handler, http.MethodPost, base+"/save", SaveGameRequest{UID: "u1", Mode: save.ModeSingle})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}
	var record save.GameSaveRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.GameID != created.GameID {
		t.Errorf("record game id = %q, want %q", record.GameID, created.GameID)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/saves/restore", RestoreRequest{UID: "u1", Mode: save.ModeSingle})
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d, body %s", rec.Code, rec.Body.String())
	}
	restored := decodeSummary(t, rec)
	if restored.GameID != created.GameID {
		t.Errorf("restored game id = %q, want %q", restored.GameID, created.GameID)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/saves/u1", nil)
	var records []save.GameSaveRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("listed %d saves, want 1", len(records))
	}
}

func TestRestoreMissingSlot(t *testing.T) {
	_, handler := newTestServer()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/saves/restore", RestoreRequest{UID: "nobody", Mode: save.ModeSingle})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMultiplayerSaveGuardOverAPI(t *testing.T) {
	_, handler := newTestServer()
	created := decodeSummary(t, doJSON(t, handler, http.MethodPost, "/api/v1/games", nil))
	base := "/api/v1/games/" + created.GameID

	rec := doJSON(t, handler, http.MethodPost, base+"/save", SaveGameRequest{
		UID: "guest-1", Mode: save.ModeMultiplayer, IsGuest: true, Seat: "p1",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("guest multiplayer save: status %d, want 403", rec.Code)
	}
}

func TestProfileRoundTripOverAPI(t *testing.T) {
	_, handler := newTestServer()

	profile := stats.NewProfile("u1", "hanako")
	rec := doJSON(t, handler, http.MethodPut, "/api/v1/profiles/u1", profile)
	if rec.Code != http.StatusOK {
		t.Fatalf("put profile status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile status = %d", rec.Code)
	}
	var got stats.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if got.Username != "hanako" || got.Record.Coins != stats.StartingCoins {
		t.Errorf("profile = %+v", got)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/other", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, handler := newTestServer()
	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if status.Status != "ok" || !status.StoreEnabled {
		t.Errorf("health = %+v", status)
	}
}
