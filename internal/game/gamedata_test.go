package game

import (
	"strings"
	"testing"
)

func TestPhaseCycleTogglesPlayers(t *testing.T) {
	data := NewGameData(testLogger())
	players := NewPlayers()

	if !data.CheckCurrentPhase(PhaseSelect) {
		t.Fatalf("initial phase = %q, want select", data.TurnPhase)
	}

	data.NextPhase(players)
	if !data.CheckCurrentPhase(PhaseDraw) {
		t.Errorf("phase = %q after one step, want draw", data.TurnPhase)
	}
	data.NextPhase(players)
	if !data.CheckCurrentPhase(PhaseCollect) {
		t.Errorf("phase = %q after two steps, want collect", data.TurnPhase)
	}

	// Wrapping to select hands the turn to the other player.
	data.NextPhase(players)
	if !data.CheckCurrentPhase(PhaseSelect) {
		t.Errorf("phase = %q after wrap, want select", data.TurnPhase)
	}
	if players.Active().ID != P2 {
		t.Errorf("active = %s after wrap, want p2", players.Active().ID)
	}
	if data.TurnCounter != 1 {
		t.Errorf("turn counter = %d mid-turn, want 1", data.TurnCounter)
	}

	// Back to the dealer: the turn counter advances.
	for i := 0; i < 3; i++ {
		data.NextPhase(players)
	}
	if players.Active().ID != P1 {
		t.Errorf("active = %s after full cycle, want p1", players.Active().ID)
	}
	if data.TurnCounter != 2 {
		t.Errorf("turn counter = %d after full cycle, want 2", data.TurnCounter)
	}
}

func TestStartRoundRefusesWhileRoundOver(t *testing.T) {
	data := NewGameData(testLogger())
	table := newTestTable(t)

	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	data.SaveResult(RoundResult{Winner: P1, Score: 6})
	data.EndRound(3)

	if err := data.StartRound(table); err == nil {
		t.Fatal("StartRound succeeded with roundOver still set")
	}

	data.NextRound(NewPlayers(), table)
	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound after NextRound: %v", err)
	}
	if data.RoundCounter != 2 {
		t.Errorf("round counter = %d, want 2", data.RoundCounter)
	}
}

func TestStartRoundRefusesWhileDealt(t *testing.T) {
	data := NewGameData(testLogger())
	table := newTestTable(t)

	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	// Restarting mid-round must not redeal. Two rejected retries also
	// prove the deck cannot be drained below a dealable size.
	for i := 0; i < 2; i++ {
		if err := data.StartRound(table); err == nil {
			t.Fatal("StartRound redealt into a round in progress")
		}
	}
	if n := len(table.Hand[P1]); n != 8 {
		t.Errorf("p1 hand = %d cards after rejected restart, want 8", n)
	}
	if n := len(table.Deck); n != 24 {
		t.Errorf("deck = %d cards after rejected restart, want 24", n)
	}
}

func TestEndRoundRecordsDrawWhenNoResult(t *testing.T) {
	data := NewGameData(testLogger())
	table := newTestTable(t)
	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	data.EndRound(3)
	result := data.CurrentResult()
	if result == nil {
		t.Fatal("no result recorded for ended round")
	}
	if result.Winner != "" || result.Score != 0 {
		t.Errorf("drawn round recorded as %+v", result)
	}
}

func TestGameEndsAtRoundLimit(t *testing.T) {
	const maxRounds = 2
	data := NewGameData(testLogger())
	players := NewPlayers()
	table := newTestTable(t)

	for round := 1; round <= maxRounds; round++ {
		if err := data.StartRound(table); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		data.SaveResult(RoundResult{Winner: P1, Score: 1})
		data.EndRound(maxRounds)
		if round < maxRounds {
			if data.GameOver {
				t.Fatalf("game over after round %d of %d", round, maxRounds)
			}
			data.NextRound(players, table)
		}
	}
	if !data.GameOver {
		t.Error("game not over at the round limit")
	}
}

func TestGameEndsWhenPointsExhausted(t *testing.T) {
	const maxRounds = 12
	data := NewGameData(testLogger())
	table := newTestTable(t)
	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	// A huge first-round win drains the loser's entire stake.
	data.SaveResult(RoundResult{Winner: P1, Score: 10 * maxRounds})
	data.EndRound(maxRounds)
	if !data.GameOver {
		t.Error("game not over with opponent's points exhausted")
	}
}

func TestScoreboardClamping(t *testing.T) {
	const maxRounds = 3
	data := NewGameData(testLogger())
	data.RoundHistory = []RoundResult{
		{Round: 1, Winner: P1, Score: 100},
	}

	board := data.ComputeScoreboard(maxRounds)
	if board.P1 != 60 {
		t.Errorf("winner score = %d, want clamped to 60", board.P1)
	}
	if board.P2 != 0 {
		t.Errorf("loser score = %d, want clamped to 0", board.P2)
	}
}

func TestScoreboardZeroSumWithinBounds(t *testing.T) {
	const maxRounds = 6
	data := NewGameData(testLogger())
	data.RoundHistory = []RoundResult{
		{Round: 1, Winner: P1, Score: 7},
		{Round: 2, Winner: P2, Score: 3},
		{Round: 3},
	}

	board := data.ComputeScoreboard(maxRounds)
	if board.P1 != 64 {
		t.Errorf("p1 = %d, want 64", board.P1)
	}
	if board.P2 != 56 {
		t.Errorf("p2 = %d, want 56", board.P2)
	}
}

func TestGameDataStateRoundTrip(t *testing.T) {
	data := NewGameData(testLogger())
	table := newTestTable(t)
	if err := data.StartRound(table); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	data.LogPlayerAction(P1, ActionDiscard, table.Hand[P1][:1], "")
	data.SaveResult(RoundResult{Winner: P1, Score: 5})

	serialized, err := data.ExportState()
	if err != nil {
		t.Fatalf("ExportState: %v", err)
	}

	restored := NewGameData(testLogger())
	if !restored.ImportState(serialized) {
		t.Fatal("ImportState rejected a valid snapshot")
	}
	if restored.GameID != data.GameID {
		t.Errorf("game id = %q, want %q", restored.GameID, data.GameID)
	}
	if restored.RoundCounter != data.RoundCounter {
		t.Errorf("round counter = %d, want %d", restored.RoundCounter, data.RoundCounter)
	}
	if len(restored.RoundHistory) != 1 || restored.RoundHistory[0].Winner != P1 {
		t.Errorf("round history = %+v", restored.RoundHistory)
	}
	if len(restored.EventHistory) != len(data.EventHistory) {
		t.Errorf("event history = %d entries, want %d", len(restored.EventHistory), len(data.EventHistory))
	}
}

func TestGameDataImportRejectsGarbage(t *testing.T) {
	data := NewGameData(testLogger())
	for name, serialized := range map[string]string{
		"not json":      "{",
		"empty object":  "{}",
		"missing id":    `{"roundHistory":[]}`,
		"missing round": `{"gameId":"abc"}`,
	} {
		if data.ImportState(serialized) {
			t.Errorf("%s: ImportState accepted %q", name, serialized)
		}
	}
}

func TestResetReturnsArchivedHistory(t *testing.T) {
	data := NewGameData(testLogger())
	data.RoundHistory = []RoundResult{{Round: 1, Winner: P2, Score: 8}}
	data.GameOver = true

	record := data.Reset()
	if !strings.Contains(record, `"winner":"p2"`) {
		t.Errorf("archived history missing winner: %s", record)
	}
	if data.GameOver || data.RoundOver || len(data.RoundHistory) != 0 {
		t.Error("reset left stale progression state")
	}
}
