package game

import (
	"context"
	"time"
)

// Decision is the state of the koi-koi call sub-protocol.
type Decision string

const (
	// DecisionNone means no decision is in flight.
	DecisionNone Decision = ""
	// DecisionPending means the engine is waiting for the player.
	DecisionPending Decision = "pending"
	// DecisionKoiKoi continues the round for a bigger multiplier.
	DecisionKoiKoi Decision = "koikoi"
	// DecisionStop banks the points and ends the round.
	DecisionStop Decision = "stop"
)

// DecisionHandler runs the koi-koi call protocol for one session. The
// engine opens a decision, an external caller (UI or the automated
// opponent) resolves it, and Await polls until that happens.
type DecisionHandler struct {
	state Decision
}

// NewDecisionHandler starts with no decision pending.
func NewDecisionHandler() *DecisionHandler {
	return &DecisionHandler{}
}

// Get returns the current decision state.
func (d *DecisionHandler) Get() Decision {
	return d.state
}

// Pending reports whether a decision is awaiting input.
func (d *DecisionHandler) Pending() bool {
	return d.state == DecisionPending
}

// KoiKoiCalled reports whether the last decision was koi-koi.
func (d *DecisionHandler) KoiKoiCalled() bool {
	return d.state == DecisionKoiKoi
}

// StopCalled reports whether the last decision was stop.
func (d *DecisionHandler) StopCalled() bool {
	return d.state == DecisionStop
}

// CallKoiKoi resolves the pending decision as koi-koi.
func (d *DecisionHandler) CallKoiKoi() {
	d.state = DecisionKoiKoi
}

// CallStop resolves the pending decision as stop.
func (d *DecisionHandler) CallStop() {
	d.state = DecisionStop
}

// Begin marks a decision as pending.
func (d *DecisionHandler) Begin() {
	d.state = DecisionPending
}

// Reset clears the decision at a round or game boundary.
func (d *DecisionHandler) Reset() {
	d.state = DecisionNone
}

// Await polls until the pending decision resolves or the context is
// done. It returns the final decision state.
func (d *DecisionHandler) Await(ctx context.Context, interval time.Duration) (Decision, error) {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for d.Pending() {
		select {
		case <-ctx.Done():
			return d.state, ctx.Err()
		case <-ticker.C:
		}
	}
	return d.state, nil
}

// AutoDecide resolves a pending decision for an automated player. The
// policy weighs the collection lead against the cards left to play: a
// near-empty hand stops regardless of the lead, a strong lead with
// cards in hand continues.
func (d *DecisionHandler) AutoDecide(ownCollected, opponentCollected, handSize int) Decision {
	if handSize <= 1 {
		d.CallStop()
		return d.state
	}
	lead := ownCollected - opponentCollected
	if lead >= 0 && handSize >= 3 {
		d.CallKoiKoi()
		return d.state
	}
	d.CallStop()
	return d.state
}
