package world

import (
	"context"
	"time"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []LeaveRequest
	var pendingActions []ActionEnvelope

	for {
		select {
		case <-ctx.Done():
			w.flushAll()
			return ctx.Err()
		case <-w.stop:
			w.flushAll()
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case req := <-w.leave:
			pendingLeaves = append(pendingLeaves, req)
		case env := <-w.inbox:
			pendingActions = append(pendingActions, env)
		case <-ticker.C:
			w.step(pendingJoins, pendingLeaves, pendingActions)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingActions = pendingActions[:0]
		}
	}
}

// step advances the world by one tick: admit joins, apply queued actions,
// retire leaves, then run the reset countdowns. Everything here executes on
// the one goroutine that owns the containers, so trades and resets against
// the same store can never interleave.
func (w *World) step(joins []JoinRequest, leaves []LeaveRequest, actions []ActionEnvelope) {
	for _, req := range joins {
		w.handleJoin(req)
	}
	for _, env := range actions {
		w.handleAction(env)
	}
	for _, req := range leaves {
		w.handleLeave(req)
	}
	w.stepResets()
	w.tick++
}

// StepOnce advances the world by a single tick with the same ordering as the
// server loop. Intended for tests.
func (w *World) StepOnce(joins []JoinRequest, leaves []LeaveRequest, actions []ActionEnvelope) uint64 {
	w.step(joins, leaves, actions)
	return w.tick
}

// flushAll saves every connected player on shutdown.
func (w *World) flushAll() {
	for id, s := range w.sessions {
		w.savePlayer(id, s)
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
