package world

import (
	"errors"
	"fmt"

	"sojourn.world/internal/persistence/reconlog"
	"sojourn.world/internal/protocol"
	"sojourn.world/internal/sim/barter"
	"sojourn.world/internal/sim/inventory"
)

func (w *World) handleJoin(req JoinRequest) {
	if req.Out == nil || req.Resp == nil {
		return
	}

	playerID := req.PlayerID
	var inv *inventory.Inventory

	// Reconnect over a live session: the in-memory inventory is the
	// authoritative copy and carries trades the persisted one does not.
	// The displaced connection's own queued leave is matched by out
	// channel in handleLeave and cannot touch the replacement.
	if playerID != "" {
		if old := w.sessions[playerID]; old != nil {
			inv = old.inv
			delete(w.sessions, playerID)
			close(old.out)
		}
	}

	if inv == nil && playerID != "" && w.players != nil {
		loaded, ok, err := w.players.Load(playerID)
		if err != nil {
			w.log.Printf("join %s: load inventory: %v", playerID, err)
			req.Resp <- JoinResponse{Err: err}
			return
		}
		if ok {
			inv = loaded
		}
	}
	if playerID == "" {
		w.nextPlayerNum++
		playerID = fmt.Sprintf("P%06d", w.nextPlayerNum)
	}
	if inv == nil {
		inv = inventory.New(w.cfg.InventoryRows, w.cfg.InventoryCols, w.cfg.QuickSlots)
	}

	s := &session{
		playerID: playerID,
		name:     req.Name,
		inv:      inv,
		out:      req.Out,
	}
	w.sessions[playerID] = s
	req.Resp <- JoinResponse{PlayerID: playerID}

	// A new subscriber starts from a full mirror: their own inventory plus
	// every store catalog.
	w.sendPlayerSnapshot(s)
	for _, st := range w.stores {
		w.sendStoreSnapshot(s, st)
	}
}

func (w *World) handleLeave(req LeaveRequest) {
	s := w.sessions[req.PlayerID]
	if s == nil {
		return
	}
	// A leave from a displaced connection must not flush or close the
	// session that replaced it.
	if req.Out != nil && s.out != req.Out {
		return
	}
	w.savePlayer(req.PlayerID, s)
	delete(w.sessions, req.PlayerID)
	close(s.out)
}

func (w *World) savePlayer(playerID string, s *session) {
	if w.players == nil {
		return
	}
	if err := w.players.Save(playerID, s.inv); err != nil {
		w.log.Printf("save %s: %v", playerID, err)
	}
}

func (w *World) handleAction(env ActionEnvelope) {
	s := w.sessions[env.PlayerID]
	if s == nil {
		return
	}
	switch {
	case env.Transfer != nil:
		w.handleTransfer(s, *env.Transfer)
	case env.SnapshotReq != nil:
		w.handleSnapshotReq(s, *env.SnapshotReq)
	}
}

func (w *World) handleTransfer(s *session, msg protocol.TransferMsg) {
	st := w.stores[msg.StoreNumber]
	if st == nil {
		w.sendActionResult(s, msg.ReqID, false, protocol.ErrInvalidTarget, "unknown store", barter.Receipt{})
		return
	}

	var rcpt barter.Receipt
	var err error
	switch msg.Kind {
	case protocol.TransferSell:
		rcpt, err = barter.SellToStore(s.inv, st.working, msg.Row, msg.Col)
	case protocol.TransferBuy:
		rcpt, err = barter.BuyFromStore(s.inv, st.working, msg.ItemID)
	default:
		w.sendActionResult(s, msg.ReqID, false, protocol.ErrBadRequest, "unknown transfer kind", barter.Receipt{})
		return
	}

	if err != nil {
		var df *barter.DoubleFaultError
		if errors.As(err, &df) {
			// The rollback failed: the item and currency named here are
			// lost to the containers and must be reconciled by hand.
			w.log.Printf("CRITICAL: double fault: player=%s store=%d: %v", s.playerID, st.number, err)
			if w.audit != nil {
				if aerr := w.audit.WriteDoubleFault(reconlog.DoubleFaultRecord{
					Tick:        w.tick,
					PlayerID:    s.playerID,
					StoreNumber: st.number,
					Kind:        df.Op,
					ItemID:      df.Item.ID,
					ItemValue:   df.Item.Value,
					Price:       df.Price,
					Cause:       df.Cause.Error(),
				}); aerr != nil {
					w.log.Printf("CRITICAL: double fault not recorded: %v", aerr)
				}
			}
			// Mirrors must still converge on whatever state remains.
			w.sendPlayerSnapshot(s)
			w.broadcastStore(st)
		} else {
			w.log.Printf("transfer rejected: player=%s store=%d kind=%s: %v", s.playerID, st.number, msg.Kind, err)
		}
		code, text := transferErrorCode(err)
		// A rejected transfer changes no state, so no broadcast follows;
		// the requester gets an explicit result instead of silence.
		w.sendActionResult(s, msg.ReqID, false, code, text, barter.Receipt{})
		return
	}

	if w.audit != nil {
		if aerr := w.audit.WriteTrade(reconlog.TradeRecord{
			Tick:        w.tick,
			PlayerID:    s.playerID,
			StoreNumber: st.number,
			Kind:        msg.Kind,
			ItemID:      rcpt.Item.ID,
			Price:       rcpt.Price,
			Clamped:     rcpt.Clamped,
		}); aerr != nil {
			w.log.Printf("trade not recorded: %v", aerr)
		}
	}

	w.sendActionResult(s, msg.ReqID, true, "", "", rcpt)
	w.sendPlayerSnapshot(s)
	w.broadcastStore(st)
}

func (w *World) handleSnapshotReq(s *session, msg protocol.SnapshotReqMsg) {
	switch msg.Container {
	case protocol.ContainerPlayer:
		w.sendPlayerSnapshot(s)
	case protocol.ContainerStore:
		st := w.stores[msg.StoreNumber]
		if st == nil {
			w.sendActionResult(s, msg.ReqID, false, protocol.ErrInvalidTarget, "unknown store", barter.Receipt{})
			return
		}
		w.sendStoreSnapshot(s, st)
	default:
		w.sendActionResult(s, msg.ReqID, false, protocol.ErrBadRequest, "unknown container", barter.Receipt{})
		return
	}
	w.sendActionResult(s, msg.ReqID, true, "", "", barter.Receipt{})
}

func transferErrorCode(err error) (code, text string) {
	switch {
	case errors.Is(err, barter.ErrValidation):
		return protocol.ErrNoResource, "claim does not match store state"
	case errors.Is(err, barter.ErrUnderFunded):
		return protocol.ErrNoResource, "not enough gold"
	case errors.Is(err, inventory.ErrBounds):
		return protocol.ErrBadRequest, "position out of range"
	case errors.Is(err, inventory.ErrFull):
		return protocol.ErrFull, "destination full"
	default:
		return protocol.ErrInternal, "internal error"
	}
}
