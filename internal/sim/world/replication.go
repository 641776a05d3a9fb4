package world

import (
	"encoding/json"

	"sojourn.world/internal/protocol"
	"sojourn.world/internal/sim/barter"
	"sojourn.world/internal/sim/inventory"
)

// Replication is full-overwrite: every outbound snapshot carries the whole
// sanitized container plus a version that increases on every send, so a
// mirror applying snapshots in version order can never regress to stale
// state even when deliveries race. Sends are fire-and-forget; a dropped
// snapshot leaves a mirror stale until the next mutation or explicit
// refresh.

// sendPlayerSnapshot pushes a player's own inventory mirror. Player
// inventories are only ever replicated to their owning session.
func (w *World) sendPlayerSnapshot(s *session) {
	s.inv.Sanitize()
	msg := protocol.SnapshotMsg{
		Type:            protocol.TypeSnapshot,
		ProtocolVersion: protocol.Version,
		Container:       protocol.ContainerPlayer,
		PlayerID:        s.playerID,
		Version:         s.inv.NextVersion(),
		Inventory:       toPlayerState(s.inv),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		w.log.Printf("marshal player snapshot: %v", err)
		return
	}
	sendLatest(s.out, b)
}

// broadcastStore pushes the store's working catalog to every connected
// session. There is no diffing; each broadcast is a complete overwrite.
func (w *World) broadcastStore(st *store) {
	b, ok := w.buildStoreSnapshot(st)
	if !ok {
		return
	}
	for _, s := range w.sessions {
		sendLatest(s.out, b)
	}
}

// sendStoreSnapshot pushes one store mirror to a single session, used when
// an observer newly subscribes or asks for a refresh.
func (w *World) sendStoreSnapshot(s *session, st *store) {
	b, ok := w.buildStoreSnapshot(st)
	if !ok {
		return
	}
	sendLatest(s.out, b)
}

func (w *World) buildStoreSnapshot(st *store) ([]byte, bool) {
	st.working.Sanitize()
	msg := protocol.SnapshotMsg{
		Type:            protocol.TypeSnapshot,
		ProtocolVersion: protocol.Version,
		Container:       protocol.ContainerStore,
		StoreNumber:     st.number,
		Version:         st.working.NextVersion(),
		Catalog:         toCatalogState(st.working),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		w.log.Printf("marshal store snapshot: %v", err)
		return nil, false
	}
	return b, true
}

func (w *World) sendActionResult(s *session, reqID string, ok bool, code, text string, rcpt barter.Receipt) {
	msg := protocol.ActionResultMsg{
		Type:            protocol.TypeActionResult,
		ProtocolVersion: protocol.Version,
		ReqID:           reqID,
		OK:              ok,
		Code:            code,
		Message:         text,
		Price:           rcpt.Price,
		Clamped:         rcpt.Clamped,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		w.log.Printf("marshal action result: %v", err)
		return
	}
	sendLatest(s.out, b)
}

func toPlayerState(inv *inventory.Inventory) *protocol.PlayerState {
	return &protocol.PlayerState{
		Rows:  inv.Rows(),
		Cols:  inv.Cols(),
		Slots: toSlotStates(inv.Slots()),
		Quick: toSlotStates(inv.QuickSlots()),
		Gold:  inv.Gold(),
	}
}

func toCatalogState(cat *inventory.Catalog) *protocol.CatalogState {
	return &protocol.CatalogState{
		Size:  cat.Size(),
		Slots: toSlotStates(cat.Slots()),
		Coins: cat.Coins(),
	}
}

func toSlotStates(items []inventory.Item) []protocol.SlotState {
	out := make([]protocol.SlotState, len(items))
	for i, it := range items {
		out[i] = protocol.SlotState{ID: it.ID, Value: it.Value, Prefab: it.Prefab}
	}
	return out
}
