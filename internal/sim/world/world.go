// Package world runs the authoritative game state: every player inventory
// and store catalog is owned by a single goroutine, and all mutation enters
// through channels. Remote clients hold read-only mirrors fed by full
// snapshot overwrites; they never touch authoritative state directly.
package world

import (
	"fmt"
	"log"

	"sojourn.world/internal/persistence/reconlog"
	"sojourn.world/internal/protocol"
	"sojourn.world/internal/sim/catalogs"
	"sojourn.world/internal/sim/inventory"
	"sojourn.world/internal/sim/tuning"
)

// PlayerStore hydrates player inventories at session start and flushes them
// at session end.
type PlayerStore interface {
	Load(playerID string) (*inventory.Inventory, bool, error)
	Save(playerID string, inv *inventory.Inventory) error
}

// AuditSink receives committed trades and critical double-fault records.
type AuditSink interface {
	WriteTrade(reconlog.TradeRecord) error
	WriteDoubleFault(reconlog.DoubleFaultRecord) error
}

type Config struct {
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
	Players  PlayerStore
	Audit    AuditSink
	Logger   *log.Logger
}

type World struct {
	cfg     tuning.Tuning
	cats    *catalogs.Catalogs
	players PlayerStore
	audit   AuditSink
	log     *log.Logger

	tick          uint64
	nextPlayerNum uint64

	sessions map[string]*session
	stores   map[int]*store

	inbox chan ActionEnvelope
	join  chan JoinRequest
	leave chan LeaveRequest
	stop  chan struct{}
}

// session is one connected player: the authoritative inventory plus the
// outbound snapshot/event queue consumed by the transport writer.
type session struct {
	playerID string
	name     string
	inv      *inventory.Inventory
	out      chan []byte
}

// store pairs the immutable template with the working catalog trades run
// against, plus the reset countdown.
type store struct {
	number         int
	template       *inventory.Catalog
	working        *inventory.Catalog
	resetRemaining int
}

type ActionEnvelope struct {
	PlayerID    string
	Transfer    *protocol.TransferMsg
	SnapshotReq *protocol.SnapshotReqMsg
}

type JoinRequest struct {
	Name     string
	PlayerID string // non-empty resumes an existing player
	Out      chan []byte
	Resp     chan JoinResponse
}

type JoinResponse struct {
	PlayerID string
	Err      error
}

// LeaveRequest retires one connection. Out identifies which connection is
// leaving: a leave whose channel no longer matches the registered session
// came from a displaced connection and is ignored. A nil Out always matches.
type LeaveRequest struct {
	PlayerID string
	Out      chan []byte
}

// New builds the world and brings every configured store online. A store
// whose template cannot be built is a fatal configuration error.
func New(cfg Config) (*World, error) {
	if cfg.Catalogs == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	w := &World{
		cfg:      cfg.Tuning,
		cats:     cfg.Catalogs,
		players:  cfg.Players,
		audit:    cfg.Audit,
		log:      cfg.Logger,
		sessions: map[string]*session{},
		stores:   map[int]*store{},
		inbox:    make(chan ActionEnvelope, 256),
		join:     make(chan JoinRequest, 16),
		leave:    make(chan LeaveRequest, 16),
		stop:     make(chan struct{}),
	}

	for _, n := range cfg.Catalogs.Numbers() {
		tmpl, err := cfg.Catalogs.Template(n, cfg.Tuning.CatalogSize)
		if err != nil {
			return nil, fmt.Errorf("world: store %d: %w", n, err)
		}
		w.stores[n] = &store{
			number:         n,
			template:       tmpl,
			working:        tmpl.Clone(),
			resetRemaining: cfg.Tuning.StoreResetTicks,
		}
	}
	return w, nil
}

func (w *World) Inbox() chan<- ActionEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest     { return w.join }
func (w *World) Leave() chan<- LeaveRequest   { return w.leave }

func (w *World) Stop() { close(w.stop) }

func (w *World) Tick() uint64 { return w.tick }

// Params reports the world dimensions advertised in WELCOME.
func (w *World) Params() protocol.WorldParams {
	return protocol.WorldParams{
		TickRateHz:      w.cfg.TickRateHz,
		InventoryRows:   w.cfg.InventoryRows,
		InventoryCols:   w.cfg.InventoryCols,
		QuickSlots:      w.cfg.QuickSlots,
		CatalogSize:     w.cfg.CatalogSize,
		StoreResetTicks: w.cfg.StoreResetTicks,
	}
}

// SessionQueueCap is the configured default for a session's outbound queue.
func (w *World) SessionQueueCap() int { return w.cfg.SessionQueueCap }

// CatalogRefs reports the config digests advertised in WELCOME.
func (w *World) CatalogRefs() protocol.CatalogRefs {
	return protocol.CatalogRefs{
		ItemsDigest:  w.cats.Items.Digest,
		StoresDigest: w.cats.Stores.Digest,
	}
}

// StoreNumbers lists the stores that came online.
func (w *World) StoreNumbers() []int {
	out := make([]int, 0, len(w.stores))
	for n := range w.stores {
		out = append(out, n)
	}
	return out
}
