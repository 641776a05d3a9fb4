package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	PlayerName      string            `json:"player_name"`
	PlayerID        string            `json:"player_id,omitempty"` // resume an existing player
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	PlayerID        string      `json:"player_id"`
	WorldParams     WorldParams `json:"world_params"`
	Catalogs        CatalogRefs `json:"catalogs"`
	Stores          []int       `json:"stores"`
}

type WorldParams struct {
	TickRateHz      int `json:"tick_rate_hz"`
	InventoryRows   int `json:"inventory_rows"`
	InventoryCols   int `json:"inventory_cols"`
	QuickSlots      int `json:"quick_slots"`
	CatalogSize     int `json:"catalog_size"`
	StoreResetTicks int `json:"store_reset_ticks"`
}

type CatalogRefs struct {
	ItemsDigest  string `json:"items_digest"`
	StoresDigest string `json:"stores_digest"`
}

// TRANSFER (client -> server): a buy or sell request against a store.
// SELL carries the claimed grid position; BUY carries the catalog item id.
type TransferMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id"`
	Kind            string `json:"kind"` // "SELL" or "BUY"
	StoreNumber     int    `json:"store_number"`
	Row             int    `json:"row,omitempty"`
	Col             int    `json:"col,omitempty"`
	ItemID          string `json:"item_id,omitempty"`
}

// SNAPSHOT_REQ (client -> server): explicit refresh of one container.
type SnapshotReqMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id"`
	Container       string `json:"container"` // "PLAYER" or "STORE"
	StoreNumber     int    `json:"store_number,omitempty"`
}

// SNAPSHOT (server -> client): a full overwrite of one container mirror.
// Version increases monotonically per container; clients must discard
// snapshots older than the version they already hold.
type SnapshotMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	Container       string        `json:"container"`
	PlayerID        string        `json:"player_id,omitempty"`
	StoreNumber     int           `json:"store_number,omitempty"`
	Version         uint64        `json:"version"`
	Inventory       *PlayerState  `json:"inventory,omitempty"`
	Catalog         *CatalogState `json:"catalog,omitempty"`
}

type PlayerState struct {
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Slots []SlotState `json:"slots"`
	Quick []SlotState `json:"quick"`
	Gold  int64      `json:"gold"`
}

type CatalogState struct {
	Size  int        `json:"size"`
	Slots []SlotState `json:"slots"`
	Coins int64      `json:"coins"`
}

// SlotState is either an item or the explicit empty sentinel (empty id).
type SlotState struct {
	ID     string `json:"id"`
	Value  int64  `json:"value,omitempty"`
	Prefab string `json:"prefab,omitempty"`
}

// ACTION_RESULT (server -> client): outcome of a TRANSFER or SNAPSHOT_REQ.
type ActionResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Price           int64  `json:"price,omitempty"`
	Clamped         bool   `json:"clamped,omitempty"`
}
