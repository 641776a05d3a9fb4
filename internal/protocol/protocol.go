package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello        = "HELLO"
	TypeWelcome      = "WELCOME"
	TypeTransfer     = "TRANSFER"
	TypeSnapshotReq  = "SNAPSHOT_REQ"
	TypeSnapshot     = "SNAPSHOT"
	TypeActionResult = "ACTION_RESULT"
)

// Transfer kinds.
const (
	TransferSell = "SELL"
	TransferBuy  = "BUY"
)

// Container kinds used to route snapshots.
const (
	ContainerPlayer = "PLAYER"
	ContainerStore  = "STORE"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
