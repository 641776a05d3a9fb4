package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"

	"sojourn.world/internal/protocol"
	"sojourn.world/internal/sim/world"
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			switch base.Type {
			case protocol.TypeTransfer:
				var tr protocol.TransferMsg
				if err := json.Unmarshal(msg, &tr); err != nil {
					continue
				}
				if tr.ProtocolVersion != protocol.Version {
					continue
				}
				s.world.Inbox() <- world.ActionEnvelope{PlayerID: playerID, Transfer: &tr}
			case protocol.TypeSnapshotReq:
				var req protocol.SnapshotReqMsg
				if err := json.Unmarshal(msg, &req); err != nil {
					continue
				}
				if req.ProtocolVersion != protocol.Version {
					continue
				}
				s.world.Inbox() <- world.ActionEnvelope{PlayerID: playerID, SnapshotReq: &req}
			}
		}

		// Cleanup.
		s.world.Leave() <- world.LeaveRequest{PlayerID: playerID, Out: out}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.PlayerName == "" {
		hello.PlayerName = "player"
	}

	out = make(chan []byte, queueCap(hello.Capabilities.MaxQueue, s.world.SessionQueueCap()))

	respCh := make(chan world.JoinResponse, 1)
	s.world.Join() <- world.JoinRequest{
		Name:     hello.PlayerName,
		PlayerID: hello.PlayerID, // empty for a fresh player
		Out:      out,
		Resp:     respCh,
	}
	resp := <-respCh
	if resp.Err != nil {
		s.log.Printf("join %q failed: %v", hello.PlayerName, resp.Err)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "join failed"), time.Now().Add(time.Second))
		return "", nil
	}

	stores := s.world.StoreNumbers()
	sort.Ints(stores)
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        resp.PlayerID,
		WorldParams:     s.world.Params(),
		Catalogs:        s.world.CatalogRefs(),
		Stores:          stores,
	}
	if err := writeJSON(conn, welcome); err != nil {
		s.world.Leave() <- world.LeaveRequest{PlayerID: resp.PlayerID, Out: out}
		return "", nil
	}

	return resp.PlayerID, out
}

// queueCap sizes a session's outbound queue: the client's requested cap,
// falling back to the configured default, bounded to 1..64.
func queueCap(requested, configured int) int {
	c := requested
	if c <= 0 {
		c = configured
	}
	if c <= 0 {
		c = 8
	}
	if c > 64 {
		c = 64
	}
	return c
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
