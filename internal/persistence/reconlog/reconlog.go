// Package reconlog writes the server's trade audit trail: one JSONL entry
// per committed transfer, plus critical double-fault records for exchanges
// whose rollback failed. Double-fault entries are the manual-reconciliation
// surface; the item and currency they name are otherwise lost.
package reconlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// TradeRecord is one committed transfer.
type TradeRecord struct {
	Tick        uint64 `json:"tick"`
	PlayerID    string `json:"player_id"`
	StoreNumber int    `json:"store_number"`
	Kind        string `json:"kind"` // "SELL" or "BUY"
	ItemID      string `json:"item_id"`
	Price       int64  `json:"price"`
	Clamped     bool   `json:"clamped,omitempty"`
}

// DoubleFaultRecord is a failed rollback. Critical: must be reconciled by
// hand against the named player and store.
type DoubleFaultRecord struct {
	Tick        uint64 `json:"tick"`
	PlayerID    string `json:"player_id"`
	StoreNumber int    `json:"store_number"`
	Kind        string `json:"kind"`
	ItemID      string `json:"item_id"`
	ItemValue   int64  `json:"item_value"`
	Price       int64  `json:"price"`
	Cause       string `json:"cause"`
}

type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// AuditLogger writes trade and reconciliation entries (compressed).
type AuditLogger struct {
	trades *JSONLZstdWriter
	recon  *JSONLZstdWriter
}

func NewAuditLogger(dataDir string) *AuditLogger {
	return &AuditLogger{
		trades: NewJSONLZstdWriter(filepath.Join(dataDir, "trades"), "trades"),
		recon:  NewJSONLZstdWriter(filepath.Join(dataDir, "recon"), "recon"),
	}
}

func (l *AuditLogger) WriteTrade(v TradeRecord) error { return l.trades.Write(v) }

func (l *AuditLogger) WriteDoubleFault(v DoubleFaultRecord) error { return l.recon.Write(v) }

func (l *AuditLogger) Close() error {
	err1 := l.trades.Close()
	err2 := l.recon.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
