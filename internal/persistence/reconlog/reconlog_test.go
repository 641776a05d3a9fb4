package reconlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func readRecords[T any](t *testing.T, dir string) []T {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("glob %s: %v (matches %v)", dir, err, matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var out []T
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec T
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal %q: %v", sc.Text(), err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestAuditLogger_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	l := NewAuditLogger(dir)

	if err := l.WriteTrade(TradeRecord{
		Tick: 42, PlayerID: "p1", StoreNumber: 3, Kind: "SELL",
		ItemID: "iron_sword", Price: 5, Clamped: true,
	}); err != nil {
		t.Fatalf("write trade: %v", err)
	}
	if err := l.WriteTrade(TradeRecord{
		Tick: 43, PlayerID: "p1", StoreNumber: 3, Kind: "BUY",
		ItemID: "apple", Price: 2,
	}); err != nil {
		t.Fatalf("write trade: %v", err)
	}
	if err := l.WriteDoubleFault(DoubleFaultRecord{
		Tick: 44, PlayerID: "p1", StoreNumber: 3, Kind: "SELL",
		ItemID: "iron_sword", ItemValue: 10, Price: 5, Cause: "inventory: no free slot",
	}); err != nil {
		t.Fatalf("write double fault: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	trades := readRecords[TradeRecord](t, filepath.Join(dir, "trades"))
	if len(trades) != 2 {
		t.Fatalf("trades = %d, want 2", len(trades))
	}
	if trades[0].Price != 5 || !trades[0].Clamped {
		t.Fatalf("first trade: %+v", trades[0])
	}

	faults := readRecords[DoubleFaultRecord](t, filepath.Join(dir, "recon"))
	if len(faults) != 1 {
		t.Fatalf("faults = %d, want 1", len(faults))
	}
	if faults[0].Cause == "" || faults[0].ItemValue != 10 {
		t.Fatalf("fault: %+v", faults[0])
	}
}
