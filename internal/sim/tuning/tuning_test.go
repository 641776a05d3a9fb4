package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte(`
protocol_version: "1.0"
tick_rate_hz: 5
store_reset_ticks: 4500
inventory_rows: 4
inventory_cols: 6
quick_slots: 2
catalog_size: 12
session_queue_cap: 16
`)
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tn, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tn.TickRateHz != 5 || tn.StoreResetTicks != 4500 {
		t.Fatalf("timing fields: %+v", tn)
	}
	if tn.InventoryRows != 4 || tn.InventoryCols != 6 || tn.QuickSlots != 2 {
		t.Fatalf("inventory fields: %+v", tn)
	}
	if tn.CatalogSize != 12 || tn.SessionQueueCap != 16 {
		t.Fatalf("catalog/queue fields: %+v", tn)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("tick_rate_hz: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected zero tick rate rejected")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
