package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz int `yaml:"tick_rate_hz"`

	// Store catalogs are restored to their template every StoreResetTicks.
	StoreResetTicks int `yaml:"store_reset_ticks"`

	InventoryRows int `yaml:"inventory_rows"`
	InventoryCols int `yaml:"inventory_cols"`
	QuickSlots    int `yaml:"quick_slots"`
	CatalogSize   int `yaml:"catalog_size"`

	// Per-session outbound queue cap (snapshots use a drop-oldest policy).
	SessionQueueCap int `yaml:"session_queue_cap"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickRateHz:      10,
		StoreResetTicks: 9000, // 15 minutes at 10 Hz
		InventoryRows:   5,
		InventoryCols:   5,
		QuickSlots:      3,
		CatalogSize:     24,
		SessionQueueCap: 8,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.TickRateHz <= 0 {
		return t, fmt.Errorf("tuning.yaml: tick_rate_hz must be positive")
	}
	if t.StoreResetTicks <= 0 {
		return t, fmt.Errorf("tuning.yaml: store_reset_ticks must be positive")
	}
	if t.InventoryRows < 1 || t.InventoryCols < 1 {
		return t, fmt.Errorf("tuning.yaml: inventory dimensions must be at least 1x1")
	}
	if t.CatalogSize < 1 {
		return t, fmt.Errorf("tuning.yaml: catalog_size must be at least 1")
	}
	return t, nil
}
