// Package catalogs loads the item definitions and per-store catalog
// templates from the config directory. A template is the canonical starting
// state for a store: loaded once at startup, never mutated by trading, and
// copied over the working catalog on every scheduled reset.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sojourn.world/internal/sim/inventory"
)

// ErrNoTemplate means a store number has no configured template. This is a
// fatal configuration error at startup: the store does not come online.
var ErrNoTemplate = errors.New("catalogs: no template for store number")

type Catalogs struct {
	Items  ItemCatalog
	Stores StoreCatalog
}

type ItemCatalog struct {
	Defs   map[string]ItemDef
	Digest string
}

type ItemDef struct {
	ID     string `json:"id"`
	Value  int64  `json:"value"`
	Prefab string `json:"prefab,omitempty"`
}

type StoreCatalog struct {
	ByNumber map[int]StoreDef
	Digest   string
}

type StoreDef struct {
	StoreNumber int         `json:"store_number"`
	Coins       int64       `json:"coins"`
	Items       []ItemCount `json:"items"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadStores(filepath.Join(configDir, "stores.json"), &c.Stores, c.Items.Defs); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if d.Value < 0 {
			return fmt.Errorf("items.json: %s: negative value", d.ID)
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %q", d.ID)
		}
		out.Defs[d.ID] = d
	}
	return nil
}

func loadStores(path string, out *StoreCatalog, items map[string]ItemDef) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []StoreDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("stores.json: %w", err)
	}
	out.ByNumber = map[int]StoreDef{}
	for _, d := range defs {
		if d.StoreNumber < 0 {
			return fmt.Errorf("stores.json: negative store number %d", d.StoreNumber)
		}
		if _, dup := out.ByNumber[d.StoreNumber]; dup {
			return fmt.Errorf("stores.json: duplicate store number %d", d.StoreNumber)
		}
		if d.Coins < 0 {
			return fmt.Errorf("stores.json: store %d: negative coins", d.StoreNumber)
		}
		for _, ic := range d.Items {
			if _, ok := items[ic.Item]; !ok {
				return fmt.Errorf("stores.json: store %d references unknown item %q", d.StoreNumber, ic.Item)
			}
			if ic.Count < 1 {
				return fmt.Errorf("stores.json: store %d: item %q count must be positive", d.StoreNumber, ic.Item)
			}
		}
		out.ByNumber[d.StoreNumber] = d
	}
	return nil
}

// Item materializes an item definition as an exchangeable value.
func (c *Catalogs) Item(id string) (inventory.Item, bool) {
	d, ok := c.Items.Defs[id]
	if !ok {
		return inventory.Empty, false
	}
	return inventory.Item{ID: d.ID, Value: d.Value, Prefab: d.Prefab}, true
}

// Template builds the immutable template catalog for a store number. The
// catalog size must accommodate every configured unit.
func (c *Catalogs) Template(storeNumber, size int) (*inventory.Catalog, error) {
	def, ok := c.Stores.ByNumber[storeNumber]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoTemplate, storeNumber)
	}

	cat := inventory.NewCatalog(size)
	cat.SetCoins(def.Coins)
	for _, ic := range def.Items {
		it, ok := c.Item(ic.Item)
		if !ok {
			return nil, fmt.Errorf("catalogs: store %d references unknown item %q", storeNumber, ic.Item)
		}
		for n := 0; n < ic.Count; n++ {
			if _, err := cat.Add(it); err != nil {
				return nil, fmt.Errorf("catalogs: store %d template exceeds catalog size %d: %w", storeNumber, size, err)
			}
		}
	}
	return cat, nil
}

// Numbers lists every configured store number.
func (c *Catalogs) Numbers() []int {
	out := make([]int, 0, len(c.Stores.ByNumber))
	for n := range c.Stores.ByNumber {
		out = append(out, n)
	}
	return out
}
