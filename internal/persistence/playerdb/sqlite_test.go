package playerdb

import (
	"path/filepath"
	"testing"

	"sojourn.world/internal/sim/inventory"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "players.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	d := openTestDB(t)

	inv := inventory.New(5, 5, 3)
	sword := inventory.Item{ID: "iron_sword", Value: 10, Prefab: "prefabs/iron_sword"}
	if _, _, err := inv.Add(sword); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := inv.Set(2, 3, inventory.Item{ID: "apple", Value: 2}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := inv.SetQuick(1, inventory.Item{ID: "torch", Value: 1}); err != nil {
		t.Fatalf("set quick: %v", err)
	}
	inv.SetGold(123)

	if err := d.Save("p1", inv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := d.Load("p1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Gold() != 123 || got.Occupied() != 2 {
		t.Fatalf("gold=%d occupied=%d", got.Gold(), got.Occupied())
	}
	if it, _ := got.Get(0, 0); !it.Same(sword) || it.Prefab != sword.Prefab {
		t.Fatalf("slot (0,0) = %+v", it)
	}
	if it, _ := got.Get(2, 3); it.ID != "apple" {
		t.Fatalf("slot (2,3) = %+v", it)
	}
	if q, _ := got.Quick(1); q.ID != "torch" {
		t.Fatalf("quick 1 = %+v", q)
	}
}

func TestLoad_UnknownPlayer(t *testing.T) {
	d := openTestDB(t)
	_, ok, err := d.Load("nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected unknown player to report not found")
	}
}

func TestSave_Overwrite(t *testing.T) {
	d := openTestDB(t)

	inv := inventory.New(2, 2, 0)
	inv.SetGold(10)
	if err := d.Save("p1", inv); err != nil {
		t.Fatalf("save: %v", err)
	}
	inv.SetGold(99)
	if err := d.Save("p1", inv); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, ok, err := d.Load("p1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Gold() != 99 {
		t.Fatalf("gold=%d, want 99", got.Gold())
	}
}
