package inventory

import (
	"errors"
	"testing"
)

func TestCatalog_AddIndexOrderAndFull(t *testing.T) {
	c := NewCatalog(2)

	i, err := c.Add(sword)
	if err != nil || i != 0 {
		t.Fatalf("first add: i=%d err=%v", i, err)
	}
	i, err = c.Add(apple)
	if err != nil || i != 1 {
		t.Fatalf("second add: i=%d err=%v", i, err)
	}
	if _, err := c.Add(relic); !errors.Is(err, ErrFull) {
		t.Fatalf("add to full catalog: got %v, want ErrFull", err)
	}
	if c.Occupied() != 2 {
		t.Fatalf("occupied changed by failed add: %d", c.Occupied())
	}

	// A freed slot is the next add target again.
	if _, err := c.RemoveAt(0); err != nil {
		t.Fatalf("remove at: %v", err)
	}
	i, err = c.Add(relic)
	if err != nil || i != 0 {
		t.Fatalf("re-add: i=%d err=%v", i, err)
	}
}

func TestCatalog_Quantity(t *testing.T) {
	c := NewCatalog(4)
	_, _ = c.Add(apple)
	_, _ = c.Add(sword)
	_, _ = c.Add(apple)

	if n := c.Quantity("apple"); n != 2 {
		t.Fatalf("quantity apple = %d, want 2", n)
	}
	if n := c.Quantity("missing"); n != 0 {
		t.Fatalf("quantity missing = %d, want 0", n)
	}

	if n := c.RemoveAll(apple); n != 2 {
		t.Fatalf("remove all: %d, want 2", n)
	}
	if _, err := c.Remove(apple); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove absent: got %v, want ErrNotFound", err)
	}
}

func TestCatalog_ApplyRestoresTemplateExactly(t *testing.T) {
	template := NewCatalog(3)
	_, _ = template.Add(sword)
	_, _ = template.Add(apple)
	template.SetCoins(50)

	working := template.Clone()

	// Trade against the working catalog only.
	_, _ = working.Remove(sword)
	_, _ = working.Add(relic)
	working.SubCoins(45)
	if working.Equal(template) {
		t.Fatalf("working should have diverged from template")
	}

	working.Apply(template)
	if !working.Equal(template) {
		t.Fatalf("apply did not restore template:\n got  %+v coins=%d\n want %+v coins=%d",
			working.Slots(), working.Coins(), template.Slots(), template.Coins())
	}

	// Idempotent: applying again changes nothing.
	working.Apply(template)
	if !working.Equal(template) {
		t.Fatalf("second apply diverged")
	}
}

func TestCatalog_ApplyKeepsVersionMonotonic(t *testing.T) {
	template := NewCatalog(1)
	working := template.Clone()
	working.NextVersion()
	working.NextVersion()
	working.NextVersion()

	working.Apply(template)
	if working.Version() != 3 {
		t.Fatalf("version regressed to %d after reset", working.Version())
	}
}

func TestCatalog_SanitizeBeforeSnapshot(t *testing.T) {
	c := NewCatalog(3)
	_, _ = c.Add(sword)
	c.slots[2] = Item{Prefab: "prefabs/ghost"}

	c.Sanitize()
	if got, _ := c.Get(2); got != Empty {
		t.Fatalf("ghost slot not normalized: %+v", got)
	}
	if c.Occupied() != 1 {
		t.Fatalf("occupied=%d, want 1", c.Occupied())
	}
}

func TestCatalog_CoinsUnguarded(t *testing.T) {
	c := NewCatalog(1)
	c.SetCoins(5)
	c.SubCoins(10)
	if c.Coins() != -5 {
		t.Fatalf("coins=%d, want -5", c.Coins())
	}
}
