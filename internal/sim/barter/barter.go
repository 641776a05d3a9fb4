// Package barter executes the atomic two-sided exchanges between a player's
// inventory and a store's working catalog. Every operation either moves the
// item and the (possibly clamped) currency together or leaves both
// containers exactly as they were.
//
// Pricing is deliberately asymmetric: a store that cannot afford an item
// pays everything it has (the price is clamped to its balance), while a
// player that cannot afford an item has the purchase rejected outright.
// Both behaviors mirror the live system and are covered by tests.
package barter

import (
	"errors"
	"fmt"

	"sojourn.world/internal/sim/inventory"
)

var (
	// ErrValidation means the client's claim does not match authoritative
	// state: an empty claimed slot, or an item the store does not carry.
	// The request is discarded with no state change.
	ErrValidation = errors.New("barter: claim does not match authoritative state")

	// ErrUnderFunded rejects a purchase the player cannot pay for. Unlike
	// the sell-side clamp, a buy aborts entirely.
	ErrUnderFunded = errors.New("barter: player cannot afford item")

	// ErrInternal covers state inconsistencies that validation should have
	// made impossible (e.g. a removal failing after the slot was read).
	// The attempted mutation is reversed and reported, never retried.
	ErrInternal = errors.New("barter: internal state inconsistency")
)

// DoubleFaultError reports a compensating rollback that itself failed. The
// carried item and price are beyond automatic repair and must be surfaced
// for manual reconciliation.
type DoubleFaultError struct {
	Op    string // "SELL" or "BUY"
	Item  inventory.Item
	Price int64
	Cause error
}

func (e *DoubleFaultError) Error() string {
	return fmt.Sprintf("barter: double fault during %s of %q (price %d): %v", e.Op, e.Item.ID, e.Price, e.Cause)
}

func (e *DoubleFaultError) Unwrap() error { return e.Cause }

// Receipt describes a committed transfer.
type Receipt struct {
	Item    inventory.Item
	Price   int64
	Clamped bool // sell side only: store paid less than item value
}

// SellToStore moves the item at the claimed grid position from the player
// into the store in exchange for coins. A store short on coins pays out its
// whole balance instead of rejecting the sale.
func SellToStore(inv *inventory.Inventory, cat *inventory.Catalog, row, col int) (Receipt, error) {
	item, err := inv.Get(row, col)
	if err != nil {
		return Receipt{}, err
	}
	if item.IsEmpty() {
		return Receipt{}, fmt.Errorf("%w: claimed slot (%d,%d) is empty", ErrValidation, row, col)
	}

	price := item.Value
	clamped := false
	if cat.Coins() < price {
		price = cat.Coins()
		clamped = true
	}

	inv.AddGold(price)
	cat.SubCoins(price)

	if _, err := inv.RemoveAt(row, col); err != nil {
		// Validation read the slot an instant ago; failure here means the
		// container state is inconsistent. Undo the currency move and report.
		inv.SubGold(price)
		cat.AddCoins(price)
		return Receipt{}, fmt.Errorf("%w: remove at (%d,%d): %v", ErrInternal, row, col, err)
	}

	if _, err := cat.Add(item); err != nil {
		// Destination full: compensate by restoring the player's item and
		// reversing the currency transfer.
		inv.SubGold(price)
		cat.AddCoins(price)
		if _, _, reErr := inv.Add(item); reErr != nil {
			// The RemoveAt above freed a grid slot, so this re-add can
			// only fail if the container was corrupted mid-exchange.
			return Receipt{}, &DoubleFaultError{Op: "SELL", Item: item, Price: price, Cause: reErr}
		}
		return Receipt{}, fmt.Errorf("store catalog full: %w", err)
	}

	return Receipt{Item: item, Price: price, Clamped: clamped}, nil
}

// BuyFromStore moves one unit of the referenced catalog item into the
// player's inventory in exchange for coins. The purchase aborts with no
// state change if the store does not carry the item or the player cannot
// pay full price.
func BuyFromStore(inv *inventory.Inventory, cat *inventory.Catalog, itemID string) (Receipt, error) {
	item, ok := findCatalogItem(cat, itemID)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: store does not carry %q", ErrValidation, itemID)
	}

	price := item.Value
	if inv.Gold() < price {
		return Receipt{}, fmt.Errorf("%w: %q costs %d, player has %d", ErrUnderFunded, itemID, price, inv.Gold())
	}

	inv.SubGold(price)
	cat.AddCoins(price)

	if _, err := cat.Remove(item); err != nil {
		inv.AddGold(price)
		cat.SubCoins(price)
		return Receipt{}, fmt.Errorf("%w: remove %q from catalog: %v", ErrInternal, itemID, err)
	}

	if _, _, err := inv.Add(item); err != nil {
		// Player inventory full: compensate by restoring the store's item
		// and reversing the currency transfer.
		inv.AddGold(price)
		cat.SubCoins(price)
		if _, reErr := cat.Add(item); reErr != nil {
			// The Remove above freed a catalog slot, so this re-add can
			// only fail if the container was corrupted mid-exchange.
			return Receipt{}, &DoubleFaultError{Op: "BUY", Item: item, Price: price, Cause: reErr}
		}
		return Receipt{}, fmt.Errorf("player inventory full: %w", err)
	}

	return Receipt{Item: item, Price: price}, nil
}

// findCatalogItem resolves an item id against the store's working catalog so
// the authoritative value is used, never a client-supplied one.
func findCatalogItem(cat *inventory.Catalog, itemID string) (inventory.Item, bool) {
	if itemID == "" {
		return inventory.Empty, false
	}
	for _, it := range cat.Slots() {
		if !it.IsEmpty() && it.ID == itemID {
			return it, true
		}
	}
	return inventory.Empty, false
}
