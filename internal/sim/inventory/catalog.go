package inventory

// Catalog is a store's flat fixed-capacity slot array plus a coin balance.
// A store keeps two of these: an immutable template, set once at
// initialization, and the working catalog that trades mutate. Periodic
// resets copy the template into the working catalog via Apply.
type Catalog struct {
	slots    []Item
	occupied int
	coins    int64
	version  uint64
}

func NewCatalog(size int) *Catalog {
	if size < 0 {
		size = 0
	}
	return &Catalog{slots: make([]Item, size)}
}

func (c *Catalog) Size() int      { return len(c.slots) }
func (c *Catalog) Occupied() int  { return c.occupied }
func (c *Catalog) IsFull() bool   { return c.occupied == len(c.slots) }
func (c *Catalog) IsEmpty() bool  { return c.occupied == 0 }

func (c *Catalog) Get(i int) (Item, error) {
	if i < 0 || i >= len(c.slots) {
		return Empty, ErrBounds
	}
	return c.slots[i], nil
}

func (c *Catalog) Set(i int, it Item) error {
	if i < 0 || i >= len(c.slots) {
		return ErrBounds
	}
	slotSet(c.slots, &c.occupied, i, it)
	return nil
}

// Add places the item in the first free slot in index order. A full catalog
// fails with ErrFull and no side effects.
func (c *Catalog) Add(it Item) (int, error) {
	if it.IsEmpty() {
		return -1, ErrEmptyItem
	}
	i := slotAdd(c.slots, &c.occupied, it)
	if i < 0 {
		return -1, ErrFull
	}
	return i, nil
}

func (c *Catalog) RemoveAt(i int) (Item, error) {
	if i < 0 || i >= len(c.slots) {
		return Empty, ErrBounds
	}
	if c.slots[i].IsEmpty() {
		return Empty, ErrNotFound
	}
	return slotRemoveAt(c.slots, &c.occupied, i), nil
}

// Remove frees the first slot holding an item with the given identity.
func (c *Catalog) Remove(it Item) (int, error) {
	i := slotRemoveFirst(c.slots, &c.occupied, it)
	if i < 0 {
		return -1, ErrNotFound
	}
	return i, nil
}

func (c *Catalog) RemoveAll(it Item) int {
	return slotRemoveAll(c.slots, &c.occupied, it)
}

// Quantity reports how many catalog slots hold the given item id.
func (c *Catalog) Quantity(itemID string) int {
	return slotCount(c.slots, itemID)
}

func (c *Catalog) Coins() int64     { return c.coins }
func (c *Catalog) AddCoins(n int64) { c.coins += n }
func (c *Catalog) SubCoins(n int64) { c.coins -= n }
func (c *Catalog) SetCoins(n int64) { c.coins = n }

// Apply deep-replaces the slots and coins with another catalog's contents.
// The version stamp is not copied; it keeps increasing monotonically so
// mirrors can order snapshots across resets.
func (c *Catalog) Apply(o *Catalog) {
	c.slots = cloneSlots(o.slots)
	c.occupied = o.occupied
	c.coins = o.coins
}

// Sanitize normalizes malformed slot entries to the empty sentinel and
// recomputes occupancy. Run before every outbound snapshot.
func (c *Catalog) Sanitize() {
	c.occupied = slotSanitize(c.slots)
}

// Slots returns a copy of the catalog slots in index order.
func (c *Catalog) Slots() []Item { return cloneSlots(c.slots) }

func (c *Catalog) Clone() *Catalog {
	n := &Catalog{}
	n.Apply(c)
	return n
}

func (c *Catalog) Version() uint64 { return c.version }

// NextVersion advances the catalog's snapshot version; called by the
// authoritative loop once per committed mutation.
func (c *Catalog) NextVersion() uint64 {
	c.version++
	return c.version
}

// Equal reports whether two catalogs hold the same slots and coins. Versions
// are ignored; this compares replicated content only.
func (c *Catalog) Equal(o *Catalog) bool {
	if len(c.slots) != len(o.slots) || c.coins != o.coins {
		return false
	}
	for i := range c.slots {
		if c.slots[i] != o.slots[i] {
			return false
		}
	}
	return true
}
