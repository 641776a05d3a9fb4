package inventory

// Inventory is a player's fixed-capacity item grid plus quick slots and a
// gold balance. It is owned by exactly one authoritative goroutine; all
// other copies are read-only mirrors delivered through snapshots.
//
// Gold subtraction is deliberately unguarded here: the transaction layer is
// responsible for never driving a balance negative.
type Inventory struct {
	rows, cols int
	slots      []Item
	quick      []Item
	occupied   int
	gold       int64
	version    uint64
}

func New(rows, cols, quickSlots int) *Inventory {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if quickSlots < 0 {
		quickSlots = 0
	}
	return &Inventory{
		rows:  rows,
		cols:  cols,
		slots: make([]Item, rows*cols),
		quick: make([]Item, quickSlots),
	}
}

func (v *Inventory) Rows() int       { return v.rows }
func (v *Inventory) Cols() int       { return v.cols }
func (v *Inventory) Capacity() int   { return v.rows * v.cols }
func (v *Inventory) QuickCount() int { return len(v.quick) }
func (v *Inventory) Occupied() int   { return v.occupied }
func (v *Inventory) IsFull() bool    { return v.occupied == v.Capacity() }
func (v *Inventory) IsEmpty() bool   { return v.occupied == 0 }

func (v *Inventory) index(row, col int) (int, error) {
	if row < 0 || col < 0 || row >= v.rows || col >= v.cols {
		return 0, ErrBounds
	}
	return row*v.cols + col, nil
}

// Get returns the item at the given grid position, or Empty for a free slot.
func (v *Inventory) Get(row, col int) (Item, error) {
	i, err := v.index(row, col)
	if err != nil {
		return Empty, err
	}
	return v.slots[i], nil
}

func (v *Inventory) Set(row, col int, it Item) error {
	i, err := v.index(row, col)
	if err != nil {
		return err
	}
	slotSet(v.slots, &v.occupied, i, it)
	return nil
}

// Add places the item in the first free slot in row-major order and returns
// the position it occupied. A full inventory fails with ErrFull and no side
// effects.
func (v *Inventory) Add(it Item) (row, col int, err error) {
	if it.IsEmpty() {
		return -1, -1, ErrEmptyItem
	}
	i := slotAdd(v.slots, &v.occupied, it)
	if i < 0 {
		return -1, -1, ErrFull
	}
	return i / v.cols, i % v.cols, nil
}

// RemoveAt frees a specific slot and returns what it held. An already-empty
// slot fails with ErrNotFound.
func (v *Inventory) RemoveAt(row, col int) (Item, error) {
	i, err := v.index(row, col)
	if err != nil {
		return Empty, err
	}
	if v.slots[i].IsEmpty() {
		return Empty, ErrNotFound
	}
	return slotRemoveAt(v.slots, &v.occupied, i), nil
}

// Remove frees the first slot holding an item with the given identity.
// Callers that need a specific slot freed must use RemoveAt instead.
func (v *Inventory) Remove(it Item) (row, col int, err error) {
	i := slotRemoveFirst(v.slots, &v.occupied, it)
	if i < 0 {
		return -1, -1, ErrNotFound
	}
	return i / v.cols, i % v.cols, nil
}

// RemoveAll frees every slot holding the given identity and returns how many
// were freed.
func (v *Inventory) RemoveAll(it Item) int {
	return slotRemoveAll(v.slots, &v.occupied, it)
}

// Count reports how many grid slots hold the given item id.
func (v *Inventory) Count(itemID string) int {
	return slotCount(v.slots, itemID)
}

// Swap exchanges the contents of two grid positions.
func (v *Inventory) Swap(r1, c1, r2, c2 int) error {
	i, err := v.index(r1, c1)
	if err != nil {
		return err
	}
	j, err := v.index(r2, c2)
	if err != nil {
		return err
	}
	v.slots[i], v.slots[j] = v.slots[j], v.slots[i]
	return nil
}

func (v *Inventory) Gold() int64      { return v.gold }
func (v *Inventory) AddGold(n int64)  { v.gold += n }
func (v *Inventory) SubGold(n int64)  { v.gold -= n }
func (v *Inventory) SetGold(n int64)  { v.gold = n }

// Quick slot accessors. Quick slots sit outside the grid and do not count
// toward occupancy; trades never touch them.
func (v *Inventory) Quick(i int) (Item, error) {
	if i < 0 || i >= len(v.quick) {
		return Empty, ErrBounds
	}
	return v.quick[i], nil
}

func (v *Inventory) SetQuick(i int, it Item) error {
	if i < 0 || i >= len(v.quick) {
		return ErrBounds
	}
	if it.IsEmpty() {
		v.quick[i] = Empty
	} else {
		v.quick[i] = it
	}
	return nil
}

func (v *Inventory) RemoveQuick(i int) (Item, error) {
	if i < 0 || i >= len(v.quick) {
		return Empty, ErrBounds
	}
	it := v.quick[i]
	v.quick[i] = Empty
	return it, nil
}

// Clear frees every grid slot.
func (v *Inventory) Clear() {
	for i := range v.slots {
		v.slots[i] = Empty
	}
	v.occupied = 0
}

func (v *Inventory) ClearQuick() {
	for i := range v.quick {
		v.quick[i] = Empty
	}
}

func (v *Inventory) ClearAll() {
	v.Clear()
	v.ClearQuick()
}

// Apply deep-replaces this inventory's slots, quick slots and gold with
// another's contents. The version stamp is not copied: it keeps increasing
// monotonically on the receiving container so mirrors can order snapshots.
func (v *Inventory) Apply(o *Inventory) {
	v.rows = o.rows
	v.cols = o.cols
	v.slots = cloneSlots(o.slots)
	v.quick = cloneSlots(o.quick)
	v.occupied = o.occupied
	v.gold = o.gold
}

// Sanitize normalizes malformed slot entries to the empty sentinel and
// recomputes occupancy. Run before every outbound snapshot.
func (v *Inventory) Sanitize() {
	v.occupied = slotSanitize(v.slots)
	for i := range v.quick {
		if v.quick[i].ID == "" {
			v.quick[i] = Empty
		} else if v.quick[i].Value < 0 {
			v.quick[i].Value = 0
		}
	}
}

// Slots returns a copy of the grid in row-major order.
func (v *Inventory) Slots() []Item { return cloneSlots(v.slots) }

// QuickSlots returns a copy of the quick slots.
func (v *Inventory) QuickSlots() []Item { return cloneSlots(v.quick) }

func (v *Inventory) Clone() *Inventory {
	c := &Inventory{}
	c.Apply(v)
	return c
}

func (v *Inventory) Version() uint64 { return v.version }

// NextVersion advances the container's snapshot version. The authoritative
// loop calls it once per committed mutation, right before broadcasting.
func (v *Inventory) NextVersion() uint64 {
	v.version++
	return v.version
}
