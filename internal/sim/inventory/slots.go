package inventory

// Shared primitives over a flat slot array. occupied always equals the
// number of non-empty slots; every mutation below maintains that.

func slotSet(slots []Item, occupied *int, i int, it Item) {
	was := !slots[i].IsEmpty()
	now := !it.IsEmpty()
	if now && !was {
		*occupied++
	} else if !now && was {
		*occupied--
	}
	if now {
		slots[i] = it
	} else {
		slots[i] = Empty
	}
}

// slotAdd occupies the first free slot in index order. Returns -1 when full.
func slotAdd(slots []Item, occupied *int, it Item) int {
	for i := range slots {
		if slots[i].IsEmpty() {
			slots[i] = it
			*occupied++
			return i
		}
	}
	return -1
}

func slotRemoveAt(slots []Item, occupied *int, i int) Item {
	it := slots[i]
	if !it.IsEmpty() {
		*occupied--
	}
	slots[i] = Empty
	return it
}

// slotRemoveFirst removes the first slot holding an item with the same
// identity. Returns the index, or -1 when no match exists.
func slotRemoveFirst(slots []Item, occupied *int, it Item) int {
	for i := range slots {
		if !slots[i].IsEmpty() && slots[i].Same(it) {
			slotRemoveAt(slots, occupied, i)
			return i
		}
	}
	return -1
}

func slotRemoveAll(slots []Item, occupied *int, it Item) int {
	removed := 0
	for i := range slots {
		if !slots[i].IsEmpty() && slots[i].Same(it) {
			slotRemoveAt(slots, occupied, i)
			removed++
		}
	}
	return removed
}

func slotCount(slots []Item, id string) int {
	n := 0
	for i := range slots {
		if !slots[i].IsEmpty() && slots[i].ID == id {
			n++
		}
	}
	return n
}

// slotSanitize normalizes malformed entries (an entry that should be empty
// but still carries value or prefab data, or a negative value) and returns
// the recomputed occupancy. Run before every outbound snapshot.
func slotSanitize(slots []Item) int {
	occupied := 0
	for i := range slots {
		if slots[i].ID == "" {
			slots[i] = Empty
			continue
		}
		if slots[i].Value < 0 {
			slots[i].Value = 0
		}
		occupied++
	}
	return occupied
}

func cloneSlots(src []Item) []Item {
	out := make([]Item, len(src))
	copy(out, src)
	return out
}
