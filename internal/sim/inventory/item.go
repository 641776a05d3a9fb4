package inventory

// Item is an immutable description of an exchangeable good. Identity is the
// ID; two items with the same ID are the same good regardless of how the
// values were obtained. Prefab is an opaque presentation reference and is
// never interpreted here.
type Item struct {
	ID     string `json:"id"`
	Value  int64  `json:"value,omitempty"`
	Prefab string `json:"prefab,omitempty"`
}

// Empty is the explicit empty-slot sentinel. Slots never hold partial
// leftovers of a previous item; every vacated slot is set back to Empty.
var Empty = Item{}

func (i Item) IsEmpty() bool { return i.ID == "" }

// Same reports identity equality.
func (i Item) Same(o Item) bool { return i.ID == o.ID }
