package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Snapshot is the read model handed to subscribers and screens: the ordered
// rows plus the derived totals. Totals are always recomputed from the rows,
// never stored.
type Snapshot struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Store holds the authoritative list of cart line items for one owner. Rows
// are keyed by composite identity (menu item id + customization id set) and
// kept in insertion order. All operations are total: they never fail.
type Store struct {
	mu    sync.Mutex
	order []string
	rows  map[string]*LineItem

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(Snapshot)
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{rows: make(map[string]*LineItem), subs: make(map[int]func(Snapshot))}
}

// Subscribe registers a listener invoked after every mutation. The returned
// function cancels the subscription.
func (s *Store) Subscribe(listener func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = listener
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// AddItem merges the new item into an existing row with the same composite
// identity, accumulating quantity, or appends it as a new row. A
// non-positive quantity is treated as 1.
func (s *Store) AddItem(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	key := item.Key()
	if row, ok := s.rows[key]; ok {
		row.Quantity += item.Quantity
	} else {
		copied := item
		copied.Customizations = append([]Customization(nil), item.Customizations...)
		s.rows[key] = &copied
		s.order = append(s.order, key)
	}
	s.mu.Unlock()

	s.notify()
}

// IncreaseQty increments the matching row's quantity by one. No-op when no
// row matches the composite identity.
func (s *Store) IncreaseQty(menuItemID string, customizationIDs []string) {
	s.mu.Lock()
	if row, ok := s.rows[rowKey(menuItemID, customizationIDs)]; ok {
		row.Quantity++
	}
	s.mu.Unlock()

	s.notify()
}

// DecreaseQty decrements the matching row's quantity by one, flooring at 1.
// The store never auto-removes a row on decrement; removal is explicit.
func (s *Store) DecreaseQty(menuItemID string, customizationIDs []string) {
	s.mu.Lock()
	if row, ok := s.rows[rowKey(menuItemID, customizationIDs)]; ok && row.Quantity > 1 {
		row.Quantity--
	}
	s.mu.Unlock()

	s.notify()
}

// RemoveItem deletes the matching row regardless of quantity. No-op when no
// row matches.
func (s *Store) RemoveItem(menuItemID string, customizationIDs []string) {
	key := rowKey(menuItemID, customizationIDs)

	s.mu.Lock()
	if _, ok := s.rows[key]; ok {
		delete(s.rows, key)
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	s.notify()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.order = nil
	s.rows = make(map[string]*LineItem)
	s.mu.Unlock()

	s.notify()
}

// Items returns the rows in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsLocked()
}

// TotalItems is the sum of quantities over all rows.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, key := range s.order {
		total += s.rows[key].Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity over all rows.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, key := range s.order {
		total = total.Add(s.rows[key].LineTotal())
	}
	return total
}

// Snapshot returns the rows and derived totals in one consistent read.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) itemsLocked() []LineItem {
	items := make([]LineItem, 0, len(s.order))
	for _, key := range s.order {
		row := *s.rows[key]
		row.Customizations = append([]Customization(nil), row.Customizations...)
		items = append(items, row)
	}
	return items
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Items: s.itemsLocked(), TotalPrice: decimal.Zero}
	for _, item := range snap.Items {
		snap.TotalItems += item.Quantity
		snap.TotalPrice = snap.TotalPrice.Add(item.LineTotal())
	}
	return snap
}

func (s *Store) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	listeners := make([]func(Snapshot), 0, len(s.subs))
	for _, listener := range s.subs {
		listeners = append(listeners, listener)
	}
	s.subMu.Unlock()

	for _, listener := range listeners {
		listener(snap)
	}
}
