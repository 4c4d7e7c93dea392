package cart

import (
	"context"
	"fmt"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

const storageKey = "agency.cart"

// Store holds checkout line items. Every read re-parses from the key-value
// store and every mutation writes the full list back synchronously; derived
// totals are recomputed per call, never cached.
type Store struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) Items(ctx context.Context) []domain.CartItem {
	items := []domain.CartItem{}
	s.kv.Load(ctx, storageKey, &items)
	return items
}

// Add assigns the line an id built from service id, tier and the current
// millisecond timestamp, then appends it. Rapid repeated adds of the same
// service and tier within one millisecond collide; see DESIGN.md.
func (s *Store) Add(ctx context.Context, item domain.CartItem) domain.CartItem {
	item.ID = fmt.Sprintf("%d-%s-%d", item.ServiceID, item.SelectedTier, time.Now().UnixMilli())
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.TotalPriceCents = item.UnitPriceCents * int64(item.Quantity)

	items := s.Items(ctx)
	items = append(items, item)
	s.kv.Save(ctx, storageKey, items)
	return item
}

// Remove drops the matching line; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	items := s.Items(ctx)
	kept := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			continue
		}
		kept = append(kept, item)
	}
	s.kv.Save(ctx, storageKey, kept)
}

// UpdateQuantity sets the quantity and recomputes the line total. It does not
// clamp qty; callers clamp before calling. Absent ids leave the list unchanged.
func (s *Store) UpdateQuantity(ctx context.Context, id string, qty int) {
	items := s.Items(ctx)
	changed := false
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Quantity = qty
		items[i].TotalPriceCents = items[i].UnitPriceCents * int64(qty)
		changed = true
	}
	if changed {
		s.kv.Save(ctx, storageKey, items)
	}
}

func (s *Store) Clear(ctx context.Context) {
	s.kv.Save(ctx, storageKey, []domain.CartItem{})
}

func (s *Store) TotalItems(ctx context.Context) int {
	total := 0
	for _, item := range s.Items(ctx) {
		total += item.Quantity
	}
	return total
}

func (s *Store) GrandTotal(ctx context.Context) int64 {
	var total int64
	for _, item := range s.Items(ctx) {
		total += item.TotalPriceCents
	}
	return total
}
