package app

import (
	"sync"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
)

// OrderCache bridges live order objects and their serialized transport form.
// It keeps, per quote id, the live order returned by creation and the
// parameters that created it. Entries are consumed at most once: resolution
// evicts them, so a second submission for the same quote id finds nothing.
// There is no TTL; an entry never submitted lives until process restart,
// an accepted bound given order lifetimes of seconds to low minutes.
type OrderCache struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	params map[string]domain.OrderParams
}

// NewOrderCache creates an empty order cache.
func NewOrderCache() *OrderCache {
	return &OrderCache{
		orders: make(map[string]*domain.Order),
		params: make(map[string]domain.OrderParams),
	}
}

// Store records a freshly created order and its creation parameters under
// the quote id that produced them.
func (c *OrderCache) Store(quoteID string, order *domain.Order, params domain.OrderParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[quoteID] = order
	c.params[quoteID] = params
}

// PeekParams returns the creation parameters for a quote id without
// consuming the entry. The caller evicts after successful regeneration.
func (c *OrderCache) PeekParams(quoteID string) (domain.OrderParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.params[quoteID]
	return p, ok
}

// TakeOrder returns and evicts the live order for a quote id, together
// with the creation parameters recorded for it.
func (c *OrderCache) TakeOrder(quoteID string) (*domain.Order, domain.OrderParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[quoteID]
	p := c.params[quoteID]
	if ok {
		delete(c.orders, quoteID)
		delete(c.params, quoteID)
	}
	return o, p, ok
}

// Evict removes both entries for a quote id.
func (c *OrderCache) Evict(quoteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, quoteID)
	delete(c.params, quoteID)
}

// Len returns the number of cached quote ids.
func (c *OrderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.params)
}
