package app

import (
	"math/big"
	"sync"
	"testing"

	"github.com/nvidaurre/swaprouter/business/intent/domain"
)

func cachedOrder() *domain.Order {
	return domain.NewOrder(domain.OrderSpec{
		Salt:         big.NewInt(7),
		MakingAmount: big.NewInt(100),
		TakingAmount: big.NewInt(200),
	}, true, true)
}

func TestOrderCacheStoreAndTake(t *testing.T) {
	cache := NewOrderCache()
	order := cachedOrder()
	params := domain.OrderParams{QuoteParams: domain.QuoteParams{Amount: "100"}}

	cache.Store("q-1", order, params)
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}

	got, gotParams, ok := cache.TakeOrder("q-1")
	if !ok {
		t.Fatal("TakeOrder should find the stored order")
	}
	if got != order {
		t.Error("TakeOrder returned a different order")
	}
	if gotParams.Amount != "100" {
		t.Errorf("TakeOrder params amount = %q, want %q", gotParams.Amount, "100")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after take = %d, want 0", cache.Len())
	}
}

func TestOrderCacheConsumesAtMostOnce(t *testing.T) {
	cache := NewOrderCache()
	cache.Store("q-1", cachedOrder(), domain.OrderParams{})

	if _, _, ok := cache.TakeOrder("q-1"); !ok {
		t.Fatal("first take should succeed")
	}
	if _, _, ok := cache.TakeOrder("q-1"); ok {
		t.Error("second take should find nothing")
	}
	if _, ok := cache.PeekParams("q-1"); ok {
		t.Error("params should be gone after the order was taken")
	}
}

func TestOrderCachePeekParamsDoesNotConsume(t *testing.T) {
	cache := NewOrderCache()
	params := domain.OrderParams{QuoteParams: domain.QuoteParams{Amount: "5", WalletAddress: "0xabc"}}
	cache.Store("q-1", cachedOrder(), params)

	for i := 0; i < 3; i++ {
		got, ok := cache.PeekParams("q-1")
		if !ok {
			t.Fatalf("peek %d should find params", i)
		}
		if got.Amount != "5" || got.WalletAddress != "0xabc" {
			t.Fatalf("peek %d returned wrong params: %+v", i, got)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("Len() after peeks = %d, want 1", cache.Len())
	}
}

func TestOrderCacheEvict(t *testing.T) {
	cache := NewOrderCache()
	cache.Store("q-1", cachedOrder(), domain.OrderParams{})
	cache.Store("q-2", cachedOrder(), domain.OrderParams{})

	cache.Evict("q-1")
	if _, _, ok := cache.TakeOrder("q-1"); ok {
		t.Error("evicted entry should be gone")
	}
	if _, ok := cache.PeekParams("q-2"); !ok {
		t.Error("unrelated entry should survive eviction")
	}
}

func TestOrderCacheConcurrentTakeYieldsOneWinner(t *testing.T) {
	cache := NewOrderCache()
	cache.Store("q-1", cachedOrder(), domain.OrderParams{})

	const goroutines = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, ok := cache.TakeOrder("q-1"); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Errorf("%d goroutines took the order, want exactly 1", won)
	}
}
