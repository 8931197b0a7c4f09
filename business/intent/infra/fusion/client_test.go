package fusion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nvidaurre/swaprouter/internal/logger"
	"github.com/nvidaurre/swaprouter/internal/token"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		ChainID: token.ChainIDEthereum,
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, logger.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestOrderStatusMapsAuctionDuration(t *testing.T) {
	const hash = "0xabc123"
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := fmt.Sprintf("/"+statusPathFmt, token.ChainIDEthereum, hash)
		if r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		fmt.Fprint(w, `{
			"status": "filled",
			"orderHash": "0xabc123",
			"txHash": "0xfeed",
			"auctionDuration": 180,
			"fills": [{"txHash": "0xfeed", "filledMakerAmount": "100", "filledAuctionTakerAmount": "200"}]
		}`)
	}))

	status, err := client.OrderStatus(context.Background(), hash)
	if err != nil {
		t.Fatalf("OrderStatus: %v", err)
	}
	if status.Status != "filled" {
		t.Errorf("Status = %q, want filled", status.Status)
	}
	if status.AuctionDuration != 180 {
		t.Errorf("AuctionDuration = %d, want 180", status.AuctionDuration)
	}
	if len(status.Fills) != 1 || status.Fills[0].FilledMakerAmount != "100" {
		t.Errorf("Fills = %+v, want one fill with maker amount 100", status.Fills)
	}
}

func TestOrderStatusFillsMissingHashFromRequest(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "pending"}`)
	}))

	status, err := client.OrderStatus(context.Background(), "0xdef456")
	if err != nil {
		t.Fatalf("OrderStatus: %v", err)
	}
	if status.OrderHash != "0xdef456" {
		t.Errorf("OrderHash = %q, want the requested hash", status.OrderHash)
	}
}

func TestOrderStatusSurfacesUpstreamDescription(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"description": "order not found"}`)
	}))

	_, err := client.OrderStatus(context.Background(), "0x404")
	if err == nil {
		t.Fatal("OrderStatus should fail on a 404")
	}
}
