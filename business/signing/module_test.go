package signing

import (
	"context"
	"testing"

	"github.com/nvidaurre/swaprouter/business/intent"
	signingDI "github.com/nvidaurre/swaprouter/business/signing/di"
	signingdomain "github.com/nvidaurre/swaprouter/business/signing/domain"
	"github.com/nvidaurre/swaprouter/internal/apperror"
	"github.com/nvidaurre/swaprouter/internal/config"
	"github.com/nvidaurre/swaprouter/internal/di"
	"github.com/nvidaurre/swaprouter/internal/logger"
)

// The wallet is optional. Wiring the module against a config with no
// signing key must resolve cleanly; only signature requests fail.
func TestModuleResolvesWithoutSigningKey(t *testing.T) {
	c := di.NewContainer()
	c.Register("config", &config.Config{})
	c.Register("logger", logger.Discard())

	if err := (&intent.Module{}).RegisterServices(c); err != nil {
		t.Fatalf("intent RegisterServices: %v", err)
	}
	if err := (&Module{}).RegisterServices(c); err != nil {
		t.Fatalf("signing RegisterServices: %v", err)
	}

	svc := signingDI.GetSigningService(c)
	if svc == nil {
		t.Fatal("signing service should resolve without a configured key")
	}
	if addr := svc.WalletAddress(); addr != "" {
		t.Errorf("WalletAddress() = %q, want empty with no wallet", addr)
	}

	order := signingdomain.FlatOrder{
		Salt:         "1",
		Maker:        "0x1111111111111111111111111111111111111111",
		Receiver:     "0x0000000000000000000000000000000000000000",
		MakerAsset:   "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		TakerAsset:   "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		MakingAmount: "1000",
		TakingAmount: "2000",
		MakerTraits:  "0",
	}
	_, err := svc.RequestSignature(context.Background(), order, 1)
	if !apperror.IsCode(err, apperror.CodeWalletUnavailable) {
		t.Fatalf("err = %v, want code %s", err, apperror.CodeWalletUnavailable)
	}
}
