package usecase_test

import (
	"errors"
	"testing"

	"github.com/polkiloo/escrowdesk/internal/config"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/escrowdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/escrowdesk/internal/test"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		ChainID:       84532,
		ChainName:     "Base Sepolia",
		RPCURL:        "https://sepolia.base.org",
		ExplorerURL:   "https://sepolia.basescan.org",
		TokenAddress:  "0x7Cfa80f3aAa0FB7880A951eF5B39B930A8DA7e51",
		EscrowAddress: "0x1431d20901AecF05A8192498E0A7D635F4ca76ea",
	}
}

func TestSessionConnect(t *testing.T) {
	uc := usecase.NewSessionUseCase(testConfig(), pkgAuth.NewJWTStrategy("secret", pkgAuth.Options{}))

	token, account, err := uc.Connect("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", 84532)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if account != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Fatalf("expected checksum account, got %s", account)
	}

	resolved, err := uc.Authenticate(token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resolved != account {
		t.Fatalf("expected %s, got %s", account, resolved)
	}
}

func TestSessionConnectAnyCasing(t *testing.T) {
	uc := usecase.NewSessionUseCase(testConfig(), pkgAuth.NewJWTStrategy("secret", pkgAuth.Options{}))

	for range 20 {
		raw := testhelpers.RandomAddress()
		token, account, err := uc.Connect(raw, 84532)
		if err != nil {
			t.Fatalf("connect %s: %v", raw, err)
		}
		if account != model.NormalizeAddress(raw) {
			t.Fatalf("expected %s, got %s", model.NormalizeAddress(raw), account)
		}
		resolved, err := uc.Authenticate(token)
		if err != nil || !model.SameAddress(resolved, raw) {
			t.Fatalf("authenticate %s: %s, %v", raw, resolved, err)
		}
	}
}

func TestSessionConnectRejections(t *testing.T) {
	uc := usecase.NewSessionUseCase(testConfig(), testhelpers.StrategyStub{})

	if _, _, err := uc.Connect("not-an-address", 84532); !errors.Is(err, domainErrors.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
	if _, _, err := uc.Connect(accountA, 1); !errors.Is(err, domainErrors.ErrWrongNetwork) {
		t.Fatalf("expected ErrWrongNetwork, got %v", err)
	}
}

func TestSessionAuthenticateRejectsOtherChain(t *testing.T) {
	strategy := pkgAuth.NewJWTStrategy("secret", pkgAuth.Options{})
	token, err := strategy.IssueToken(pkgAuth.Session{Account: accountA, ChainID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uc := usecase.NewSessionUseCase(testConfig(), strategy)
	if _, err := uc.Authenticate(token); !errors.Is(err, domainErrors.ErrWrongNetwork) {
		t.Fatalf("expected ErrWrongNetwork, got %v", err)
	}
	if _, err := uc.Authenticate("garbage"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionNetwork(t *testing.T) {
	uc := usecase.NewSessionUseCase(testConfig(), testhelpers.StrategyStub{})
	network := uc.Network()

	if network.ChainIDHex != "0x14A34" {
		t.Fatalf("unexpected chain id hex %s", network.ChainIDHex)
	}
	if network.NativeCurrency.Symbol != "ETH" || network.NativeCurrency.Decimals != 18 {
		t.Fatalf("unexpected native currency %+v", network.NativeCurrency)
	}
	if len(network.RPCURLs) != 1 || network.RPCURLs[0] != "https://sepolia.base.org" {
		t.Fatalf("unexpected rpc urls %v", network.RPCURLs)
	}
	if len(network.BlockExplorerURLs) != 1 || network.BlockExplorerURLs[0] != "https://sepolia.basescan.org" {
		t.Fatalf("unexpected explorer urls %v", network.BlockExplorerURLs)
	}
}
