package usecase

import (
	"strings"

	"github.com/polkiloo/escrowdesk/internal/config"
	domainErrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/escrowdesk/internal/pkg/auth"
)

// NativeCurrency describes the gas currency of a chain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// NetworkDescriptor is what a wallet needs to switch to or add the chain.
type NetworkDescriptor struct {
	ChainID           uint64         `json:"chainId"`
	ChainIDHex        string         `json:"chainIdHex"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
	TokenAddress      string         `json:"tokenAddress"`
	EscrowAddress     string         `json:"escrowAddress"`
}

// SessionUseCase binds wallet accounts to session tokens.
type SessionUseCase struct {
	cfg    *config.Config
	tokens pkgAuth.Strategy
}

// NewSessionUseCase constructs SessionUseCase.
func NewSessionUseCase(cfg *config.Config, tokens pkgAuth.Strategy) *SessionUseCase {
	return &SessionUseCase{cfg: cfg, tokens: tokens}
}

// Connect validates account and chain and returns a session token.
// ErrWrongNetwork means the wallet must switch to Network first.
func (u *SessionUseCase) Connect(account string, chainID uint64) (string, string, error) {
	account = strings.TrimSpace(account)
	if !model.IsValidAddress(account) {
		return "", "", domainErrors.ErrInvalidAccount
	}
	if chainID != u.cfg.ChainID {
		return "", "", domainErrors.ErrWrongNetwork
	}

	normalized := model.NormalizeAddress(account)
	token, err := u.tokens.IssueToken(pkgAuth.Session{Account: normalized, ChainID: chainID})
	if err != nil {
		return "", "", err
	}
	return token, normalized, nil
}

// Authenticate resolves token into the session account. Tokens issued for
// another chain are rejected.
func (u *SessionUseCase) Authenticate(token string) (string, error) {
	session, err := u.tokens.ParseToken(token)
	if err != nil {
		return "", err
	}
	if session.ChainID != u.cfg.ChainID {
		return "", domainErrors.ErrWrongNetwork
	}
	return session.Account, nil
}

// Network returns the configured chain descriptor.
func (u *SessionUseCase) Network() NetworkDescriptor {
	return NetworkDescriptor{
		ChainID:    u.cfg.ChainID,
		ChainIDHex: u.cfg.ChainIDHex(),
		ChainName:  u.cfg.ChainName,
		NativeCurrency: NativeCurrency{
			Name:     "ETH",
			Symbol:   "ETH",
			Decimals: 18,
		},
		RPCURLs:           []string{u.cfg.RPCURL},
		BlockExplorerURLs: []string{u.cfg.ExplorerURL},
		TokenAddress:      u.cfg.TokenAddress,
		EscrowAddress:     u.cfg.EscrowAddress,
	}
}
