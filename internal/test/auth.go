package test

import (
	pkgAuth "github.com/polkiloo/escrowdesk/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Session) (string, error)
	ParseFn func(string) (pkgAuth.Session, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(session pkgAuth.Session) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(session)
	}
	return "token:" + session.Account, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Session{}, pkgAuth.ErrInvalidToken
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// AuthenticatorStub implements middleware token resolution.
type AuthenticatorStub struct {
	Account string
	Err     error
	Fn      func(string) (string, error)
}

// Authenticate either delegates to override or returns predefined result.
func (s AuthenticatorStub) Authenticate(token string) (string, error) {
	if s.Fn != nil {
		return s.Fn(token)
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Account, nil
}
