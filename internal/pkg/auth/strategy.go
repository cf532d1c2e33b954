package auth

import "time"

// Session is the identity carried by a token.
type Session struct {
	Account string
	ChainID uint64
}

type Strategy interface {
	IssueToken(session Session) (string, error)
	ParseToken(token string) (Session, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
