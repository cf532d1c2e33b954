package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "github.com/polkiloo/escrowdesk/internal/domain/errors"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
)

const issuer = "escrowdesk"

var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	ChainID uint64 `json:"chain_id"`
	jwt.RegisteredClaims
}

// JWTStrategy issues HS256 tokens whose subject is the lower-cased account.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JWTStrategy{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}
}

// IssueToken signs a session for the account on the chain.
func (s *JWTStrategy) IssueToken(session Session) (string, error) {
	if !model.IsValidAddress(session.Account) {
		return "", domainerrors.ErrInvalidAccount
	}
	issued := s.now()
	claims := sessionClaims{
		ChainID: session.ChainID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   model.AccountKey(session.Account),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// ParseToken validates token and returns the session it carries.
func (s *JWTStrategy) ParseToken(token string) (Session, error) {
	var claims sessionClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !model.IsValidAddress(claims.Subject) {
		return Session{}, ErrInvalidToken
	}
	return Session{Account: model.NormalizeAddress(claims.Subject), ChainID: claims.ChainID}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt-hs256"
}
