package dto

import "github.com/polkiloo/escrowdesk/internal/usecase"

// SessionRequest describes wallet connection payload.
type SessionRequest struct {
	Account string `json:"account" binding:"required"`
	ChainID uint64 `json:"chainId" binding:"required"`
}

// SessionResponse is returned once a wallet session is open.
type SessionResponse struct {
	Account      string `json:"account"`
	ShortAccount string `json:"shortAccount"`
	Token        string `json:"token"`
}

// WrongNetworkResponse tells the wallet which chain to switch to or add.
type WrongNetworkResponse struct {
	Message string                    `json:"message"`
	Network usecase.NetworkDescriptor `json:"network"`
}
