package dto

// BalanceResponse represents escrowed token balance of the session account.
type BalanceResponse struct {
	Account   string `json:"account"`
	Balance   string `json:"balance"`
	Formatted string `json:"formatted"`
	Symbol    string `json:"symbol"`
}
