package helius

// Wrapped SOL mint address. Swap legs denominated in SOL appear as WSOL
// token transfers in enhanced transactions.
const WSOLMint = "So11111111111111111111111111111111111111112"

const lamportsPerSol = 1_000_000_000

// EnhancedTransaction is a parsed transaction from the Helius enhanced
// transactions API.
type EnhancedTransaction struct {
	Signature      string          `json:"signature"`
	Timestamp      int64           `json:"timestamp"`
	Slot           int64           `json:"slot"`
	FeePayer       string          `json:"feePayer"`
	Type           string          `json:"type"`
	Events         Events          `json:"events"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers"`
}

// Events holds the typed event payloads Helius attaches to a transaction.
type Events struct {
	Swap *SwapEvent `json:"swap"`
}

// SwapEvent describes a DEX swap parsed out of a transaction.
type SwapEvent struct {
	TokenInputs  []TokenBalanceChange `json:"tokenInputs"`
	TokenOutputs []TokenBalanceChange `json:"tokenOutputs"`
}

// TokenBalanceChange is one leg of a swap event.
type TokenBalanceChange struct {
	Mint        string         `json:"mint"`
	UserAccount string         `json:"userAccount"`
	RawAmount   RawTokenAmount `json:"rawTokenAmount"`
}

// RawTokenAmount is a token amount with its on-chain decimals.
type RawTokenAmount struct {
	TokenAmount string `json:"tokenAmount"`
	Decimals    int    `json:"decimals"`
}

// TokenTransfer is a top-level token movement in an enhanced transaction.
type TokenTransfer struct {
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
}

// tokenMetadataResponse is one item of the token-metadata endpoint response.
type tokenMetadataResponse struct {
	Account            string `json:"account"`
	OnChainAccountInfo struct {
		AccountInfo struct {
			Data struct {
				Parsed struct {
					Info struct {
						Decimals int `json:"decimals"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"accountInfo"`
	} `json:"onChainAccountInfo"`
	OnChainMetadata struct {
		Metadata struct {
			Data struct {
				Name   string `json:"name"`
				Symbol string `json:"symbol"`
			} `json:"data"`
		} `json:"metadata"`
	} `json:"onChainMetadata"`
}
