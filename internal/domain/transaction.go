package domain

// TxSide classifies a swap from the wallet's perspective.
type TxSide string

// Transaction sides.
const (
	TxBuy  TxSide = "buy"
	TxSell TxSide = "sell"
)

// Transaction is a single recorded token swap. Immutable once recorded.
type Transaction struct {
	Signature   string  // transaction signature (opaque identifier)
	Timestamp   int64   // unix seconds
	Side        TxSide  // "buy" | "sell"
	SolAmount   float64 // SOL amount in lamports
	TokenAmount float64 // token amount in base units
	MarketCap   float64 // market-cap proxy at trade time (opaque price proxy)
}

// WalletTrade is one entry of a wallet's trade history across tokens.
type WalletTrade struct {
	Signature string
	Timestamp int64  // unix seconds
	Mint      string // traded token mint
	Side      TxSide
	SolAmount float64 // SOL amount in lamports
	MarketCap float64 // market-cap proxy at trade time
}

// TokenMetadata describes a token mint as reported by the metadata API.
type TokenMetadata struct {
	Mint     string
	Name     string
	Symbol   string
	Decimals int
}
