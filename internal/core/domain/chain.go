package domain

import "strings"

// NormalizeChain lower-cases a chain discriminator and applies the default.
func NormalizeChain(chain string) string {
	c := strings.ToLower(strings.TrimSpace(chain))
	if c == "" {
		return DefaultChain
	}
	return c
}

// IsSolanaChain reports whether chain names the Solana ecosystem.
func IsSolanaChain(chain string) bool {
	return chain == "solana" || chain == "sol"
}

// ChainFamily groups chains sharing a native asset price: "solana" or "evm".
func ChainFamily(chain string) string {
	if IsSolanaChain(chain) {
		return "solana"
	}
	return "evm"
}
