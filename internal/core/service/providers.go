package service

import (
	"fmt"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
)

// providerFor returns the first provider that serves chain.
func providerFor(providers []domain.ChainDataProvider, chain string) (domain.ChainDataProvider, error) {
	for _, p := range providers {
		if p.IsSupported(chain) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("chain %s: %w", chain, domain.ErrUnsupportedChain)
}
