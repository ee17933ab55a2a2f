package id

import (
	"math/big"
	"strings"

	clierr "github.com/ggonzalez94/intents/internal/errors"
)

// ParseBaseUnits validates a positive integer amount expressed in token base units.
func ParseBaseUnits(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", clierr.New(clierr.CodeUsage, "--amount is required")
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return "", clierr.New(clierr.CodeUsage, "--amount must be an integer string in base units")
	}
	if n.Sign() <= 0 {
		return "", clierr.New(clierr.CodeUsage, "--amount must be positive")
	}
	return n.String(), nil
}
