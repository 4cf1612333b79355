package ports

import "context"

// Wallet exposes the signing account backing the agent.
type Wallet interface {
	// Balance returns the native token balance in whole-token units.
	Balance(ctx context.Context) (float64, error)

	// Address returns the account address as a hex string.
	Address() string

	// SendTip transfers amountEth of the native token to the recipient
	// and returns the transaction hash.
	SendTip(ctx context.Context, recipient string, amountEth float64) (string, error)
}
