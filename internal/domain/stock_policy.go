package domain

import "fmt"

// StockPolicy selects how order placement decrements product stock.
type StockPolicy string

const (
	// StockPolicyGuarded decrements only when enough stock is left.
	StockPolicyGuarded StockPolicy = "guarded"
	// StockPolicyUnchecked subtracts blindly, stock may go negative.
	StockPolicyUnchecked StockPolicy = "unchecked"
)

func ToStockPolicy(s string) (StockPolicy, error) {
	switch StockPolicy(s) {
	case StockPolicyGuarded, StockPolicyUnchecked:
		return StockPolicy(s), nil
	}
	return "", fmt.Errorf("invalid stock policy[%s]", s)
}
