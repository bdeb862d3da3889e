package transfer

import (
	"strings"

	"github.com/jrh3k5/tokentx-export/internal/etherscan"
)

// Criteria describes which transfers to keep.
// A contract address, when given, takes precedence over the token symbol; the symbol is then ignored entirely.
type Criteria struct {
	TokenSymbol     string // exact, case-insensitive match on the token symbol
	ContractAddress string // exact, case-insensitive match on the token contract address
	StartTimestamp  *int64 // inclusive lower bound in Unix seconds; nil for no bound
	EndTimestamp    *int64 // inclusive upper bound in Unix seconds; nil for no bound
}

// Apply filters by token and then by date range.
func (c Criteria) Apply(transfers []etherscan.ERC20TokenTransfer) []etherscan.ERC20TokenTransfer {
	filtered := FilterBySymbolOrContract(transfers, c.TokenSymbol, c.ContractAddress)

	return FilterByDateRange(filtered, c.StartTimestamp, c.EndTimestamp)
}

// FilterBySymbolOrContract keeps the transfers of the given token contract or, when no contract is given, of the given token symbol.
// With neither given, all transfers are kept. Relative order is preserved.
func FilterBySymbolOrContract(
	transfers []etherscan.ERC20TokenTransfer,
	symbol string,
	contract string,
) []etherscan.ERC20TokenTransfer {
	switch {
	case contract != "":
		return keep(transfers, func(t *etherscan.ERC20TokenTransfer) bool {
			return strings.EqualFold(string(t.ContractAddress), contract)
		})
	case symbol != "":
		return keep(transfers, func(t *etherscan.ERC20TokenTransfer) bool {
			return strings.EqualFold(string(t.TokenSymbol), symbol)
		})
	default:
		return transfers
	}
}

// FilterByDateRange keeps the transfers whose timestamp falls within [startTS, endTS]; a nil bound leaves that side open.
// With both bounds nil the input is returned as-is. Relative order is preserved.
func FilterByDateRange(
	transfers []etherscan.ERC20TokenTransfer,
	startTS *int64,
	endTS *int64,
) []etherscan.ERC20TokenTransfer {
	if startTS == nil && endTS == nil {
		return transfers
	}

	return keep(transfers, func(t *etherscan.ERC20TokenTransfer) bool {
		ts := t.Timestamp()
		if startTS != nil && ts < *startTS {
			return false
		}
		if endTS != nil && ts > *endTS {
			return false
		}

		return true
	})
}

func keep(
	transfers []etherscan.ERC20TokenTransfer,
	predicate func(*etherscan.ERC20TokenTransfer) bool,
) []etherscan.ERC20TokenTransfer {
	kept := make([]etherscan.ERC20TokenTransfer, 0, len(transfers))
	for i := range transfers {
		if predicate(&transfers[i]) {
			kept = append(kept, transfers[i])
		}
	}

	return kept
}
