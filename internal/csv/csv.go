package csv

import (
	"strings"

	"github.com/jrh3k5/tokentx-export/internal/etherscan"
)

type column struct {
	name  string
	value func(*etherscan.ERC20TokenTransfer) etherscan.Field
}

// columns follows the explorer's own token transfer export, in order.
var columns = []column{
	{"blockNumber", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.BlockNumber }},
	{"timeStamp", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.TimeStamp }},
	{"hash", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Hash }},
	{"nonce", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Nonce }},
	{"blockHash", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.BlockHash }},
	{"from", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.From }},
	{"to", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.To }},
	{"value", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Value }},
	{"contractAddress", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.ContractAddress }},
	{"tokenName", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.TokenName }},
	{"tokenSymbol", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.TokenSymbol }},
	{"tokenDecimal", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.TokenDecimal }},
	{"transactionIndex", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.TransactionIndex }},
	{"gas", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Gas }},
	{"gasPrice", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.GasPrice }},
	{"gasUsed", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.GasUsed }},
	{"cumulativeGasUsed", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.CumulativeGasUsed }},
	{"input", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Input }},
	{"confirmations", func(t *etherscan.ERC20TokenTransfer) etherscan.Field { return t.Confirmations }},
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ")

// Header returns the column names in output order.
func Header() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}

	return names
}

// FromTransfers renders the transfers as CSV: a header row followed by one row per transfer, joined by "\n" with no trailing newline.
// Line breaks inside a value become a single space. A value containing a comma or a double quote is quoted, with inner quotes doubled.
func FromTransfers(transfers []etherscan.ERC20TokenTransfer) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(Header(), ","))

	for i := range transfers {
		sb.WriteByte('\n')
		for j, c := range columns {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escape(string(c.value(&transfers[i]))))
		}
	}

	return sb.String()
}

func escape(value string) string {
	value = lineBreaks.Replace(value)
	if strings.ContainsAny(value, `,"`) {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}

	return value
}
