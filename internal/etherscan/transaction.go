package etherscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field is a single value of a token transfer as reported by the explorer.
// The explorer reports every value as a JSON string; numbers, booleans and null are tolerated and kept as their literal text.
type Field string

// UnmarshalJSON accepts a JSON string, number, boolean or null.
func (f *Field) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*f = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode string field: %w", err)
		}
		*f = Field(s)
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return fmt.Errorf("unexpected composite value %s", trimmed)
	default:
		*f = Field(trimmed)
	}

	return nil
}

// ERC20TokenTransfer is one token transfer event as returned by the explorer's "tokentx" action.
// Fields the explorer adds beyond these are ignored; fields it omits are left empty.
type ERC20TokenTransfer struct {
	BlockNumber       Field `json:"blockNumber"`
	TimeStamp         Field `json:"timeStamp"` // also matches "timestamp", as JSON keys match case-insensitively
	Hash              Field `json:"hash"`
	Nonce             Field `json:"nonce"`
	BlockHash         Field `json:"blockHash"`
	From              Field `json:"from"`
	To                Field `json:"to"`
	Value             Field `json:"value"`
	ContractAddress   Field `json:"contractAddress"`
	TokenName         Field `json:"tokenName"`
	TokenSymbol       Field `json:"tokenSymbol"`
	TokenDecimal      Field `json:"tokenDecimal"`
	TransactionIndex  Field `json:"transactionIndex"`
	Gas               Field `json:"gas"`
	GasPrice          Field `json:"gasPrice"`
	GasUsed           Field `json:"gasUsed"`
	CumulativeGasUsed Field `json:"cumulativeGasUsed"`
	Input             Field `json:"input"`
	Confirmations     Field `json:"confirmations"`
}

// Timestamp returns the transfer time in Unix seconds, or 0 if it is absent or not an integer.
func (t *ERC20TokenTransfer) Timestamp() int64 {
	ts, err := strconv.ParseInt(strings.TrimSpace(string(t.TimeStamp)), 10, 64) //nolint:mnd
	if err != nil {
		return 0
	}

	return ts
}
