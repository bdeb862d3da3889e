package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	ctshttp "github.com/jrh3k5/tokentx-export/internal/http"
	"github.com/jrh3k5/tokentx-export/internal/network"
)

// DefaultAPIURL is the unified multichain explorer endpoint.
const DefaultAPIURL = "https://api.etherscan.io/v2/api"

const statusNotOK = "0"

// noDataPhrases are the lowercase fragments of a status "0" response that mean the result set is exhausted.
var noDataPhrases = []string{"no transactions", "no records found"}

// PageRequest identifies one page of token transfers to retrieve.
type PageRequest struct {
	Network  network.Network
	Address  string
	Page     int // 1-based
	PageSize int
}

// Page is one page of token transfers.
type Page struct {
	Transfers []ERC20TokenTransfer
	EndOfData bool // set when the explorer reported that no (more) transfers exist
}

// Client defines the interface for interacting with the Etherscan API.
type Client interface {
	// GetERC20TokenTransfers retrieves one page of token transfers for the requested address, sorted in ascending order.
	GetERC20TokenTransfers(ctx context.Context, request PageRequest) (*Page, error)
}

// HTTPClient implements Client against the unified explorer endpoint.
type HTTPClient struct {
	doer    ctshttp.Doer
	baseURL string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a Client that sends requests through the given Doer to the given endpoint.
func NewHTTPClient(doer ctshttp.Doer, baseURL string) *HTTPClient {
	return &HTTPClient{doer: doer, baseURL: baseURL}
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (c *HTTPClient) GetERC20TokenTransfers(ctx context.Context, request PageRequest) (*Page, error) {
	if c.doer == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	reqURL, err := c.buildURL(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if envelope.Status == statusNotOK {
		return interpretNotOK(ctx, envelope)
	}

	transfers, err := decodeTransfers(ctx, envelope.Result)
	if err != nil {
		return nil, err
	}

	return &Page{Transfers: transfers}, nil
}

func (c *HTTPClient) buildURL(request PageRequest) (string, error) {
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse API URL '%s': %w", c.baseURL, err)
	}

	q := reqURL.Query()
	q.Set("chainid", strconv.FormatInt(request.Network.ChainID, 10)) //nolint:mnd
	q.Set("module", "account")
	q.Set("action", "tokentx")
	q.Set("address", request.Address)
	q.Set("page", strconv.Itoa(request.Page))
	q.Set("offset", strconv.Itoa(request.PageSize))
	q.Set("sort", "asc")
	q.Set("apikey", request.Network.APIKey)
	reqURL.RawQuery = q.Encode()

	return reqURL.String(), nil
}

// interpretNotOK distinguishes an exhausted result set from an upstream error.
// The descriptive result text is preferred over the message when looking for the "no data" phrasing.
func interpretNotOK(ctx context.Context, envelope apiResponse) (*Page, error) {
	resultText := resultAsText(envelope.Result)

	descriptive := resultText
	if descriptive == "" {
		descriptive = envelope.Message
	}

	lowered := strings.ToLower(descriptive)
	for _, phrase := range noDataPhrases {
		if strings.Contains(lowered, phrase) {
			slog.DebugContext(ctx, "Explorer reported no more data", "message", descriptive)

			return &Page{EndOfData: true}, nil
		}
	}

	return nil, &APIError{Message: envelope.Message, Result: resultText}
}

// resultAsText returns a status "0" result when it is a string, or "" otherwise.
func resultAsText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

// decodeTransfers reads the result array; an absent or non-array result is treated as an empty page.
func decodeTransfers(ctx context.Context, raw json.RawMessage) ([]ERC20TokenTransfer, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		slog.DebugContext(ctx, "Result is not a list of transfers; treating the page as empty", "error", err)

		return nil, nil
	}

	transfers := make([]ERC20TokenTransfer, len(elements))
	for i, element := range elements {
		if err := json.Unmarshal(element, &transfers[i]); err != nil {
			return nil, fmt.Errorf("decode transfer %d of page: %w", i, err)
		}
	}

	return transfers, nil
}
