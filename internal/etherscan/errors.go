package etherscan

import "fmt"

// TransportError reports a page request that the explorer answered with a non-2xx HTTP status.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// APIError reports a soft error: the explorer answered with status "0" and a message other than "no data".
type APIError struct {
	Message string // the short message, e.g., "NOTOK"
	Result  string // the descriptive text, e.g., "Max rate limit reached"
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Result != "":
		return e.Message + " - " + e.Result
	case e.Result != "":
		return e.Result
	case e.Message != "":
		return e.Message
	default:
		return "API returned status 0"
	}
}

// PageError identifies the page whose retrieval failed.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("Failed fetching page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
