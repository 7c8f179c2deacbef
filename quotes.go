package brokerage

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
)

// defaultQuoteURL is the public delayed-quote endpoint used when none is
// configured.
const defaultQuoteURL = "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument"

// Quotes collects the symbols that need a current price and fetches them in
// one batch. It is used for post-hoc position valuation only: the
// reconciliation path never touches it.
type Quotes struct {
	baseURL string
	client  *http.Client

	symbols []string
	batched map[string]bool
}

// NewQuotes creates a batched quote fetcher against the given endpoint. An
// empty baseURL selects the default public endpoint.
func NewQuotes(baseURL string) *Quotes {
	if baseURL == "" {
		baseURL = defaultQuoteURL
	}
	return &Quotes{baseURL: baseURL, client: daily(), batched: make(map[string]bool)}
}

// Batch registers a symbol for the next Fetch. Duplicates are ignored.
func (q *Quotes) Batch(symbol string) {
	if q.batched[symbol] {
		return
	}
	q.batched[symbol] = true
	q.symbols = append(q.symbols, symbol)
}

// Fetch queries the quote endpoint for every batched symbol and returns the
// latest known price per symbol.
func (q *Quotes) Fetch() (map[string]Money, error) {
	prices := make(map[string]Money, len(q.symbols))
	for _, symbol := range q.symbols {
		price, err := q.fetchOne(symbol)
		if err != nil {
			return nil, fmt.Errorf("error fetching %q quote: %w", symbol, err)
		}
		prices[symbol] = price
	}
	return prices, nil
}

func (q *Quotes) fetchOne(symbol string) (Money, error) {
	addr := q.baseURL + "?instrument=" + url.QueryEscape(symbol) + "&series=intraday&type=mini"
	var jobj any
	if err := jwget(q.client, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("error in wget %q: %w", symbol, err)
	}

	path := "$.series.intraday.data[-1:][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return Money{}, fmt.Errorf("error parsing quote: %q %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return Money{}, fmt.Errorf("error parsing quote: %q not a float: %v", path, jval)
	}

	currency := "EUR"
	if jcur, err := jsonpath.Get("$.info.currency", jobj); err == nil {
		if s, ok := jcur.(string); ok && s != "" {
			currency = s
		}
	}
	return M(val, currency), nil
}
