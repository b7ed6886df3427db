package feedback

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryRequest is the parameter set of one history query. It has no identity beyond its values.
type QueryRequest struct {
	Sentiment string
	Category  string
	Limit     int
}

// BuildQuery maps a filter snapshot to a history query. A filter contributes a parameter
// only when it is non-empty; the limit is always HistoryLimit.
func BuildQuery(f FilterState) QueryRequest {
	return QueryRequest{
		Sentiment: strings.TrimSpace(f.Sentiment),
		Category:  strings.TrimSpace(f.Category),
		Limit:     HistoryLimit,
	}
}

// Params returns the outbound query parameters.
func (q QueryRequest) Params() map[string]string {
	params := map[string]string{"limit": strconv.Itoa(q.Limit)}
	if q.Sentiment != "" {
		params["sentiment"] = q.Sentiment
	}
	if q.Category != "" {
		params["category"] = q.Category
	}
	return params
}

// Values encodes the parameters for a URL query string.
func (q QueryRequest) Values() url.Values {
	values := url.Values{}
	for k, v := range q.Params() {
		values.Set(k, v)
	}
	return values
}
