package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryParameterPresence(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterState
		want   map[string]string
	}{
		{name: "no filters", filter: FilterState{}, want: map[string]string{"limit": "20"}},
		{name: "sentiment only", filter: FilterState{Sentiment: "positive"}, want: map[string]string{"sentiment": "positive", "limit": "20"}},
		{name: "category only", filter: FilterState{Category: "payment"}, want: map[string]string{"category": "payment", "limit": "20"}},
		{name: "both", filter: FilterState{Sentiment: "negative", Category: "technical"}, want: map[string]string{"sentiment": "negative", "category": "technical", "limit": "20"}},
		{name: "blank category omitted", filter: FilterState{Sentiment: "positive", Category: ""}, want: map[string]string{"sentiment": "positive", "limit": "20"}},
		{name: "whitespace filter omitted", filter: FilterState{Sentiment: "  "}, want: map[string]string{"limit": "20"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			q := BuildQuery(tt.filter)
			assert.Equal(t, HistoryLimit, q.Limit)
			assert.Equal(t, tt.want, q.Params())
		})
	}
}

func TestBuildQueryIsIdempotent(t *testing.T) {
	filter := FilterState{Sentiment: "neutral", Category: "delivery"}
	first := BuildQuery(filter)
	second := BuildQuery(filter)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Values().Encode(), second.Values().Encode())
}

func TestQueryValuesEncoding(t *testing.T) {
	q := BuildQuery(FilterState{Sentiment: "positive"})
	assert.Equal(t, "limit=20&sentiment=positive", q.Values().Encode())
}

func TestFilterStateWith(t *testing.T) {
	f, err := FilterState{}.With(FilterSentiment, "negative")
	require.NoError(t, err)
	f, err = f.With(FilterCategory, "product")
	require.NoError(t, err)
	assert.Equal(t, FilterState{Sentiment: "negative", Category: "product"}, f)

	_, err = f.With("priority", "5")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
