package render

import (
	"html"
	"html/template"
	"strconv"
	"strings"
)

// Escape returns text safe to insert into markup: no character of it can open a tag,
// an entity or close an attribute value.
func Escape(text string) template.HTML {
	return template.HTML(html.EscapeString(text))
}

var sentimentTokens = map[string]string{
	"positive": "positive",
	"neutral":  "neutral",
	"negative": "negative",
}

var categoryTokens = map[string]string{
	"delivery":  "delivery",
	"product":   "product",
	"service":   "service",
	"payment":   "payment",
	"technical": "technical",
}

const (
	unknownToken  = "unknown"
	otherCategory = "other"
)

// SentimentToken maps a sentiment tag to a class token, or "unknown".
func SentimentToken(sentiment string) string {
	return lookup(sentimentTokens, sentiment, unknownToken)
}

// CategoryToken maps a category tag to a class token, or "other".
func CategoryToken(category string) string {
	return lookup(categoryTokens, category, otherCategory)
}

// PriorityToken maps a priority score to a class token, or "unknown" outside 1-5.
func PriorityToken(score int) string {
	if score < 1 || score > 5 {
		return unknownToken
	}
	return strconv.Itoa(score)
}

func lookup(tokens map[string]string, value, fallback string) string {
	if token, ok := tokens[strings.ToLower(strings.TrimSpace(value))]; ok {
		return token
	}
	return fallback
}
