package models

import "time"

// Dashboard is a consolidated view of every engine for one symbol.
// Errors holds the parts that failed; the rest is still returned.
type Dashboard struct {
	Symbol      string             `json:"symbol"`
	Timestamp   time.Time          `json:"timestamp"`
	Technical   *TechnicalReport   `json:"technical,omitempty"`
	Risk        *StockRiskReport   `json:"risk,omitempty"`
	Predictions []PredictionResult `json:"predictions,omitempty"`
	Sentiment   []TrendPoint       `json:"sentiment,omitempty"`
	Errors      map[string]string  `json:"errors,omitempty"`
}
