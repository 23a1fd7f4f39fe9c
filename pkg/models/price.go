// Package models defines the core data structures used throughout stockalert.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one daily bar from the quote provider.
type PriceRecord struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Direction is the sign of a day-over-day move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)
