package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MenuItem represents one dish in the cached menu snapshot.
type MenuItem struct {
	ID          string `json:"id" db:"id"`
	ExternalID  string `json:"uuid" db:"external_id"`
	Title       string `json:"title" db:"title"`
	Price       string `json:"price" db:"price"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	ImageURL    string `json:"imageUrl" db:"image_url"`
}

// PriceValue parses the textual price for arithmetic.
func (m MenuItem) PriceValue() (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(m.Price), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q for item %s: %w", m.Price, m.ExternalID, err)
	}
	return value, nil
}

// Section groups menu items that share a category label.
type Section struct {
	Title string     `json:"title"`
	Data  []MenuItem `json:"data"`
}
