package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"little-lemon/internal/model"
)

// Loader fetches the upstream menu and maps it into menu items.
type Loader interface {
	// Load returns the mapped menu. An empty slice means the feed had no items.
	Load(ctx context.Context) ([]model.MenuItem, error)

	// Name identifies the source in logs.
	Name() string
}

// Document is the upstream menu document.
type Document struct {
	Menu []Record `json:"menu"`
}

// Record is one upstream menu entry.
type Record struct {
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
}

// Price is the upstream price. The feed publishes a JSON number, but a
// quoted number is accepted too.
type Price float64

// UnmarshalJSON decodes a number or a quoted number.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}

	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid price %s: %w", data, err)
	}
	*p = Price(value)
	return nil
}

// String formats the price as the shortest decimal text, e.g. 12.99 or 10.
func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// Decode reads an upstream document and maps it into menu items.
func Decode(r io.Reader, imageBaseURL string) ([]model.MenuItem, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode menu feed: %w", err)
	}

	return MapRecords(doc.Menu, imageBaseURL), nil
}

// MapRecords converts upstream records into menu items. The feed index is
// used as both identifiers, which keeps them stable within one fetch.
func MapRecords(records []Record, imageBaseURL string) []model.MenuItem {
	items := make([]model.MenuItem, len(records))
	for i, record := range records {
		id := strconv.Itoa(i)
		items[i] = model.MenuItem{
			ID:          id,
			ExternalID:  id,
			Title:       record.Name,
			Price:       record.Price.String(),
			Description: record.Description,
			Category:    record.Category,
			ImageURL:    imageBaseURL + record.Image + "?raw=true",
		}
	}
	return items
}
