package feed

import (
	"strings"
	"testing"

	"little-lemon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = "https://img.example.com/images/"

const sampleFeed = `{
	"menu": [
		{"name": "Greek Salad", "price": 12.99, "description": "Crispy lettuce", "image": "greekSalad.jpg", "category": "starters"},
		{"name": "Lemon Dessert", "price": 10, "description": "Grandma's recipe", "image": "lemonDessert.jpg", "category": "desserts"},
		{"name": "Grilled Fish", "price": "20.50", "description": "Catch of the day", "image": "grilledFish.jpg", "category": "mains"}
	]
}`

func TestDecode(t *testing.T) {
	items, err := Decode(strings.NewReader(sampleFeed), imageBase)

	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, model.MenuItem{
		ID:          "0",
		ExternalID:  "0",
		Title:       "Greek Salad",
		Price:       "12.99",
		Description: "Crispy lettuce",
		Category:    "starters",
		ImageURL:    "https://img.example.com/images/greekSalad.jpg?raw=true",
	}, items[0])

	// Whole numbers keep no fractional part
	assert.Equal(t, "10", items[1].Price)
	// Quoted prices are accepted and normalised
	assert.Equal(t, "20.5", items[2].Price)
	assert.Equal(t, "2", items[2].ExternalID)
}

func TestDecode_EmptyMenu(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Empty list", body: `{"menu": []}`},
		{name: "Missing menu key", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Decode(strings.NewReader(tt.body), imageBase)

			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Not JSON", body: `<html>`},
		{name: "Non-numeric price", body: `{"menu": [{"name": "Soup", "price": "cheap"}]}`},
		{name: "Boolean price", body: `{"menu": [{"name": "Soup", "price": true}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Decode(strings.NewReader(tt.body), imageBase)

			require.Error(t, err)
			assert.Nil(t, items)
		})
	}
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "12.99", Price(12.99).String())
	assert.Equal(t, "7", Price(7).String())
	assert.Equal(t, "0.5", Price(0.5).String())
}
