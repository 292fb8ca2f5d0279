package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"little-lemon/internal/feed"
)

// generateSampleFeed writes a gzipped menu feed for MENU_FEED_FILE or an S3 upload.
// Usage: go run ./scripts/generate_sample_feed [output]
func main() {
	output := filepath.Join("data", "menu.json.gz")
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	doc := feed.Document{
		Menu: []feed.Record{
			{Name: "Greek Salad", Price: 12.99, Category: "starters", Image: "greekSalad.jpg",
				Description: "The famous greek salad of crispy lettuce, peppers, olives, our Chicago style feta cheese, garnished with crunchy garlic and rosemary croutons."},
			{Name: "Bruschetta", Price: 7.99, Category: "starters", Image: "bruschetta.jpg",
				Description: "Our Bruschetta is made from grilled bread that has been smeared with garlic and seasoned with salt and olive oil."},
			{Name: "Grilled Fish", Price: 20, Category: "mains", Image: "grilledFish.jpg",
				Description: "Barbequed catch of the day, with red onion, crisp capers, chive creme fraiche."},
			{Name: "Pasta", Price: 18.99, Category: "mains", Image: "pasta.jpg",
				Description: "Penne with fried aubergines, cherry tomatoes, tomato sauce, fresh chilli, garlic, basil & salted ricotta cheese."},
			{Name: "Lemon Dessert", Price: 6.99, Category: "desserts", Image: "lemonDessert.jpg",
				Description: "Light and fluffy traditional homemade Italian Lemon and ricotta cake."},
		},
	}

	if err := writeFeed(output, doc); err != nil {
		log.Fatalf("Failed to create %s: %v", output, err)
	}

	fmt.Printf("Created %s with %d menu items\n", output, len(doc.Menu))
}

func writeFeed(path string, doc feed.Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)

	encoder := json.NewEncoder(gzipWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	return gzipWriter.Close()
}
