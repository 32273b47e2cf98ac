package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"verbena/models"
	"verbena/utils"
)

// Recognized source columns. Anything else lands in Product.Meta untouched.
var knownColumns = map[string]bool{
	"id": true, "name": true, "description": true, "price": true,
	"category": true, "url": true, "available": true, "verified": true,
	"tags": true,
}

// flowerKeywords is the fixed vocabulary used to derive flower-type tags
// from product text.
var flowerKeywords = []string{
	"rose", "tulip", "lily", "orchid", "sunflower", "carnation", "daisy",
	"peony", "chrysanthemum", "lavender", "jasmine", "marigold", "hydrangea",
	"gerbera", "anthurium", "gladiolus", "iris", "dahlia", "lotus",
}

// Load reads the product CSV at path and returns products in source-row
// order.
func Load(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses a product CSV stream. The first row is a header; rows
// missing a name are skipped, every other parse problem is normalized away
// rather than reported (a broken price becomes the unknown price 0).
func LoadReader(r io.Reader) ([]models.Product, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var products []models.Product
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			fields[col] = strings.TrimSpace(row[i])
		}

		p := models.Product{
			ProductID:   fields["id"],
			Name:        fields["name"],
			Description: fields["description"],
			Price:       ParsePrice(fields["price"]),
			Category:    strings.ToLower(fields["category"]),
			URL:         fields["url"],
			Available:   parseFlag(fields["available"], true),
			Verified:    parseFlag(fields["verified"], false),
		}
		if p.Name == "" {
			continue
		}
		if p.ProductID == "" {
			p.ProductID = fmt.Sprintf("row-%d", len(products)+1)
		}
		p.FlowerTypes = deriveFlowerTypes(p.Name + " " + p.Description)
		// An explicit tags column supplements the derived types.
		for _, tag := range utils.SplitTags(fields["tags"]) {
			if !containsTag(p.FlowerTypes, tag) {
				p.FlowerTypes = append(p.FlowerTypes, tag)
			}
		}

		for col, val := range fields {
			if knownColumns[col] || val == "" {
				continue
			}
			if p.Meta == nil {
				p.Meta = make(map[string]string)
			}
			p.Meta[col] = val
		}

		products = append(products, p)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// ParsePrice normalizes a raw price cell. Currency symbols and thousands
// separators are stripped; anything still unparsable, and any negative
// value, becomes 0 (unknown price, excluded by budget filters).
func ParsePrice(raw string) float64 {
	if strings.ContainsRune(raw, '-') {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseFlag(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1":
		return true
	case "false", "no", "n", "0":
		return false
	default:
		return fallback
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func deriveFlowerTypes(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, kw := range flowerKeywords {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}
