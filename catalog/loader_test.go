package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,name,description,price,category,url,stock
F1,Red Rose Bouquet,A dozen red roses,"₹1,299.00",bouquets,https://shop.example/f1,12
F2,White Lily Basket,Fresh white lilies,899.50,bouquets,,4
F3,Plant Fertilizer,All-purpose plant food,abc,care,,30
F4,,orphan row without a name,100,bouquets,,1
F5,Glass Vase,Classic clear vase,-50,accessories,,7
`

func TestLoadReader(t *testing.T) {
	products, err := LoadReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, products, 4) // nameless row skipped

	rose := products[0]
	require.Equal(t, "F1", rose.ProductID)
	require.Equal(t, "Red Rose Bouquet", rose.Name)
	require.Equal(t, 1299.0, rose.Price)
	require.Equal(t, "bouquets", rose.Category)
	require.Contains(t, rose.FlowerTypes, "rose")
	require.Equal(t, "12", rose.Meta["stock"], "unknown columns are kept as metadata")

	lily := products[1]
	require.Equal(t, 899.5, lily.Price)
	require.Contains(t, lily.FlowerTypes, "lily")
}

func TestLoadReaderNormalizesBadPrices(t *testing.T) {
	products, err := LoadReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	fertilizer := products[2]
	require.Equal(t, "Plant Fertilizer", fertilizer.Name)
	require.Equal(t, 0.0, fertilizer.Price, "unparsable price reads as unknown")

	vase := products[3]
	require.Equal(t, 0.0, vase.Price, "negative price reads as unknown")
}

func TestLoadReaderEmptyInput(t *testing.T) {
	products, err := LoadReader(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, products)

	products, err = LoadReader(strings.NewReader("id,name,price\n"))
	require.NoError(t, err)
	require.Empty(t, products)
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"150", 150},
		{"1,299.00", 1299},
		{"₹899.50", 899.5},
		{"", 0},
		{"call us", 0},
		{"-50", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParsePrice(tc.raw), "raw=%q", tc.raw)
	}
}

func TestCatalogSwap(t *testing.T) {
	products, err := LoadReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	cat := NewFromProducts(products)
	require.Len(t, cat.Products(), 4)

	cat.Swap(products[:1])
	require.Len(t, cat.Products(), 1)
}
