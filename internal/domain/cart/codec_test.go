package cart

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	items := []LineItem{
		{
			ID:            "netflix-premium-1year",
			Name:          "Netflix Premium 1 Year",
			Category:      "Streaming Accounts",
			Price:         decimal.NewFromInt(899000),
			OriginalPrice: decimal.NewFromInt(2090000),
			Quantity:      2,
			Image:         "https://cdn.example.com/netflix.jpg",
			Icon:          "tv",
		},
		{
			ID:       "windows-11-pro",
			Name:     "Windows 11 Pro",
			Category: "Software & License",
			Price:    decimal.NewFromInt(299000),
			Quantity: 1,
		},
	}

	decoded, err := DecodeItems(EncodeItems(items))
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	for i := range items {
		assert.Equal(t, items[i].ID, decoded[i].ID)
		assert.Equal(t, items[i].Name, decoded[i].Name)
		assert.Equal(t, items[i].Category, decoded[i].Category)
		assert.Equal(t, items[i].Quantity, decoded[i].Quantity)
		assert.Equal(t, items[i].Image, decoded[i].Image)
		assert.Equal(t, items[i].Icon, decoded[i].Icon)
		assert.True(t, items[i].Price.Equal(decoded[i].Price))
	}
	assert.True(t, items[0].OriginalPrice.Equal(decoded[0].OriginalPrice))
	assert.True(t, decoded[1].OriginalPrice.IsZero())
}

func TestCodec_EmptyArray(t *testing.T) {
	decoded, err := DecodeItems([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, decoded)

	assert.Equal(t, "[]", string(EncodeItems(nil)))
}

func TestCodec_ExtraFieldsPassThrough(t *testing.T) {
	slot := []byte(`[{"id":"a","name":"Widget","category":"c","price":100,"quantity":1,` +
		`"sellerNote":"gift wrap","tags":["hot",1]}]`)

	items, err := DecodeItems(slot)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.Contains(t, items[0].Extra, "sellerNote")
	require.Contains(t, items[0].Extra, "tags")
	assert.Equal(t, `"gift wrap"`, string(items[0].Extra["sellerNote"]))

	// Unknown fields survive a re-encode.
	reDecoded, err := DecodeItems(EncodeItems(items))
	require.NoError(t, err)
	require.Len(t, reDecoded, 1)
	assert.Equal(t, `["hot",1]`, string(reDecoded[0].Extra["tags"]))
}

func TestCodec_StringWrappedNumbers(t *testing.T) {
	slot := []byte(`[{"id":"a","name":"Widget","category":"c","price":"120.50","quantity":1}]`)

	items, err := DecodeItems(slot)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.RequireFromString("120.50").Equal(items[0].Price))
}

func TestCodec_Malformed(t *testing.T) {
	for _, data := range []string{
		`{`,
		`[{"id":`,
		`[{"id":"a","price":"not-a-number","quantity":1}]`,
		`"just a string"`,
	} {
		_, err := DecodeItems([]byte(data))
		assert.Error(t, err, "input: %s", data)
	}
}

func TestCodec_ValidJSONOutput(t *testing.T) {
	items := []LineItem{{
		ID:       "a",
		Name:     `quoted "name"`,
		Price:    decimal.RequireFromString("99.99"),
		Quantity: 3,
		Extra:    map[string]jx.Raw{"meta": jx.Raw(`{"k":true}`)},
	}}

	require.True(t, jx.Valid(EncodeItems(items)))
}
