package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func num(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNormalizeSaleTotalFoldsAliases(t *testing.T) {
	require.True(t, NormalizeSaleTotal(SaleInput{Total: num("150")}).Equal(num("150")))
	require.True(t, NormalizeSaleTotal(SaleInput{Amount: num("80")}).Equal(num("80")))
	// total wins when both are present
	require.True(t, NormalizeSaleTotal(SaleInput{Total: num("150"), Amount: num("80")}).Equal(num("150")))
	require.True(t, NormalizeSaleTotal(SaleInput{}).IsZero())
}

func TestNormalizeSaleItemFoldsAliases(t *testing.T) {
	qty, price := NormalizeSaleItem(SaleItemInput{Qty: num("3"), Price: num("25")})
	require.True(t, qty.Equal(num("3")))
	require.True(t, price.Equal(num("25")))

	qty, price = NormalizeSaleItem(SaleItemInput{Quantity: num("2"), UnitPrice: num("10"), Qty: num("9"), Price: num("9")})
	require.True(t, qty.Equal(num("2")))
	require.True(t, price.Equal(num("10")))
}

func TestNormalizeProductionQty(t *testing.T) {
	require.True(t, NormalizeProductionQty(ProductionInput{Amount: num("12")}).Equal(num("12")))
	require.True(t, NormalizeProductionQty(ProductionInput{Quantity: num("5"), Amount: num("12")}).Equal(num("5")))
}

func TestParseDate(t *testing.T) {
	def := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	parsed := ParseDate("2024-01-15", def)
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed)

	parsed = ParseDate("2024-01-15T08:30:00Z", def)
	require.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), parsed)

	parsed = ParseDate("2024-01-15 08:30:00", def)
	require.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), parsed)

	require.Equal(t, def, ParseDate("", def))
	require.Equal(t, def, ParseDate("nonsense", def))
}

func TestNormalizeSaleDatePrefersDate(t *testing.T) {
	def := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	in := SaleInput{Date: "2024-03-01", CreatedAt: "2024-04-01"}
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), NormalizeSaleDate(in, def))

	in = SaleInput{CreatedAt: "2024-04-01"}
	require.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), NormalizeSaleDate(in, def))

	require.Equal(t, def, NormalizeSaleDate(SaleInput{}, def))
}
