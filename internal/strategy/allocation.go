package strategy

import "github.com/shopspring/decimal"

// SizePosition returns floor(equity * pct / price).
func SizePosition(equity, pct, price float64) int {
	return int(sizeByEquity(decimal.NewFromFloat(equity), decimal.NewFromFloat(pct), decimal.NewFromFloat(price)))
}

// Allocate sizes a buy from equity and then caps it at what cash can pay
// for. It returns 0 when cash cannot cover a single share.
func Allocate(equity, pct, price, cash float64) int {
	return int(allocate(decimal.NewFromFloat(equity), decimal.NewFromFloat(pct), decimal.NewFromFloat(price), decimal.NewFromFloat(cash)))
}

func sizeByEquity(equity, pct, price decimal.Decimal) int64 {
	if !price.IsPositive() || !equity.IsPositive() || !pct.IsPositive() {
		return 0
	}
	return equity.Mul(pct).Div(price).Floor().IntPart()
}

func allocate(equity, pct, price, cash decimal.Decimal) int64 {
	if !price.IsPositive() || cash.LessThan(price) {
		return 0
	}
	qty := sizeByEquity(equity, pct, price)
	affordable := cash.Div(price).Floor().IntPart()
	if qty > affordable {
		qty = affordable
	}
	return qty
}
