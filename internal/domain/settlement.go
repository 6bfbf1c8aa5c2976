package domain

import (
	"github.com/questx-lab/boxmaster/internal/entity"
	"github.com/shopspring/decimal"
)

const basisPoints = 10000

var decimalBasisPoints = decimal.NewFromInt(basisPoints)

type pricing struct {
	TotalPrice   decimal.Decimal
	AveragePrice decimal.Decimal
	Fee          decimal.Decimal
	Commission   decimal.Decimal
}

// floorDiv returns the integer quotient of a / b rounded down. Both operands
// are non negative.
func floorDiv(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

func applyRate(amount decimal.Decimal, rate int) decimal.Decimal {
	return floorDiv(amount.Mul(decimal.NewFromInt(int64(rate))), decimalBasisPoints)
}

// computePricing derives the sale figures of a full collection. Fee and
// commission are both taken from the gross total.
func computePricing(items []entity.CollectionItem, size, feeRate, commissionRate int) pricing {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}

	return pricing{
		TotalPrice:   total,
		AveragePrice: floorDiv(total, decimal.NewFromInt(int64(size))),
		Fee:          applyRate(total, feeRate),
		Commission:   applyRate(total, commissionRate),
	}
}

// depositorPayout is what the depositor of an item receives when the item is
// claimed. Fee and commission are deducted from the price separately, each
// rounded down.
func depositorPayout(price decimal.Decimal, feeRate, commissionRate int) decimal.Decimal {
	payout := price.Sub(applyRate(price, feeRate)).Sub(applyRate(price, commissionRate))
	if payout.IsNegative() {
		return decimal.Zero
	}

	return payout
}
