package insights

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percent returns 100*num/den rounded to 2 places, or 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(den))).
		Round(2).
		InexactFloat64()
}

// revenueSum accumulates currency amounts without float drift.
type revenueSum struct {
	total decimal.Decimal
}

func (s *revenueSum) add(v float64) {
	s.total = s.total.Add(decimal.NewFromFloat(v))
}

func (s revenueSum) rounded() float64 {
	return s.total.Round(2).InexactFloat64()
}
