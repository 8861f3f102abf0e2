package validator

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Price итоговая стоимость записи после применения награды
type Price struct {
	Base     float64
	Discount float64
	Final    float64
}

// ApplyRedemption считает скидку по награде. Процент ограничен 0..100,
// скидка не больше цены, итог не меньше нуля. Округление до копеек.
func ApplyRedemption(price float64, redemption *domain.Redemption) Price {
	base := decimal.NewFromFloat(price)
	if base.IsNegative() {
		base = decimal.Zero
	}

	discount := decimal.Zero
	if redemption != nil && redemption.Reward != nil {
		value := decimal.NewFromFloat(redemption.Reward.DiscountValue)
		switch redemption.Reward.DiscountType {
		case domain.DiscountPercentage:
			pct := decimal.Min(decimal.Max(value, decimal.Zero), hundred)
			discount = base.Mul(pct).Div(hundred)
		case domain.DiscountFixed:
			discount = decimal.Max(value, decimal.Zero)
		}
	}
	discount = decimal.Min(discount, base).Round(2)

	final := decimal.Max(base.Sub(discount), decimal.Zero).Round(2)

	return Price{
		Base:     base.Round(2).InexactFloat64(),
		Discount: discount.InexactFloat64(),
		Final:    final.InexactFloat64(),
	}
}
