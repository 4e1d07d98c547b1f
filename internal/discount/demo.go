package discount

import (
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
)

// Demo codes served when no organization scope is supplied. They behave
// exactly like repository-backed codes so local setups without a database
// exercise the same validation path.

func demoPromo(code string) *domain.PromoCode {
	switch code {
	case "FIRST":
		return &domain.PromoCode{Code: "FIRST", Kind: domain.DiscountFixed, AmountCents: 500, Active: true}
	case "SAVE20":
		return &domain.PromoCode{Code: "SAVE20", Kind: domain.DiscountPercentage, Percent: 20, Active: true}
	case "BIGSPENDER":
		return &domain.PromoCode{Code: "BIGSPENDER", Kind: domain.DiscountFixed, AmountCents: 2500, MinOrderCents: 10000, Active: true}
	case "EXPIRED":
		past := time.Now().Add(-24 * time.Hour)
		return &domain.PromoCode{Code: "EXPIRED", Kind: domain.DiscountFixed, AmountCents: 500, Active: true, ValidTo: &past}
	default:
		return nil
	}
}

func demoGiftCard(code string) *domain.GiftCard {
	switch code {
	case "GIFT100":
		return &domain.GiftCard{Code: "GIFT100", BalanceCents: 10000, Active: true}
	case "GIFT25":
		return &domain.GiftCard{Code: "GIFT25", BalanceCents: 2500, Active: true}
	case "EMPTY":
		return &domain.GiftCard{Code: "EMPTY", BalanceCents: 0, Active: true}
	default:
		return nil
	}
}
