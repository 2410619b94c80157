package tiering

import (
	"github.com/erp/tiering/internal/domain/shared/valueobject"
)

// NetSpend computes the net spend over the given orders: the sum of
// (gross total - refunded amount). The sum runs in integer cents to avoid
// floating-point drift and comes back as a two-place decimal amount.
// Empty input yields zero. Inputs are not mutated.
func NetSpend(orders []Order) valueobject.Money {
	var cents int64
	for _, o := range orders {
		cents += o.Total.Cents() - o.RefundedAmount.Cents()
	}
	return valueobject.NewMoneyFromCents(cents)
}
