package tiering

import (
	"github.com/erp/tiering/internal/domain/shared/valueobject"
)

// FinancialStatus represents an order's settlement state
type FinancialStatus string

const (
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusVoided            FinancialStatus = "voided"
)

// Order represents one order row from the orders dataset. Orders are loaded
// once and never mutated; the pipeline only filters and sorts them.
type Order struct {
	Name            string
	Email           string
	Phone           string
	FinancialStatus FinancialStatus
	Total           valueobject.Money
	RefundedAmount  valueobject.Money
	DiscountCode    string
	CreatedAt       string // raw timestamp, timezone offset embedded
}

// IsSettled returns true if the order counts toward spend: fully paid or
// partially refunded
func (o Order) IsSettled() bool {
	return o.FinancialStatus == FinancialStatusPaid ||
		o.FinancialStatus == FinancialStatusPartiallyRefunded
}

// NetContribution returns the order's net contribution to spend:
// gross total minus refunded amount, computed in integer cents
func (o Order) NetContribution() valueobject.Money {
	return valueobject.NewMoneyFromCents(o.Total.Cents() - o.RefundedAmount.Cents())
}
