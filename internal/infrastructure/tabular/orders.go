package tabular

import (
	"fmt"
	"io"

	"github.com/erp/tiering/internal/domain/shared/valueobject"
	"github.com/erp/tiering/internal/domain/tiering"
)

// Order dataset column names, as exported by the store
const (
	ColOrderName         = "Name"
	ColOrderEmail        = "Email"
	ColOrderStatus       = "Financial Status"
	ColOrderTotal        = "Total"
	ColOrderDiscountCode = "Discount Code"
	ColOrderPhone        = "Phone"
	ColOrderCreatedAt    = "Created at"
	ColOrderRefunded     = "Refunded Amount"
)

// OrderColumns returns every order column in canonical order
func OrderColumns() []string {
	return []string{
		ColOrderName,
		ColOrderEmail,
		ColOrderStatus,
		ColOrderTotal,
		ColOrderDiscountCode,
		ColOrderPhone,
		ColOrderCreatedAt,
		ColOrderRefunded,
	}
}

// DecodeOrders reads the orders dataset. Malformed amounts decode as zero,
// which keeps the record but excludes it from positive-total gates; the
// creation timestamp stays raw so its embedded offset is preserved.
func DecodeOrders(r io.Reader) ([]tiering.Order, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("orders dataset: %w", err)
	}
	if err := reader.ParseHeader(); err != nil {
		return nil, fmt.Errorf("orders dataset: %w", err)
	}
	rows, err := reader.ReadAllRows()
	if err != nil {
		return nil, fmt.Errorf("orders dataset: %w", err)
	}

	orders := make([]tiering.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, tiering.Order{
			Name:            row.Get(ColOrderName),
			Email:           row.Get(ColOrderEmail),
			Phone:           row.Get(ColOrderPhone),
			FinancialStatus: tiering.FinancialStatus(row.Get(ColOrderStatus)),
			Total:           valueobject.MoneyFromStringOrZero(row.Get(ColOrderTotal)),
			RefundedAmount:  valueobject.MoneyFromStringOrZero(row.Get(ColOrderRefunded)),
			DiscountCode:    row.Get(ColOrderDiscountCode),
			CreatedAt:       row.Get(ColOrderCreatedAt),
		})
	}
	return orders, nil
}

// OrderRecord flattens an order into output cells by column name
func OrderRecord(o tiering.Order) map[string]string {
	return map[string]string{
		ColOrderName:         o.Name,
		ColOrderEmail:        o.Email,
		ColOrderStatus:       string(o.FinancialStatus),
		ColOrderTotal:        o.Total.AmountString(),
		ColOrderDiscountCode: o.DiscountCode,
		ColOrderPhone:        o.Phone,
		ColOrderCreatedAt:    o.CreatedAt,
		ColOrderRefunded:     o.RefundedAmount.AmountString(),
	}
}

// OrderRecords flattens an order table
func OrderRecords(orders []tiering.Order) []map[string]string {
	records := make([]map[string]string, len(orders))
	for i, o := range orders {
		records[i] = OrderRecord(o)
	}
	return records
}
