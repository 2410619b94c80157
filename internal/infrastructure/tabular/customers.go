package tabular

import (
	"fmt"
	"io"
	"strconv"

	"github.com/erp/tiering/internal/domain/shared/valueobject"
	"github.com/erp/tiering/internal/domain/tiering"
)

// Customer dataset column names, as exported by the store
const (
	ColCustomerEmail       = "Email"
	ColCustomerPhone       = "Phone"
	ColCustomerTotalSpent  = "Total Spent"
	ColCustomerTotalOrders = "Total Orders"
	ColCustomerTags        = "Tags"
	ColCustomerNetSpend    = "Total Spent In Date Range"
)

// CustomerColumns returns every customer column in canonical order,
// including the computed net-spend column
func CustomerColumns() []string {
	return []string{
		ColCustomerEmail,
		ColCustomerPhone,
		ColCustomerTotalSpent,
		ColCustomerTotalOrders,
		ColCustomerTags,
		ColCustomerNetSpend,
	}
}

// DecodeCustomers reads the customers dataset. Malformed numeric fields
// decode as zero; the record itself is kept.
func DecodeCustomers(r io.Reader) ([]tiering.Customer, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("customers dataset: %w", err)
	}
	if err := reader.ParseHeader(); err != nil {
		return nil, fmt.Errorf("customers dataset: %w", err)
	}
	rows, err := reader.ReadAllRows()
	if err != nil {
		return nil, fmt.Errorf("customers dataset: %w", err)
	}

	customers := make([]tiering.Customer, 0, len(rows))
	for _, row := range rows {
		totalOrders, convErr := strconv.Atoi(row.Get(ColCustomerTotalOrders))
		if convErr != nil {
			totalOrders = 0
		}
		customers = append(customers, tiering.Customer{
			Email:       row.Get(ColCustomerEmail),
			Phone:       row.Get(ColCustomerPhone),
			TotalSpent:  valueobject.MoneyFromStringOrZero(row.Get(ColCustomerTotalSpent)),
			TotalOrders: totalOrders,
			Tags:        tiering.ParseTags(row.Get(ColCustomerTags)),
		})
	}
	return customers, nil
}

// CustomerRecord flattens a customer into output cells by column name.
// The net-spend cell stays empty until the pipeline has attached a value.
func CustomerRecord(c tiering.Customer) map[string]string {
	netSpend := ""
	if c.NetSpendKnown {
		netSpend = c.NetSpendInRange.AmountString()
	}
	return map[string]string{
		ColCustomerEmail:       c.Email,
		ColCustomerPhone:       c.Phone,
		ColCustomerTotalSpent:  c.TotalSpent.AmountString(),
		ColCustomerTotalOrders: strconv.Itoa(c.TotalOrders),
		ColCustomerTags:        c.Tags.String(),
		ColCustomerNetSpend:    netSpend,
	}
}

// CustomerRecords flattens a customer table
func CustomerRecords(customers []tiering.Customer) []map[string]string {
	records := make([]map[string]string, len(customers))
	for i, c := range customers {
		records[i] = CustomerRecord(c)
	}
	return records
}
