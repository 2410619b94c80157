package reconcile

import (
	"testing"

	"github.com/erp/tiering/internal/domain/shared/valueobject"
	"github.com/erp/tiering/internal/domain/tiering"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService(t *testing.T) *Service {
	t.Helper()
	schedule, err := tiering.NewSchedule(
		[]string{"Bronze", "Silver", "Gold"},
		[]decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(100), decimal.NewFromInt(500)},
	)
	require.NoError(t, err)
	window, err := tiering.NewDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	return NewService(schedule, window, zap.NewNop())
}

func paidOrder(name, email, phone, total, refunded, createdAt string) tiering.Order {
	return tiering.Order{
		Name:            name,
		Email:           email,
		Phone:           phone,
		FinancialStatus: tiering.FinancialStatusPaid,
		Total:           valueobject.MoneyFromStringOrZero(total),
		RefundedAmount:  valueobject.MoneyFromStringOrZero(refunded),
		CreatedAt:       createdAt,
	}
}

func testInput() Input {
	orders := []tiering.Order{
		paidOrder("#1001", "alice@example.com", "111", "80.00", "0", "2024-01-10 12:00:00 +0000"),
		{
			Name:            "#1002",
			Email:           "alice@example.com",
			Phone:           "111",
			FinancialStatus: tiering.FinancialStatusPartiallyRefunded,
			Total:           valueobject.MoneyFromStringOrZero("30.00"),
			RefundedAmount:  valueobject.MoneyFromStringOrZero("10.00"),
			CreatedAt:       "2024-01-20 12:00:00 +0000",
		},
		paidOrder("#1003", "bob@example.com", "", "600.00", "0", "2024-01-05 09:00:00 +0900"),
		paidOrder("#1004", "bob@example.com", "", "100.00", "0", "2024-02-05 09:00:00 +0900"), // outside window
		paidOrder("#1005", "", "555", "70.00", "0", "2024-01-15 08:00:00 -0800"),
		paidOrder("#1006", "alice@example.com", "111", "0", "0", "2024-01-12 12:00:00 +0000"), // zero total
		{
			Name:            "#1007",
			Email:           "alice@example.com",
			FinancialStatus: tiering.FinancialStatusPending,
			Total:           valueobject.MoneyFromStringOrZero("40.00"),
			CreatedAt:       "2024-01-13 12:00:00 +0000",
		},
	}
	customers := []tiering.Customer{
		{Email: "alice@example.com", Phone: "111", TotalSpent: valueobject.MoneyFromStringOrZero("500"), TotalOrders: 5, Tags: tiering.ParseTags("Gold, Loyal")},
		{Email: "bob@example.com", TotalSpent: valueobject.MoneyFromStringOrZero("40"), TotalOrders: 2},
		{Phone: "555", TotalSpent: valueobject.MoneyFromStringOrZero("60"), TotalOrders: 1, Tags: tiering.ParseTags("Loyal")},
		{Email: "dave@example.com", TotalSpent: valueobject.MoneyFromStringOrZero("1000"), TotalOrders: 0, Tags: tiering.ParseTags("Silver")},
		{TotalSpent: valueobject.MoneyFromStringOrZero("200"), TotalOrders: 3}, // no identity
	}
	return Input{Customers: customers, Orders: orders}
}

func TestServiceRun(t *testing.T) {
	service := testService(t)
	result := service.Run(testInput())

	t.Run("filters orders to settled positive totals inside the window", func(t *testing.T) {
		require.Len(t, result.FilteredOrders, 4)
		names := make([]string, len(result.FilteredOrders))
		for i, o := range result.FilteredOrders {
			names[i] = o.Name
		}
		assert.Equal(t, []string{"#1001", "#1002", "#1003", "#1005"}, names)
	})

	t.Run("sorts a copy by email then phone, stably", func(t *testing.T) {
		require.Len(t, result.SortedOrders, 4)
		names := make([]string, len(result.SortedOrders))
		for i, o := range result.SortedOrders {
			names[i] = o.Name
		}
		// The phone-only order has an empty email and sorts first; equal
		// keys keep their filtered order.
		assert.Equal(t, []string{"#1005", "#1001", "#1002", "#1003"}, names)
		assert.Equal(t, "#1001", result.FilteredOrders[0].Name) // filtered view untouched
	})

	t.Run("selects spend-qualified customers with net spend attached", func(t *testing.T) {
		require.Len(t, result.SpendQualified, 3)

		alice := result.SpendQualified[0]
		assert.Equal(t, "alice@example.com", alice.Email)
		require.True(t, alice.NetSpendKnown)
		assert.Equal(t, "100.00", alice.NetSpendInRange.StringFixed(2))

		carol := result.SpendQualified[1]
		assert.Equal(t, "555", carol.Phone)
		assert.Equal(t, "70.00", carol.NetSpendInRange.StringFixed(2))

		// The identity-less customer passes the spend gate but matches no
		// orders, so its net spend in range is zero.
		ghost := result.SpendQualified[2]
		assert.False(t, ghost.HasIdentity())
		assert.True(t, ghost.NetSpendInRange.IsZero())
	})

	t.Run("zero orders excludes even large historical spend", func(t *testing.T) {
		for _, c := range result.SpendQualified {
			assert.NotEqual(t, "dave@example.com", c.Email)
		}
	})

	t.Run("captures customers currently tagged with a tier, unmodified", func(t *testing.T) {
		require.Len(t, result.CurrentTier, 2)
		assert.Equal(t, "Gold, Loyal", result.CurrentTier[0].Tags.String())
		assert.Equal(t, "Silver", result.CurrentTier[1].Tags.String())
		assert.False(t, result.CurrentTier[0].NetSpendKnown)
	})

	t.Run("reclassifies every customer and keeps the tiered ones", func(t *testing.T) {
		require.Len(t, result.NewTier, 3)

		alice := result.NewTier[0]
		assert.Equal(t, "Silver, Loyal", alice.Tags.String())
		assert.Equal(t, "100.00", alice.NetSpendInRange.StringFixed(2))

		bob := result.NewTier[1]
		assert.Equal(t, "Gold", bob.Tags.String())
		assert.Equal(t, "600.00", bob.NetSpendInRange.StringFixed(2))

		carol := result.NewTier[2]
		assert.Equal(t, "Bronze, Loyal", carol.Tags.String())
		assert.Equal(t, "70.00", carol.NetSpendInRange.StringFixed(2))
	})

	t.Run("segments newly classified customers per tier in declaration order", func(t *testing.T) {
		require.Len(t, result.Segments, 3)
		assert.Equal(t, "Bronze", result.Segments[0].Tier)
		assert.Equal(t, "Silver", result.Segments[1].Tier)
		assert.Equal(t, "Gold", result.Segments[2].Tier)

		require.Len(t, result.Segments[0].Customers, 1)
		assert.Equal(t, "555", result.Segments[0].Customers[0].Phone)
		require.Len(t, result.Segments[1].Customers, 1)
		assert.Equal(t, "alice@example.com", result.Segments[1].Customers[0].Email)
		require.Len(t, result.Segments[2].Customers, 1)
		assert.Equal(t, "bob@example.com", result.Segments[2].Customers[0].Email)
	})

	t.Run("collects changed customers with merged or stripped tags", func(t *testing.T) {
		require.Len(t, result.Changed, 4)

		alice := result.Changed[0]
		assert.Equal(t, "Silver, Loyal", alice.Tags.String())
		assert.Equal(t, "100.00", alice.NetSpendInRange.StringFixed(2))

		bob := result.Changed[1]
		assert.Equal(t, "Gold", bob.Tags.String())

		carol := result.Changed[2]
		assert.Equal(t, "Bronze, Loyal", carol.Tags.String())

		// Dave held Silver but reclassified to no tier: tags stripped.
		dave := result.Changed[3]
		assert.Equal(t, "dave@example.com", dave.Email)
		assert.True(t, dave.Tags.IsEmpty())
		assert.True(t, dave.NetSpendInRange.IsZero())
	})
}

func TestServiceRunDoesNotMutateInput(t *testing.T) {
	service := testService(t)
	in := testInput()

	service.Run(in)

	assert.Equal(t, "Gold, Loyal", in.Customers[0].Tags.String())
	assert.False(t, in.Customers[0].NetSpendKnown)
	assert.Equal(t, "Silver", in.Customers[3].Tags.String())
}

func TestServiceRunIgnoresExcludedOrderAmounts(t *testing.T) {
	service := testService(t)

	base := service.Run(testInput())

	// Inflate an order the date filter already excluded; no customer's net
	// spend may move.
	altered := testInput()
	altered.Orders[3].Total = valueobject.MoneyFromStringOrZero("999999.99")
	again := service.Run(altered)

	require.Len(t, again.NewTier, len(base.NewTier))
	for i := range base.NewTier {
		assert.True(t, base.NewTier[i].NetSpendInRange.Equals(again.NewTier[i].NetSpendInRange))
	}
}

func TestServiceRunEmptyBatch(t *testing.T) {
	service := testService(t)

	result := service.Run(Input{})

	assert.Empty(t, result.FilteredOrders)
	assert.Empty(t, result.SpendQualified)
	assert.Empty(t, result.CurrentTier)
	assert.Empty(t, result.NewTier)
	assert.Empty(t, result.Changed)
	require.Len(t, result.Segments, 3)
	for _, seg := range result.Segments {
		assert.Empty(t, seg.Customers)
	}
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())
}
