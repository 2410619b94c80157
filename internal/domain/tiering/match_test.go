package tiering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOrders(t *testing.T) {
	orders := []Order{
		{Name: "#1001", Email: "a@example.com", Phone: "111"},
		{Name: "#1002", Email: "b@example.com", Phone: "222"},
		{Name: "#1003", Email: "", Phone: "111"},
		{Name: "#1004", Email: "a@example.com", Phone: ""},
	}

	t.Run("matches by email when customer has one", func(t *testing.T) {
		matched := MatchOrders(Customer{Email: "a@example.com"}, orders)

		assert.Len(t, matched, 2)
		assert.Equal(t, "#1001", matched[0].Name)
		assert.Equal(t, "#1004", matched[1].Name)
	})

	t.Run("phone is not consulted when email is present", func(t *testing.T) {
		// Customer's phone matches #1001 and #1003, but the email decides.
		matched := MatchOrders(Customer{Email: "nobody@example.com", Phone: "111"}, orders)

		assert.Empty(t, matched)
	})

	t.Run("matches by phone when customer has no email", func(t *testing.T) {
		matched := MatchOrders(Customer{Phone: "111"}, orders)

		assert.Len(t, matched, 2)
		assert.Equal(t, "#1001", matched[0].Name)
		assert.Equal(t, "#1003", matched[1].Name)
	})

	t.Run("no identity matches nothing", func(t *testing.T) {
		assert.Empty(t, MatchOrders(Customer{}, orders))
	})

	t.Run("preserves input order", func(t *testing.T) {
		matched := MatchOrders(Customer{Phone: "111"}, orders)

		assert.Equal(t, []string{"#1001", "#1003"}, []string{matched[0].Name, matched[1].Name})
	})
}
