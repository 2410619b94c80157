package tiering

import (
	"github.com/erp/tiering/internal/domain/shared/valueobject"
)

// Customer represents one customer row from the customers dataset.
// Identity is email and/or phone; both are optional. Customers are loaded
// once per run and derived copies carry recomputed tags and net spend, so
// the original and recomputed views can be diffed safely.
type Customer struct {
	Email           string
	Phone           string
	TotalSpent      valueobject.Money
	TotalOrders     int
	Tags            TagSet
	NetSpendInRange valueobject.Money
	NetSpendKnown   bool // true once the pipeline has attached net spend
}

// HasEmail returns true if the customer has an email identity
func (c Customer) HasEmail() bool {
	return c.Email != ""
}

// HasPhone returns true if the customer has a phone identity
func (c Customer) HasPhone() bool {
	return c.Phone != ""
}

// HasIdentity returns true if the customer can be matched at all
func (c Customer) HasIdentity() bool {
	return c.HasEmail() || c.HasPhone()
}

// SameCustomer reports whether both records refer to the same customer.
// Email decides when both records carry one; phone decides only when
// neither does. A record with no identity matches nothing.
func (c Customer) SameCustomer(other Customer) bool {
	if c.HasEmail() && other.HasEmail() {
		return c.Email == other.Email
	}
	if !c.HasEmail() && !other.HasEmail() {
		return c.HasPhone() && c.Phone == other.Phone
	}
	return false
}

// WithTags returns a copy of the customer with the tag list replaced
func (c Customer) WithTags(tags TagSet) Customer {
	c.Tags = tags
	return c
}

// WithNetSpend returns a copy of the customer with net spend in range attached
func (c Customer) WithNetSpend(net valueobject.Money) Customer {
	c.NetSpendInRange = net
	c.NetSpendKnown = true
	return c
}
