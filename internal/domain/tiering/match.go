package tiering

// MatchOrders returns the subset of orders belonging to the customer,
// preserving input order. Email takes precedence: when the customer has an
// email only orders with that buyer email match, and phone is not consulted.
// A customer with neither email nor phone matches no orders.
func MatchOrders(c Customer, orders []Order) []Order {
	if !c.HasIdentity() {
		return nil
	}
	var matched []Order
	for _, o := range orders {
		if c.HasEmail() {
			if o.Email == c.Email {
				matched = append(matched, o)
			}
			continue
		}
		if o.Phone == c.Phone {
			matched = append(matched, o)
		}
	}
	return matched
}
