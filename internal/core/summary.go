package core

// Total sums the amounts in slice order. The empty sum is 0.
func Total(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
