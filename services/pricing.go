package services

import "math"

// DefaultPaymentPerPerson is the per-participant price in rupees.
const DefaultPaymentPerPerson = 1

// CalculateAmount returns the total payable amount in rupees for a team of the
// given size. Rate <= 0 falls back to the default.
func CalculateAmount(rate int, participants int) int {
	if rate <= 0 {
		rate = DefaultPaymentPerPerson
	}
	return rate * participants
}

// RupeesToPaise converts a rupee amount to paise for the Razorpay API.
// Rounds half away from zero; amounts in this domain are whole rupees, so the
// rounding only guards against callers passing derived floats.
func RupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}
