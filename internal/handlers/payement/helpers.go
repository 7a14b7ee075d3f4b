package payement

import "math"

// CheckoutItem : ligne envoyée par la page checkout
type CheckoutItem struct {
	Name     string  `json:"name" binding:"required"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// toMinorUnits convertit un prix en centimes, arrondi à l'entier
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
