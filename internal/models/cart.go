package models

import "time"

type CartItem struct {
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	ImageURL  string     `json:"image_url"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}

type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

const (
	TaxRate           = 0.10
	FreeShippingAbove = 100.0
	FlatShippingFee   = 10.0
)

// Subtotal somme prix × quantité de chaque ligne
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalsFor calcule sous-total, TVA, livraison et total d'un panier.
// Livraison offerte au-dessus de 100, forfait de 10 sinon.
func TotalsFor(items []CartItem) CartTotals {
	subtotal := Subtotal(items)
	tax := subtotal * TaxRate
	shipping := FlatShippingFee
	if subtotal > FreeShippingAbove {
		shipping = 0
	}
	return CartTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}
