package models

// CheckoutProjection lists the service fields the checkout page needs
var CheckoutProjection = []string{"title", "price", "service_id", "img"}
