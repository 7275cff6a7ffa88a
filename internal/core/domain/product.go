package domain

// Product is the authoritative record the product validator returns for an id.
type Product struct {
	ID    string
	Name  string
	Price float64
}
