package entities

type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusRetired ProductStatus = "retired"
)

// Product is the local replica of the upstream product aggregate. It is only
// ever written by consumed events, never by the command path.
type Product struct {
	ProductID string
	Status    ProductStatus
}

func (p Product) Retired() bool {
	return p.Status == ProductStatusRetired
}
