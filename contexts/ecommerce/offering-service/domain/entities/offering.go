package entities

import "time"

type OfferingStatus string

const (
	OfferingStatusActive   OfferingStatus = "active"
	OfferingStatusInactive OfferingStatus = "inactive"
	OfferingStatusRetired  OfferingStatus = "retired"
)

// Offering is the locally owned aggregate. ProductID is a reference to a
// replicated product, resolved eagerly when a command validates it.
type Offering struct {
	OfferingID string
	Status     OfferingStatus
	Quantity   *int
	Price      *float64
	ProductID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func IsSupportedOfferingStatus(value OfferingStatus) bool {
	switch value {
	case OfferingStatusActive, OfferingStatusInactive, OfferingStatusRetired:
		return true
	default:
		return false
	}
}
