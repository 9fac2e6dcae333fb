package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OfferingDTO struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Quantity  *int     `json:"quantity,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	ProductID string   `json:"productId"`
}

type CreateOfferingRequest struct {
	Status    string   `json:"status"`
	ProductID string   `json:"productId"`
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
}

type UpdateOfferingRequest struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	ProductID string   `json:"productId"`
	Quantity  *int     `json:"quantity"`
	Price     *float64 `json:"price"`
}

type ProductDTO struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
