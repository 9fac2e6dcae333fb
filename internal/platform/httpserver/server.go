package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	offeringservice "offeringsvc/contexts/ecommerce/offering-service"
	domainerrors "offeringsvc/contexts/ecommerce/offering-service/domain/errors"
	offeringhttp "offeringsvc/contexts/ecommerce/offering-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "offeringsvc/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	offering offeringservice.Module
}

func New(offering offeringservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		offering: offering,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /offering", s.handleListOfferings)
	s.mux.HandleFunc("POST /offering", s.handleCreateOffering)
	s.mux.HandleFunc("PUT /offering", s.handleUpdateOffering)
	s.mux.HandleFunc("GET /offering/{id}", s.handleGetOffering)
	s.mux.HandleFunc("DELETE /offering/{id}", s.handleDeleteOffering)

	s.mux.HandleFunc("GET /products", s.handleListProducts)
	s.mux.HandleFunc("GET /products/{id}", s.handleGetProduct)
}

// handleCreateOffering godoc
//
//	@Summary	Create a new offering for a product
//	@Accept		json
//	@Produce	json
//	@Param		offering	body		object	true	"offering to create"
//	@Success	201			{object}	object
//	@Failure	400			{object}	object
//	@Failure	404			{object}	object
//	@Router		/offering [post]
func (s *Server) handleCreateOffering(w http.ResponseWriter, r *http.Request) {
	var req offeringhttp.CreateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.offering.Handler.CreateOfferingHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", "/offering/"+resp.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// handleUpdateOffering godoc
//
//	@Summary	Replace an offering's status, quantity, price and product reference
//	@Accept		json
//	@Success	204
//	@Failure	400	{object}	object
//	@Failure	404	{object}	object
//	@Router		/offering [put]
func (s *Server) handleUpdateOffering(w http.ResponseWriter, r *http.Request) {
	var req offeringhttp.UpdateOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.offering.Handler.UpdateOfferingHandler(r.Context(), req); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOffering(w http.ResponseWriter, r *http.Request) {
	offeringID := r.PathValue("id")
	resp, err := s.offering.Handler.GetOfferingHandler(r.Context(), offeringID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOfferings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offering.Handler.ListOfferingsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOffering(w http.ResponseWriter, r *http.Request) {
	offeringID := r.PathValue("id")
	if err := s.offering.Handler.DeleteOfferingHandler(r.Context(), offeringID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	resp, err := s.offering.Handler.GetProductHandler(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offering.Handler.ListProductsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrOfferingNotFound):
		writeError(w, http.StatusNotFound, "offering_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrProductRetired):
		writeError(w, http.StatusBadRequest, "product_retired", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidOfferingInput):
		writeError(w, http.StatusBadRequest, "invalid_offering_input", err.Error())
	case errors.Is(err, domainerrors.ErrProductReassignmentNotAllowed):
		writeError(w, http.StatusConflict, "product_reassignment_not_allowed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, offeringhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
