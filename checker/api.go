package checker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// API is a HTTP API for the checker service
type API struct {
	checker  *Service
	validate *validator.Validate
}

func NewAPI(checker *Service) *API {
	return &API{
		checker:  checker,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidationErrorResponse is the body of a 422 response.
type ValidationErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type validateNetworkRequest struct {
	Network string `json:"network" validate:"required"`
	PAN     string `json:"pan"`
}

type panRequest struct {
	PAN string `json:"pan"`
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/validate", a.validateForNetwork)
	r.Route("/products", func(r chi.Router) {
		r.Post("/", a.createProduct)
		r.Get("/", a.listProducts)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", a.getProduct)
			r.Post("/validate", a.validateNumber)
			r.Post("/cards", a.registerCard)
		})
	})
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	create := models.CreateProduct{}
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(create); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := a.checker.CreateProduct(r.Context(), create)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.checker.ListProducts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := a.checker.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (a *API) validateNumber(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var body panRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.checker.ValidateNumber(r.Context(), productID, body.PAN); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) registerCard(w http.ResponseWriter, r *http.Request) {
	var body panRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	card, err := a.checker.RegisterCard(r.Context(), models.RegisterCard{
		ProductID: chi.URLParam(r, "productID"),
		PAN:       body.PAN,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (a *API) validateForNetwork(w http.ResponseWriter, r *http.Request) {
	var body validateNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.checker.ValidateForNetwork(body.Network, body.PAN); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service errors to status codes; validation failures are
// written as a ValidationErrorResponse.
func writeError(w http.ResponseWriter, err error) {
	var verr *cardvalidation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Type:    verr.Type().String(),
			Message: verr.Message(),
		})
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
