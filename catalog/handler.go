package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/logging"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Handler exposes an InMemoryCatalog over HTTP using the storefront routes.
type Handler struct {
	catalog *InMemoryCatalog
	logger  logging.Logger
	mux     *http.ServeMux
}

// NewHandler creates a Handler backed by the provided catalog.
func NewHandler(c *InMemoryCatalog, logger logging.Logger) *Handler {
	h := &Handler{catalog: c, logger: logging.Or(logger), mux: http.NewServeMux()}
	h.RegisterRoutes(h.mux)
	return h
}

// RegisterRoutes wires catalog routes onto the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)
	mux.HandleFunc("GET /stock/{id}", h.handleGetStock)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.Products()
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, "product", id, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.catalog.Stock(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, "stock", id, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		h.writeError(w, http.StatusBadRequest, "INVALID_INPUT", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeLookupError(w http.ResponseWriter, kind string, id int, err error) {
	if errors.Is(err, core.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", kind+" not found")
		return
	}
	h.logger.Error("catalog lookup failed", "kind", kind, "product_id", id, "error", err)
	h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve "+kind)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
