package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/core/service"
	"github.com/rl1809/order-service/internal/observability"
)

const defaultPageLimit = 10

type HTTPHandler struct {
	orders *service.OrderService
}

func NewHTTPHandler(orders *service.OrderService) *HTTPHandler {
	return &HTTPHandler{orders: orders}
}

// Register wires the RPC-style order endpoints onto the mux, each wrapped
// with request metrics.
func (h *HTTPHandler) Register(mux *http.ServeMux, metrics *observability.ServerMetrics) {
	mux.HandleFunc("POST /api/orders", metrics.Instrument("create", h.Create))
	mux.HandleFunc("GET /api/orders", metrics.Instrument("find_all", h.FindAll))
	mux.HandleFunc("GET /api/orders/{id}", metrics.Instrument("find_one", h.FindOne))
	mux.HandleFunc("POST /api/orders/{id}/status", metrics.Instrument("change_status", h.ChangeStatus))
	mux.HandleFunc("GET /health", h.HealthCheck)
}

type createOrderItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

type createOrderRequest struct {
	Items []createOrderItemRequest `json:"items"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name,omitempty"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	TotalAmount float64             `json:"totalAmount"`
	TotalItems  int                 `json:"totalItems"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Items       []orderItemResponse `json:"items,omitempty"`
}

type pageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
}

type findAllResponse struct {
	Data []orderResponse `json:"data"`
	Meta pageMeta        `json:"meta"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), items)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *HTTPHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	query := service.ListOrdersQuery{Page: 1, Limit: defaultPageLimit}

	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "page must be an integer"})
			return
		}
		query.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: "limit must be an integer"})
			return
		}
		query.Limit = limit
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		query.Status = &status
	}

	page, err := h.orders.ListOrders(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]orderResponse, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, toOrderResponse(&page.Data[i]))
	}

	writeJSON(w, http.StatusOK, findAllResponse{
		Data: data,
		Meta: pageMeta{Total: page.Meta.Total, Page: page.Meta.Page, LastPage: page.Meta.LastPage},
	})
}

func (h *HTTPHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.orders.ChangeStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
		})
	}
	return resp
}

func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: validationErr.Message})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: notFoundErr.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
