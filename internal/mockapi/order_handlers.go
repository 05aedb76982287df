package mockapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := adminapi.OrderStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "unknown order status")
		return
	}
	email, start, end := q.Get("userEmail"), q.Get("startDate"), q.Get("endDate")

	s.data.mu.Lock()
	var out []adminapi.Order
	for _, id := range sortedKeys(s.data.orders) {
		o := s.data.orders[id]
		day := orderDay(o.CreatedAt)
		switch {
		case status != "" && o.Status != status,
			!containsFold(o.UserEmail, email),
			start != "" && day < start,
			end != "" && day > end:
			continue
		}
		out = append(out, *o)
	}
	s.data.mu.Unlock()

	// Newest first, like the console's order list.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	writeData(w, r, http.StatusOK, "Orders fetched", paginate(r, out))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	o, ok := s.data.orders[pathID(r, "id")]
	var out adminapi.Order
	if ok {
		out = *o
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
		return
	}
	writeData(w, r, http.StatusOK, "Order fetched", out)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status adminapi.OrderStatus `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil || !req.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "valid status is required")
		return
	}
	s.data.mu.Lock()
	o, ok := s.data.orders[pathID(r, "id")]
	var out adminapi.Order
	if ok {
		o.Status = req.Status
		out = *o
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
		return
	}
	writeData(w, r, http.StatusOK, "Order status updated", out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active, err := boolFilter(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	s.data.mu.Lock()
	out := make([]adminapi.User, 0, len(s.data.users))
	for _, a := range s.data.users {
		u := a.User
		switch {
		case !containsFold(u.Email, q.Get("email")),
			!containsFold(u.FirstName, q.Get("firstName")),
			!containsFold(u.LastName, q.Get("lastName")),
			active != nil && u.Active != *active:
			continue
		}
		out = append(out, u)
	}
	s.data.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	writeData(w, r, http.StatusOK, "Users fetched", paginate(r, out))
}

func (s *Server) handleUserStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := decodeBody(r, &req); err != nil || req.Active == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "active is required")
		return
	}
	s.data.mu.Lock()
	a, ok := s.data.users[strings.ToLower(mux.Vars(r)["email"])]
	if ok {
		a.Active = *req.Active
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		return
	}
	writeData(w, r, http.StatusOK, "User status updated", nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	out := adminapi.DashboardSummary{
		Products:   int64(len(s.data.products)),
		Brands:     int64(len(s.data.brands)),
		Categories: int64(len(s.data.categories)),
		Orders:     int64(len(s.data.orders)),
		Users:      int64(len(s.data.users)),
	}
	s.data.mu.Unlock()
	writeData(w, r, http.StatusOK, "Dashboard summary", out)
}
