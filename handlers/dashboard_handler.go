package handlers

import (
	"net/http"

	"github.com/boylish/Task-Manager-backend/middleware"
	"github.com/boylish/Task-Manager-backend/services"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboardData returns the global dashboard. Admin-only, enforced on the route.
func (h *DashboardHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.AdminDashboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// GetUserDashboardData returns the dashboard scoped to the principal's own
// assignments.
func (h *DashboardHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	dashboard, err := h.service.UserDashboard(r.Context(), principal)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
