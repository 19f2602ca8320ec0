package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan lifecycle service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	Year  int    `json:"year" binding:"required"`
	Notes string `json:"notes"`
}

// budgetValue accepts both JSON numbers and numeric strings for the cout
// field; the administration console sends it as a string.
type budgetValue struct {
	value *float64
}

func (b *budgetValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("cout must be a finite number")
	}
	b.value = &f
	return nil
}

// AttachFormationRequest mirrors the console's attach body. Only the
// formation reference and the budget are used; descriptive fields are
// copied from the catalog entry server-side.
type AttachFormationRequest struct {
	FormationID string      `json:"formationId" binding:"required"`
	Cout        budgetValue `json:"cout"`
	DateDebut   string      `json:"dateDebut"`
	DateFin     string      `json:"dateFin"`
	Lieu        string      `json:"lieu"`
	Formateur   string      `json:"formateur"`
	Notes       string      `json:"notes"`
}

type RejectPlanRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type UpdatePlanNotesRequest struct {
	Notes string `json:"notes"`
}

// SessionResponse is a plan session DTO.
type SessionResponse struct {
	ID          string    `json:"id"`
	FormationID string    `json:"formationId"`
	Budget      float64   `json:"budget"`
	StartDate   time.Time `json:"dateDebut"`
	EndDate     time.Time `json:"dateFin"`
	Location    string    `json:"lieu,omitempty"`
	Trainer     string    `json:"formateur,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// PlanResponse is the plan aggregate DTO. TotalBudget is derived from the
// sessions on every response.
type PlanResponse struct {
	ID              string            `json:"id"`
	Year            int               `json:"year"`
	Status          domain.PlanStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	TotalBudget     float64           `json:"totalBudget"`
	Sessions        []SessionResponse `json:"formations"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// MapPlanToResponse converts a domain TrainingPlan to its DTO.
func MapPlanToResponse(plan *domain.TrainingPlan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	sessions := make([]SessionResponse, len(plan.Sessions))
	for i, s := range plan.Sessions {
		sessions[i] = SessionResponse{
			ID:          s.ID.Hex(),
			FormationID: s.FormationID.Hex(),
			Budget:      s.Budget,
			StartDate:   s.StartDate,
			EndDate:     s.EndDate,
			Location:    s.Location,
			Trainer:     s.Trainer,
			Notes:       s.Notes,
		}
	}
	return PlanResponse{
		ID:              plan.ID.Hex(),
		Year:            plan.Year,
		Status:          plan.Status,
		Notes:           plan.Notes,
		RejectionReason: plan.RejectionReason,
		TotalBudget:     plan.TotalBudget(),
		Sessions:        sessions,
		CreatedAt:       plan.CreatedAt,
		UpdatedAt:       plan.UpdatedAt,
	}
}

// --- Handler Methods ---

// ListPlans handles GET /plans with optional status filters. Several
// statuses may be supplied, either repeated or comma-separated; they are
// resolved in a single query.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve caller role")
		return
	}

	var statuses []domain.PlanStatus
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				statuses = append(statuses, domain.PlanStatus(part))
			}
		}
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), role, statuses)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mapPlans(plans)})
}

// GetPlansByYear handles GET /plans/year/:year.
func (h *PlanHandler) GetPlansByYear(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve caller role")
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid year")
		return
	}

	plans, err := h.planService.GetPlansByYear(c.Request.Context(), role, year)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mapPlans(plans)})
}

// GetPlanByID handles GET /plans/:id.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), role, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

// CreatePlan handles POST /plans.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve caller role")
		return
	}
	userID, _ := getUserIDFromContext(c)

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), role, userID, req.Year, req.Notes)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": MapPlanToResponse(plan)})
}

// AttachFormation handles POST /plans/:id/formations.
func (h *PlanHandler) AttachFormation(c *gin.Context) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}

	var req AttachFormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	formationID, err := primitive.ObjectIDFromHex(req.FormationID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formation ID format")
		return
	}

	plan, err := h.planService.AttachFormation(c.Request.Context(), role, planID, service.AttachFormationInput{
		FormationID: formationID,
		Budget:      req.Cout.value,
	})
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

// DetachFormation handles DELETE /plans/:id/formations/:formationId.
func (h *PlanHandler) DetachFormation(c *gin.Context) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}

	sessionID, err := primitive.ObjectIDFromHex(c.Param("formationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formation ID format")
		return
	}

	plan, err := h.planService.DetachFormation(c.Request.Context(), role, planID, sessionID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

// SubmitPlan handles PATCH /plans/:id/submit.
func (h *PlanHandler) SubmitPlan(c *gin.Context) {
	h.transition(c, func(role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
		return h.planService.SubmitForValidation(c.Request.Context(), role, planID)
	})
}

// ApprovePlan handles PATCH /plans/:id/approve.
func (h *PlanHandler) ApprovePlan(c *gin.Context) {
	h.transition(c, func(role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
		return h.planService.ApprovePlan(c.Request.Context(), role, planID)
	})
}

// RejectPlan handles PATCH /plans/:id/reject.
func (h *PlanHandler) RejectPlan(c *gin.Context) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}

	var req RejectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "A rejection reason is required")
		return
	}

	plan, err := h.planService.RejectPlan(c.Request.Context(), role, planID, req.Notes)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

// ResetPlan handles PATCH /plans/:id/reset.
func (h *PlanHandler) ResetPlan(c *gin.Context) {
	h.transition(c, func(role domain.Role, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
		return h.planService.ResetRejectedPlan(c.Request.Context(), role, planID)
	})
}

// UpdatePlanNotes handles PATCH /plans/:id/notes.
func (h *PlanHandler) UpdatePlanNotes(c *gin.Context) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}

	var req UpdatePlanNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.UpdatePlanNotes(c.Request.Context(), role, planID, req.Notes)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

// ListAvailableFormations handles GET /formations/available.
func (h *PlanHandler) ListAvailableFormations(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve caller role")
		return
	}

	formations, err := h.planService.ListAvailableFormations(c.Request.Context(), role)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mapFormations(formations)})
}

// --- Helpers ---

func (h *PlanHandler) roleAndPlanID(c *gin.Context) (domain.Role, primitive.ObjectID, bool) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve caller role")
		return "", primitive.NilObjectID, false
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return "", primitive.NilObjectID, false
	}
	return role, planID, true
}

func (h *PlanHandler) transition(c *gin.Context, apply func(domain.Role, primitive.ObjectID) (*domain.TrainingPlan, error)) {
	role, planID, ok := h.roleAndPlanID(c)
	if !ok {
		return
	}
	plan, err := apply(role, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapPlanToResponse(plan)})
}

func mapPlans(plans []domain.TrainingPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

// respondPlanError maps lifecycle service errors to HTTP statuses. Every
// failure keeps its message so the console can render a specific reason.
func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAllowed):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrFormationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidPlanState),
		errors.Is(err, service.ErrFormationTaken),
		errors.Is(err, service.ErrPlanConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
