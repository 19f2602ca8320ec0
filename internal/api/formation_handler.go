package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormationHandler holds the catalog service dependency.
type FormationHandler struct {
	formationService service.FormationService
}

// NewFormationHandler creates a new FormationHandler.
func NewFormationHandler(formationService service.FormationService) *FormationHandler {
	return &FormationHandler{formationService: formationService}
}

// --- Request/Response Structs ---

type FormationRequest struct {
	Theme     string    `json:"theme" binding:"required"`
	StartDate time.Time `json:"dateDebut" binding:"required"`
	EndDate   time.Time `json:"dateFin" binding:"required"`
	Location  string    `json:"lieu"`
	Trainer   string    `json:"formateur"`
	Notes     string    `json:"notes"`
}

type FormationResponse struct {
	ID        string    `json:"id"`
	Theme     string    `json:"theme"`
	StartDate time.Time `json:"dateDebut"`
	EndDate   time.Time `json:"dateFin"`
	Location  string    `json:"lieu,omitempty"`
	Trainer   string    `json:"formateur,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	PlanID    *string   `json:"planId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapFormationToResponse converts a domain CatalogFormation to its DTO.
func MapFormationToResponse(formation *domain.CatalogFormation) FormationResponse {
	resp := FormationResponse{
		ID:        formation.ID.Hex(),
		Theme:     formation.Theme,
		StartDate: formation.StartDate,
		EndDate:   formation.EndDate,
		Location:  formation.Location,
		Trainer:   formation.Trainer,
		Notes:     formation.Notes,
		CreatedAt: formation.CreatedAt,
	}
	if formation.PlanID != nil {
		planIDHex := formation.PlanID.Hex()
		resp.PlanID = &planIDHex
	}
	return resp
}

func mapFormations(formations []domain.CatalogFormation) []FormationResponse {
	responses := make([]FormationResponse, len(formations))
	for i := range formations {
		responses[i] = MapFormationToResponse(&formations[i])
	}
	return responses
}

// --- Handler Methods ---

// ListFormations handles GET /trainings.
func (h *FormationHandler) ListFormations(c *gin.Context) {
	formations, err := h.formationService.GetAllFormations(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list formations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mapFormations(formations)})
}

// ListCompletedFormations handles GET /trainings/completed.
func (h *FormationHandler) ListCompletedFormations(c *gin.Context) {
	formations, err := h.formationService.GetCompletedFormations(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list completed formations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mapFormations(formations)})
}

// GetFormation handles GET /trainings/:id.
func (h *FormationHandler) GetFormation(c *gin.Context) {
	formationID, ok := h.formationID(c)
	if !ok {
		return
	}

	formation, err := h.formationService.GetFormationByID(c.Request.Context(), formationID)
	if err != nil {
		respondFormationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapFormationToResponse(formation)})
}

// CreateFormation handles POST /trainings.
func (h *FormationHandler) CreateFormation(c *gin.Context) {
	var req FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	formation, err := h.formationService.CreateFormation(c.Request.Context(), req.Theme, req.StartDate, req.EndDate, req.Location, req.Trainer, req.Notes)
	if err != nil {
		respondFormationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": MapFormationToResponse(formation)})
}

// UpdateFormation handles PUT /trainings/:id.
func (h *FormationHandler) UpdateFormation(c *gin.Context) {
	formationID, ok := h.formationID(c)
	if !ok {
		return
	}

	var req FormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	formation, err := h.formationService.UpdateFormation(c.Request.Context(), formationID, req.Theme, req.StartDate, req.EndDate, req.Location, req.Trainer, req.Notes)
	if err != nil {
		respondFormationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": MapFormationToResponse(formation)})
}

// DeleteFormation handles DELETE /trainings/:id.
func (h *FormationHandler) DeleteFormation(c *gin.Context) {
	formationID, ok := h.formationID(c)
	if !ok {
		return
	}

	if err := h.formationService.DeleteFormation(c.Request.Context(), formationID); err != nil {
		respondFormationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

func (h *FormationHandler) formationID(c *gin.Context) (primitive.ObjectID, bool) {
	formationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formation ID format")
		return primitive.NilObjectID, false
	}
	return formationID, true
}

func respondFormationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormationValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFormationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFormationInUse):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
