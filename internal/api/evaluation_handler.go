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

// EvaluationHandler records and reads hot (end-of-training) evaluations and
// cold (months-later) evaluations.
type EvaluationHandler struct {
	evaluationService service.EvaluationService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evaluationService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// --- Request/Response Structs ---

type EvaluationRequest struct {
	FormationID        string `json:"formationId" binding:"required"`
	EmployeeID         string `json:"employeeId" binding:"required"`
	ContentRating      int    `json:"contentRating" binding:"required"`
	TrainerRating      int    `json:"trainerRating" binding:"required"`
	OrganizationRating int    `json:"organizationRating" binding:"required"`
	Comment            string `json:"comment"`
}

type ColdEvaluationRequest struct {
	FormationID string    `json:"formationId" binding:"required"`
	EmployeeID  string    `json:"employeeId" binding:"required"`
	Score       float64   `json:"note"`
	Question1   string    `json:"question1"`
	Question2   string    `json:"question2"`
	Question3   string    `json:"question3"`
	Question4   string    `json:"question4"`
	Service     string    `json:"service"`
	Comment     string    `json:"commentaire"`
	EvaluatedAt time.Time `json:"dateEvaluation" binding:"required"`
}

// --- Handler Methods ---

// CreateEvaluation handles POST /evaluation-chaud.
func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	var req EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	formationID, err := primitive.ObjectIDFromHex(req.FormationID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formationId format")
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid employeeId format")
		return
	}

	evaluation := &domain.HotEvaluation{
		FormationID:        formationID,
		EmployeeID:         employeeID,
		ContentRating:      req.ContentRating,
		TrainerRating:      req.TrainerRating,
		OrganizationRating: req.OrganizationRating,
		Comment:            req.Comment,
	}

	created, err := h.evaluationService.CreateEvaluation(c.Request.Context(), evaluation)
	if err != nil {
		respondEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// ListByFormation handles GET /evaluation-chaud/formation/:formationId.
func (h *EvaluationHandler) ListByFormation(c *gin.Context) {
	formationID, err := primitive.ObjectIDFromHex(c.Param("formationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formation ID format")
		return
	}

	evaluations, err := h.evaluationService.GetEvaluationsByFormation(c.Request.Context(), formationID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evaluations})
}

// ListByEmployee handles GET /evaluation-chaud/employee/:employeeId.
func (h *EvaluationHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("employeeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	evaluations, err := h.evaluationService.GetEvaluationsByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evaluations})
}

// CreateColdEvaluation handles POST /evaluation-froid. The evaluator is the
// authenticated caller, not a field of the payload.
func (h *EvaluationHandler) CreateColdEvaluation(c *gin.Context) {
	var req ColdEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	formationID, err := primitive.ObjectIDFromHex(req.FormationID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formationId format")
		return
	}
	employeeID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid employeeId format")
		return
	}
	evaluatorID, ok := callerID(c)
	if !ok {
		return
	}

	evaluation := &domain.ColdEvaluation{
		FormationID: formationID,
		EmployeeID:  employeeID,
		EvaluatorID: evaluatorID,
		Score:       req.Score,
		Question1:   req.Question1,
		Question2:   req.Question2,
		Question3:   req.Question3,
		Question4:   req.Question4,
		Service:     req.Service,
		Comment:     req.Comment,
		EvaluatedAt: req.EvaluatedAt,
	}

	created, err := h.evaluationService.CreateColdEvaluation(c.Request.Context(), evaluation)
	if err != nil {
		respondEvaluationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// ColdHistory handles GET /evaluation-froid/history.
func (h *EvaluationHandler) ColdHistory(c *gin.Context) {
	evaluations, err := h.evaluationService.GetColdEvaluationHistory(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list cold evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evaluations})
}

// ColdByFormation handles GET /evaluation-froid/formation/:formationId.
func (h *EvaluationHandler) ColdByFormation(c *gin.Context) {
	formationID, err := primitive.ObjectIDFromHex(c.Param("formationId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid formation ID format")
		return
	}

	evaluations, err := h.evaluationService.GetColdEvaluationsByFormation(c.Request.Context(), formationID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list cold evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evaluations})
}

// ColdByEmployee handles GET /evaluation-froid/employee/:employeeId.
func (h *EvaluationHandler) ColdByEmployee(c *gin.Context) {
	employeeID, err := primitive.ObjectIDFromHex(c.Param("employeeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	evaluations, err := h.evaluationService.GetColdEvaluationsByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list cold evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evaluations})
}

func respondEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluationValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFormationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyEvaluated):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
