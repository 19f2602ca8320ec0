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

// NeedHandler holds the training need service dependency.
type NeedHandler struct {
	needService service.NeedService
}

// NewNeedHandler creates a new NeedHandler.
func NewNeedHandler(needService service.NeedService) *NeedHandler {
	return &NeedHandler{needService: needService}
}

// --- Request/Response Structs ---

type NeedRequest struct {
	Title       string    `json:"titre" binding:"required"`
	Objective   string    `json:"objectif"`
	DesiredDate time.Time `json:"dateSouhaitee" binding:"required"`
	Priority    string    `json:"priorite" binding:"required"`
	Direction   string    `json:"direction" binding:"required"`
	EmployeeIDs []string  `json:"employeeIds" binding:"required"`
}

type DeleteNeedsRequest struct {
	IDs []string `json:"IDs" binding:"required"`
}

// --- Handler Methods ---

// ListNeeds handles GET /besoins.
func (h *NeedHandler) ListNeeds(c *gin.Context) {
	needs, err := h.needService.GetAllNeeds(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list training needs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": needs})
}

// GetNeed handles GET /besoins/:id.
func (h *NeedHandler) GetNeed(c *gin.Context) {
	needID, ok := h.needID(c)
	if !ok {
		return
	}

	need, err := h.needService.GetNeedByID(c.Request.Context(), needID)
	if err != nil {
		respondNeedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": need})
}

// CreateNeed handles POST /besoins.
func (h *NeedHandler) CreateNeed(c *gin.Context) {
	need, ok := h.bindNeed(c)
	if !ok {
		return
	}
	if idStr, err := getUserIDFromContext(c); err == nil {
		need.CreatedBy = idStr
	}

	created, err := h.needService.CreateNeed(c.Request.Context(), need)
	if err != nil {
		respondNeedError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// UpdateNeed handles PUT /besoins/:id.
func (h *NeedHandler) UpdateNeed(c *gin.Context) {
	needID, ok := h.needID(c)
	if !ok {
		return
	}
	need, ok := h.bindNeed(c)
	if !ok {
		return
	}
	need.ID = needID

	updated, err := h.needService.UpdateNeed(c.Request.Context(), need)
	if err != nil {
		respondNeedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteNeed handles DELETE /besoins/:id.
func (h *NeedHandler) DeleteNeed(c *gin.Context) {
	needID, ok := h.needID(c)
	if !ok {
		return
	}

	if err := h.needService.DeleteNeed(c.Request.Context(), needID); err != nil {
		respondNeedError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteNeeds handles POST /besoins/delete, the bulk removal used by the
// console's multi-select.
func (h *NeedHandler) DeleteNeeds(c *gin.Context) {
	var req DeleteNeedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, idStr := range req.IDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid need ID format: "+idStr)
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.needService.DeleteNeeds(c.Request.Context(), ids)
	if err != nil {
		respondNeedError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// --- Helpers ---

func (h *NeedHandler) bindNeed(c *gin.Context) (*domain.TrainingNeed, bool) {
	var req NeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return nil, false
	}

	employeeIDs := make([]primitive.ObjectID, 0, len(req.EmployeeIDs))
	for _, idStr := range req.EmployeeIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid employee ID format: "+idStr)
			return nil, false
		}
		employeeIDs = append(employeeIDs, id)
	}

	return &domain.TrainingNeed{
		Title:       req.Title,
		Objective:   req.Objective,
		DesiredDate: req.DesiredDate,
		Priority:    domain.NeedPriority(req.Priority),
		Direction:   req.Direction,
		EmployeeIDs: employeeIDs,
	}, true
}

func (h *NeedHandler) needID(c *gin.Context) (primitive.ObjectID, bool) {
	needID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid need ID format")
		return primitive.NilObjectID, false
	}
	return needID, true
}

func respondNeedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNeedValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNeedNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
