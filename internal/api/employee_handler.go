package api

import (
	"errors"
	"fmt"
	"net/http"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmployeeHandler manages the staff roster.
type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// --- Request/Response Structs ---

type EmployeeRequest struct {
	Matricule string `json:"matricule" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Position  string `json:"position"`
	Direction string `json:"direction"`
	UserID    string `json:"userId"`
}

// --- Handler Methods ---

// ListEmployees handles GET /employees.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeService.GetAllEmployees(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employees})
}

// GetEmployee handles GET /employees/:matricule.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployeeByMatricule(c.Request.Context(), c.Param("matricule"))
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employee})
}

// CreateEmployee handles POST /employees.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	employee, ok := bindEmployee(c)
	if !ok {
		return
	}

	created, err := h.employeeService.CreateEmployee(c.Request.Context(), employee)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// UpdateEmployee handles PUT /employees/:matricule. The matricule in the
// path names the record; the one in the body is ignored.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	employee, ok := bindEmployee(c)
	if !ok {
		return
	}

	updated, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("matricule"), employee)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// DeleteEmployee handles DELETE /employees/:matricule.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), c.Param("matricule")); err != nil {
		respondEmployeeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

func bindEmployee(c *gin.Context) (*domain.Employee, bool) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return nil, false
	}

	employee := &domain.Employee{
		Matricule: req.Matricule,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Position:  req.Position,
		Direction: req.Direction,
	}
	if req.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid userId format")
			return nil, false
		}
		employee.UserID = &userID
	}
	return employee, true
}

func respondEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmployeeExists):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
