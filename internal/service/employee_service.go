package service

import (
	"context"
	"errors"
	"fmt"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeExists     = errors.New("employee with this matricule already exists")
	ErrEmployeeValidation = errors.New("employee validation failed")
)

// --- Service Interface ---
type EmployeeService interface {
	CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	GetEmployeeByMatricule(ctx context.Context, matricule string) (*domain.Employee, error)
	GetAllEmployees(ctx context.Context) ([]domain.Employee, error)
	UpdateEmployee(ctx context.Context, matricule string, update *domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, matricule string) error
}

// employeeService implements the EmployeeService interface.
type employeeService struct {
	employeeRepo repository.EmployeeRepository
}

// NewEmployeeService creates a new instance of employeeService.
func NewEmployeeService(employeeRepo repository.EmployeeRepository) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo}
}

// CreateEmployee registers a new staff member.
func (s *employeeService) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}

	// Check for an existing matricule up front for a clean error; the
	// unique index is the real guard.
	_, err := s.employeeRepo.GetByMatricule(ctx, employee.Matricule)
	if err == nil {
		return nil, ErrEmployeeExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmployeeExists
		}
		return nil, err
	}
	return s.employeeRepo.GetByMatricule(ctx, employee.Matricule)
}

// GetEmployeeByMatricule retrieves a single employee.
func (s *employeeService) GetEmployeeByMatricule(ctx context.Context, matricule string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.GetByMatricule(ctx, matricule)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

// GetAllEmployees retrieves the full roster.
func (s *employeeService) GetAllEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.employeeRepo.GetAll(ctx)
}

// UpdateEmployee modifies an existing employee. The matricule is immutable.
func (s *employeeService) UpdateEmployee(ctx context.Context, matricule string, update *domain.Employee) (*domain.Employee, error) {
	existing, err := s.GetEmployeeByMatricule(ctx, matricule)
	if err != nil {
		return nil, err
	}

	existing.FirstName = update.FirstName
	existing.LastName = update.LastName
	existing.Email = update.Email
	existing.Position = update.Position
	existing.Direction = update.Direction
	existing.UserID = update.UserID

	if existing.LastName == "" {
		return nil, fmt.Errorf("%w: last name is required", ErrEmployeeValidation)
	}

	if err := s.employeeRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteEmployee removes an employee by matricule.
func (s *employeeService) DeleteEmployee(ctx context.Context, matricule string) error {
	err := s.employeeRepo.Delete(ctx, matricule)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

func validateEmployee(employee *domain.Employee) error {
	if !domain.IsValidMatricule(employee.Matricule) {
		return fmt.Errorf("%w: matricule must be exactly six digits", ErrEmployeeValidation)
	}
	if employee.LastName == "" {
		return fmt.Errorf("%w: last name is required", ErrEmployeeValidation)
	}
	return nil
}
