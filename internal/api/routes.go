package api

import (
	"net/http"

	"cevital/training-admin/internal/domain"
	"cevital/training-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP routes. Role gates at the router cut obviously
// unauthorized calls early; plan lifecycle transitions are re-checked in the
// service layer against the authorization table.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	formationService service.FormationService,
	employeeService service.EmployeeService,
	evaluationService service.EvaluationService,
	needService service.NeedService,
	userService service.UserService,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	formationHandler := NewFormationHandler(formationService)
	employeeHandler := NewEmployeeHandler(employeeService)
	evaluationHandler := NewEvaluationHandler(evaluationService)
	needHandler := NewNeedHandler(needService)
	userHandler := NewUserHandler(userService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			// Account creation is reserved to administrators.
			authGroup.POST("/register", authMiddleware, RoleMiddleware(domain.RoleAdmin), authHandler.Register)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Training Plan Lifecycle ---
		planGroup := protected.Group("/plans")
		{
			readRoles := domain.PlanReadRoles()

			planGroup.GET("", RoleMiddleware(readRoles...), planHandler.ListPlans)
			planGroup.GET("/year/:year", RoleMiddleware(readRoles...), planHandler.GetPlansByYear)
			planGroup.GET("/:id", RoleMiddleware(readRoles...), planHandler.GetPlanByID)

			planGroup.POST("", RoleMiddleware(domain.RoleServiceFormation, domain.RoleAdmin), planHandler.CreatePlan)

			planGroup.POST("/:id/formations", RoleMiddleware(domain.RoleServiceFormation), planHandler.AttachFormation)
			planGroup.DELETE("/:id/formations/:formationId", RoleMiddleware(domain.RoleServiceFormation), planHandler.DetachFormation)

			planGroup.PATCH("/:id/submit", RoleMiddleware(domain.RoleServiceFormation), planHandler.SubmitPlan)
			planGroup.PATCH("/:id/approve", RoleMiddleware(domain.RoleDirecteurGeneral), planHandler.ApprovePlan)
			planGroup.PATCH("/:id/reject", RoleMiddleware(domain.RoleDirecteurGeneral), planHandler.RejectPlan)
			planGroup.PATCH("/:id/reset", RoleMiddleware(domain.RoleServiceFormation), planHandler.ResetPlan)
			planGroup.PATCH("/:id/notes", RoleMiddleware(readRoles...), planHandler.UpdatePlanNotes)
		}

		// GET /api/v1/formations/available - unclaimed catalog entries,
		// served for the plan editor's picker.
		protected.GET("/formations/available", RoleMiddleware(domain.RoleServiceFormation), planHandler.ListAvailableFormations)

		// --- Training Catalog ---
		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.GET("", formationHandler.ListFormations)
			trainingGroup.GET("/completed", formationHandler.ListCompletedFormations)
			trainingGroup.GET("/:id", formationHandler.GetFormation)

			catalogWriters := RoleMiddleware(domain.RoleServiceFormation, domain.RoleAdmin)
			trainingGroup.POST("", catalogWriters, formationHandler.CreateFormation)
			trainingGroup.PUT("/:id", catalogWriters, formationHandler.UpdateFormation)
			trainingGroup.DELETE("/:id", catalogWriters, formationHandler.DeleteFormation)
		}

		// --- Employees ---
		employeeGroup := protected.Group("/employees")
		{
			employeeGroup.GET("", employeeHandler.ListEmployees)
			employeeGroup.GET("/:matricule", employeeHandler.GetEmployee)

			rosterWriters := RoleMiddleware(domain.RoleServiceFormation, domain.RoleResponsableDirection, domain.RoleAdmin)
			employeeGroup.POST("", rosterWriters, employeeHandler.CreateEmployee)
			employeeGroup.PUT("/:matricule", rosterWriters, employeeHandler.UpdateEmployee)
			employeeGroup.DELETE("/:matricule", rosterWriters, employeeHandler.DeleteEmployee)
		}

		// --- Training Needs ---
		needGroup := protected.Group("/besoins")
		{
			needGroup.GET("", needHandler.ListNeeds)
			needGroup.GET("/:id", needHandler.GetNeed)

			needWriters := RoleMiddleware(domain.RoleResponsableDirection, domain.RoleServiceFormation, domain.RoleAdmin)
			needGroup.POST("", needWriters, needHandler.CreateNeed)
			needGroup.PUT("/:id", needWriters, needHandler.UpdateNeed)
			needGroup.DELETE("/:id", needWriters, needHandler.DeleteNeed)
			// Bulk removal goes through POST so the id list rides in the body.
			needGroup.POST("/delete", needWriters, needHandler.DeleteNeeds)
		}

		// --- Hot Evaluations ---
		evaluationGroup := protected.Group("/evaluation-chaud")
		{
			evaluationGroup.POST("", RoleMiddleware(domain.RoleEmploye), evaluationHandler.CreateEvaluation)
			evaluationGroup.GET("/formation/:formationId", evaluationHandler.ListByFormation)
			evaluationGroup.GET("/employee/:employeeId", evaluationHandler.ListByEmployee)
		}

		// --- Cold Evaluations ---
		coldGroup := protected.Group("/evaluation-froid")
		{
			// A manager evaluates their collaborator months after a formation.
			coldGroup.POST("", RoleMiddleware(domain.RoleResponsableDirection), evaluationHandler.CreateColdEvaluation)
			coldGroup.GET("/history", evaluationHandler.ColdHistory)
			coldGroup.GET("/formation/:formationId", evaluationHandler.ColdByFormation)
			coldGroup.GET("/employee/:employeeId", evaluationHandler.ColdByEmployee)
		}

		// --- Accounts ---
		userGroup := protected.Group("/users")
		{
			// Any authenticated account manages its own avatar.
			userGroup.POST("/me/avatar/upload-url", userHandler.RequestAvatarUpload)
			userGroup.POST("/me/avatar/confirm", userHandler.ConfirmAvatarUpload)
			userGroup.GET("/me/avatar/url", userHandler.GetAvatarURL)

			adminOnly := RoleMiddleware(domain.RoleAdmin)
			userGroup.GET("", adminOnly, userHandler.ListUsers)
			userGroup.PUT("/:id", adminOnly, userHandler.UpdateUser)
			userGroup.DELETE("/:id", adminOnly, userHandler.DeleteUser)
		}
	}
}
