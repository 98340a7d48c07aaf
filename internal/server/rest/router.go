package rest

import (
	"github.com/gin-gonic/gin"

	a "github.com/you/drivingschool-training/pkg/auth"
)

// NewRouter mounts the training API. Everything sits behind JWT auth; write
// operations are additionally role-gated.
func NewRouter(svc Service) *gin.Engine {
	r := gin.Default()
	h := NewHandler(svc)

	v1 := r.Group("/v1")
	v1.Use(JWTAuth())
	{
		v1.GET("/sessions", h.ListSessions)
		v1.GET("/sessions/:id", h.GetSession)
		v1.GET("/sessions/:id/enrollments", h.ListEnrollments)

		staff := v1.Group("")
		staff.Use(RequireRole(a.RoleInstructor, a.RoleAdmin))
		{
			staff.POST("/sessions", h.CreateSession)
			staff.PUT("/sessions/:id", h.UpdateSession)
			staff.PATCH("/sessions/:id/status", h.UpdateSessionStatus)
			staff.DELETE("/sessions/:id", h.CancelSession)
			staff.PATCH("/enrollments/:id", h.UpdateEnrollment)
		}

		// students enroll themselves; staff may enroll on their behalf
		v1.POST("/enrollments", h.Enroll)
		// owner-or-staff check is an MVP gap; any authenticated user may cancel
		v1.DELETE("/enrollments/:id", h.CancelEnrollment)

		v1.GET("/instructors", h.ListInstructors)
		v1.GET("/vehicles", h.ListVehicles)

		admin := v1.Group("")
		admin.Use(RequireRole(a.RoleAdmin))
		{
			admin.POST("/instructors", h.CreateInstructor)
			admin.POST("/vehicles", h.CreateVehicle)
		}
	}
	return r
}
