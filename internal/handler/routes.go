package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notenexus/note-nexus-api/internal/middleware"
	"github.com/notenexus/note-nexus-api/internal/models"
	"github.com/notenexus/note-nexus-api/internal/service"
)

// capability names the access level a route demands. Role-gated routes
// re-read the caller's role from the users table on every request, so a
// role change takes effect immediately.
type capability int

const (
	capPublic capability = iota
	capAuthenticated
	capInstructor
	capAdmin
)

type route struct {
	method  string
	path    string
	cap     capability
	handler gin.HandlerFunc
}

// Handlers groups the endpoint handlers registered on the router.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Class    *ClassHandler
	Bookmark *BookmarkHandler
	Payment  *PaymentHandler
	Metrics  *MetricsHandler
}

// RegisterRoutes installs the full route table. Every route is listed
// once, next to the capability it requires, rather than scattered across
// handler files.
func RegisterRoutes(r *gin.Engine, h Handlers, auth *service.AuthService, users middleware.UserFinder) {
	routes := []route{
		{"GET", "/health", capPublic, h.Metrics.Health},
		{"GET", "/ready", capPublic, h.Metrics.Ready},
		{"GET", "/metrics", capPublic, h.Metrics.Prometheus},

		{"POST", "/jwt", capPublic, h.Auth.Token},
		{"PUT", "/user/:email", capPublic, h.User.Register},
		{"GET", "/all-classes", capPublic, h.Class.Approved},
		{"GET", "/instructors", capPublic, h.User.Instructors},

		{"GET", "/user-role/:email", capAuthenticated, h.User.Role},
		{"POST", "/select-class", capAuthenticated, h.Bookmark.Select},
		{"GET", "/selected-classes", capAuthenticated, h.Bookmark.List},
		{"DELETE", "/selected-class/:id", capAuthenticated, h.Bookmark.Delete},
		{"POST", "/create-payment-intent", capAuthenticated, h.Payment.CreateIntent},
		{"POST", "/payments", capAuthenticated, h.Payment.Record},
		{"GET", "/enrollment-check", capAuthenticated, h.Payment.EnrollmentCheck},
		{"GET", "/payment-history", capAuthenticated, h.Payment.History},
		{"GET", "/payment-receipt/:id", capAuthenticated, h.Payment.Receipt},

		{"POST", "/class", capInstructor, h.Class.Create},
		{"GET", "/my-classes", capInstructor, h.Class.Mine},
		{"GET", "/my-classes/export", capInstructor, h.Class.ExportMine},
		{"GET", "/class/:id", capInstructor, h.Class.Get},
		{"PUT", "/class/:id", capInstructor, h.Class.Update},

		{"GET", "/all-users", capAdmin, h.User.List},
		{"PUT", "/set-role/:id", capAdmin, h.User.SetRole},
		{"GET", "/classes", capAdmin, h.Class.List},
		{"PUT", "/class-approve/:id", capAdmin, h.Class.Approve},
		{"PUT", "/class-deny/:id", capAdmin, h.Class.Deny},
	}

	jwt := middleware.JWT(auth)
	instructor := middleware.RequireRole(users, models.RoleInstructor)
	admin := middleware.RequireRole(users, models.RoleAdmin)

	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		switch rt.cap {
		case capAuthenticated:
			chain = append(chain, jwt)
		case capInstructor:
			chain = append(chain, jwt, instructor)
		case capAdmin:
			chain = append(chain, jwt, admin)
		}
		chain = append(chain, rt.handler)
		r.Handle(rt.method, rt.path, chain...)
	}
}
