package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/churchkit/church-ops/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withRateLimit)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/reset/request", h.resetRequest)
		r.Post("/api/auth/reset/complete", h.resetComplete)
	})

	// routes that require a valid session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/password", h.changePassword)

		r.Group(func(r chi.Router) {
			r.Use(h.requirePermission(models.PermViewMembers))

			r.Get("/api/members", h.listMembers)
			r.Get("/api/members/{memberID}", h.getMember)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requirePermission(models.PermManageMembers))

			r.Post("/api/members", h.createMember)
			r.Patch("/api/members/{memberID}", h.updateMember)
			r.Delete("/api/members/{memberID}", h.deleteMember)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requirePermission(models.PermManageAccounts))

			r.Post("/api/admin/accounts/{accountID}/reactivate", h.reactivateAccount)
			r.Post("/api/admin/accounts/{accountID}/deactivate", h.deactivateAccount)
			r.Post("/api/admin/accounts/{accountID}/role", h.changeAccountRole)
		})
	})

	return router
}
