package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/halvard/choreboard/internal/service"
)

type Server struct {
	mx                *chi.Mux
	authService       service.AuthServiceI
	householdsService service.HouseholdsServiceI
	categoriesService service.CategoriesServiceI
	choresService     service.ChoresServiceI
	registryService   service.RegistryServiceI
}

type ServicesList struct {
	AuthService       service.AuthServiceI
	HouseholdsService service.HouseholdsServiceI
	CategoriesService service.CategoriesServiceI
	ChoresService     service.ChoresServiceI
	RegistryService   service.RegistryServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                chi.NewMux(),
		authService:       servicesOptions.AuthService,
		householdsService: servicesOptions.HouseholdsService,
		categoriesService: servicesOptions.CategoriesService,
		choresService:     servicesOptions.ChoresService,
		registryService:   servicesOptions.RegistryService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)

	s.mx.Post("/auth/login", s.Login)

	s.mx.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Post("/auth/logout", s.Logout)
		r.Get("/auth/me", s.Me)

		r.Route("/households", func(r chi.Router) {
			r.Get("/", s.ListHouseholds)
			r.Post("/", s.CreateHousehold)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetHousehold)
				r.Patch("/", s.RenameHousehold)
				r.Post("/members", s.AddHouseholdMember)

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", s.ListCategories)
					r.Post("/", s.CreateCategory)
					r.Get("/{cid}", s.GetCategory)
					r.Patch("/{cid}", s.RenameCategory)
					r.Delete("/{cid}", s.DeleteCategory)
				})

				r.Route("/chores", func(r chi.Router) {
					r.Get("/", s.ListChores)
					r.Post("/", s.CreateChore)
					r.Get("/{chid}", s.GetChore)
					r.Patch("/{chid}", s.UpdateChore)
					r.Delete("/{chid}", s.DeleteChore)
				})

				r.Route("/registry", func(r chi.Router) {
					r.Get("/", s.ListRegistry)
					r.Post("/", s.CreateRegistryEntry)
					r.Post("/batch", s.CreateRegistryBatch)
				})

				r.Get("/leaderboard", s.Leaderboard)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}
