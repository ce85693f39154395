package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig bundles the handlers and cross-cutting dependencies the
// router mounts.
type RouterConfig struct {
	Auth           *AuthHandler
	Participants   *ParticipantHandler
	Catalog        *CatalogHandler
	Schedule       *ScheduleHandler
	Requests       *RequestHandler
	Sessions       SessionValidator
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter assembles the API. Everything except login sits behind the
// session middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.Auth != nil {
		r.Post("/sessions", cfg.Auth.CreateSession)
	}

	r.Group(func(r chi.Router) {
		if cfg.Sessions != nil {
			r.Use(RequireSession(cfg.Sessions, cfg.Logger))
		}

		if cfg.Auth != nil {
			r.Delete("/sessions/current", cfg.Auth.DeleteCurrentSession)
		}

		if cfg.Participants != nil {
			r.Get("/participants", cfg.Participants.List)
			r.Post("/participants", cfg.Participants.Create)
			r.Get("/participants/{participantID}", cfg.Participants.Get)
			r.Delete("/participants/{participantID}", cfg.Participants.Delete)
			r.Get("/participants/{participantID}/counters", cfg.Participants.Counters)
		}

		if cfg.Catalog != nil {
			r.Get("/slots", cfg.Catalog.ListSlots)
			r.Post("/slots", cfg.Catalog.CreateSlot)
			r.Get("/rooms", cfg.Catalog.ListRooms)
			r.Post("/rooms", cfg.Catalog.CreateRoom)
			r.Delete("/rooms/{roomID}", cfg.Catalog.DeleteRoom)
		}

		if cfg.Schedule != nil {
			r.Get("/participants/{participantID}/availability", cfg.Schedule.ListAvailability)
			r.Post("/participants/{participantID}/availability/{slotID}", cfg.Schedule.ToggleAvailability)
			r.Get("/participants/{participantID}/preferences", cfg.Schedule.ListPreferences)
			r.Post("/participants/{participantID}/preferences", cfg.Schedule.AddPreference)
			r.Delete("/participants/{participantID}/preferences/{targetID}", cfg.Schedule.RemovePreference)
			r.Post("/participants/{participantID}/preferences/reorder", cfg.Schedule.ReorderPreference)

			r.Post("/matching/run", cfg.Schedule.RunMatching)
			r.Get("/meetings", cfg.Schedule.ListMeetings)
			r.Post("/meetings/{meetingID}/lock", cfg.Schedule.LockMeeting)
			r.Post("/cancellations", cfg.Schedule.Cancel)
			r.Post("/schedule/reset", cfg.Schedule.Reset)
		}

		if cfg.Requests != nil {
			r.Post("/requests", cfg.Requests.Create)
			r.Get("/requests", cfg.Requests.List)
			r.Get("/participants/{participantID}/requests", cfg.Requests.ListForParticipant)
			r.Put("/requests/{requestID}/status", cfg.Requests.UpdateStatus)
			r.Put("/requests/{requestID}/room", cfg.Requests.AssignRoom)
		}
	})

	return r
}
