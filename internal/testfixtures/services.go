package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/forum-matchmaker/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// SchedulingService builds a scheduling service over the supplied
// repositories using the factory's clock and id generator.
func (f *ServiceFactory) SchedulingService(repos application.SchedulingRepositories, logger *slog.Logger) *application.SchedulingService {
	return application.NewSchedulingService(repos, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
}

// SchedulingServiceFromHarness wires every repository from a SQLite harness
// into a scheduling service.
func (f *ServiceFactory) SchedulingServiceFromHarness(h *SQLiteHarness, logger *slog.Logger) *application.SchedulingService {
	return f.SchedulingService(application.SchedulingRepositories{
		Participants: h.Participants,
		Slots:        h.Slots,
		Rooms:        h.Rooms,
		Availability: h.Availability,
		Preferences:  h.Preferences,
		Meetings:     h.Meetings,
		Requests:     h.Requests,
	}, logger)
}

// AuthService builds an auth service over the supplied harness.
func (f *ServiceFactory) AuthService(h *SQLiteHarness, ttl time.Duration, logger *slog.Logger) *application.AuthService {
	return application.NewAuthService(h.Participants, h.Sessions, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), ttl, logger)
}
