package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Scheduler tareas en segundo plano. Cada tarea recibe un ctx con el logger adjunto
// y sin tenant: quien necesite datos debe vincular su propio principal.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       zerolog.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewScheduler crea el planificador (sin arrancarlo).
func NewScheduler(log zerolog.Logger, opts ...gocron.SchedulerOption) (*Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("crear scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, log: log, jobs: make(map[string]gocron.Job)}, nil
}

// Every registra una tarea periódica. Una ejecución que no ha terminado hace que se salte la siguiente.
func (s *Scheduler) Every(name string, interval time.Duration, run func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q ya registrado", name)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		// gocron cancela ctx al detener el scheduler
		gocron.NewTask(func(ctx context.Context) {
			ctx = s.log.With().Str("job", name).Logger().WithContext(ctx)
			if err := run(ctx); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("job fallido")
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("registrar job %s: %w", name, err)
	}
	s.jobs[name] = job
	s.log.Info().Str("job", name).Dur("interval", interval).Msg("job registrado")
	return nil
}

// Start arranca el planificador.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.jobs)).Msg("iniciando scheduler")
	s.scheduler.Start()
}

// Stop detiene el planificador: cancela el ctx de las tareas en curso y las espera.
func (s *Scheduler) Stop() error {
	s.log.Info().Msg("deteniendo scheduler")
	return s.scheduler.Shutdown()
}

// Jobs nombres de las tareas registradas.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
