package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/go-faster/errors"
)

// Job описывает периодическую задачу. Запуски одной задачи не перекрываются.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	logger    *slog.Logger
}

func NewScheduler(logger *slog.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      jobs,
		logger:    logger,
	}
}

// Start регистрирует задачи и запускает планировщик. Контекст ctx передаётся в каждую задачу.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			s.logger.Info("Задача отключена", "job", job.Name)
			continue
		}

		_, err := s.scheduler.Every(job.Interval).SingletonMode().Tag(job.Name).Do(s.wrap(ctx, job))
		if err != nil {
			return errors.Wrapf(err, "регистрация задачи %s", job.Name)
		}

		s.logger.Info("Задача запланирована",
			"job", job.Name,
			"interval", job.Interval.String(),
		)
	}

	s.scheduler.StartAsync()

	return nil
}

func (s *Scheduler) wrap(ctx context.Context, job Job) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}

		jobCtx, cancel := context.WithTimeout(ctx, job.Interval)
		defer cancel()

		start := time.Now()

		if err := job.Run(jobCtx); err != nil {
			s.logger.Error("Ошибка при выполнении задачи",
				"job", job.Name,
				"error", err,
			)

			return
		}

		s.logger.Debug("Задача выполнена",
			"job", job.Name,
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	s.scheduler.Stop()
}
