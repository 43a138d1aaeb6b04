// Package scheduler runs the periodic housekeeping jobs.
package scheduler

import (
	"context"
	"time"

	"mainet/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// Job is one periodic task. Run gets a context bounded by the job interval.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Start registers jobs on a new scheduler and starts it. A job never overlaps
// with its own previous run.
func Start(jobs ...Job) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	for _, j := range jobs {
		j := j
		_, err := s.NewJob(
			gocron.DurationJob(j.Every),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), j.Every)
				defer cancel()
				if err := j.Run(ctx); err != nil {
					logger.Warn("scheduled job failed", "job", j.Name, "error", err)
				}
			}),
			gocron.WithName(j.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = s.Shutdown()
			return nil, err
		}
	}

	s.Start()
	return s, nil
}
