package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
)

type taskCounter interface {
	Counts(ctx context.Context) (task.Counts, error)
}

type userCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// StatsJob periodically refreshes the task and user gauges. It only reads.
type StatsJob struct {
	log     *slog.Logger
	tasks   taskCounter
	users   userCounter
	metrics *Metrics
	timeout time.Duration
	cron    *cron.Cron
}

// NewStatsJob schedules the refresh on schedule, a standard five-field cron
// expression or a descriptor such as "@every 1m".
func NewStatsJob(log *slog.Logger, schedule string, tasks taskCounter, users userCounter, m *Metrics) (*StatsJob, error) {
	if tasks == nil || users == nil || m == nil {
		return nil, errors.New("stats: nil dependency")
	}
	if log == nil {
		log = slog.Default()
	}

	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelWarn))
	j := &StatsJob{
		log:     log,
		tasks:   tasks,
		users:   users,
		metrics: m,
		timeout: 10 * time.Second,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
	if _, err := j.cron.AddFunc(schedule, func() { _ = j.RunOnce(context.Background()) }); err != nil {
		return nil, err
	}
	return j, nil
}

// RunOnce reads the current counts and publishes them.
func (j *StatsJob) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, j.timeout)
	defer cancel()

	counts, err := j.tasks.Counts(ctx)
	if err != nil {
		j.metrics.statsResult(false)
		j.log.Warn("stats.refresh.fail", "stage", "tasks", "err", err)
		return err
	}
	users, err := j.users.CountUsers(ctx)
	if err != nil {
		j.metrics.statsResult(false)
		j.log.Warn("stats.refresh.fail", "stage", "users", "err", err)
		return err
	}

	j.metrics.SetTaskCounts(counts)
	j.metrics.SetUsers(users)
	j.metrics.statsResult(true)
	j.log.Debug("stats.refresh",
		"users", users,
		"completed", counts.Completed,
		"pending", counts.Pending,
		"overdue", counts.Overdue,
	)
	return nil
}

// Start primes the gauges and starts the scheduler.
func (j *StatsJob) Start() {
	go func() { _ = j.RunOnce(context.Background()) }()
	j.cron.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (j *StatsJob) Stop() {
	<-j.cron.Stop().Done()
}
