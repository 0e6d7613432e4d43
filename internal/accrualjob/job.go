// Package accrualjob periodically catches every loan's accrued interest up to date.
package accrualjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const runTimeout = 5 * time.Minute

// Accruer recomputes accrued interest of all loans.
type Accruer interface {
	AccrueAll(ctx context.Context) (int, error)
}

// Job runs the accrual on a cron schedule.
type Job struct {
	cron    *cron.Cron
	accruer Accruer
	logger  zerolog.Logger
}

// New returns the job scheduled by spec, e.g. "@daily" or "0 2 * * *".
func New(spec string, accruer Accruer, logger zerolog.Logger) (*Job, error) {
	logger = logger.With().Str("job", "accrual").Logger()
	cl := cronLogger{l: logger}

	j := &Job{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		accruer: accruer,
		logger:  logger,
	}

	if _, err := j.cron.AddFunc(spec, j.Run); err != nil {
		return nil, err
	}

	return j, nil
}

// Run performs a single accrual pass.
func (j *Job) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	ctx = j.logger.WithContext(ctx)

	n, err := j.accruer.AccrueAll(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("accrual failed")
		return
	}

	j.logger.Info().Int("changed", n).Msg("accrual finished")
}

// Start starts the scheduler in its own goroutine.
func (j *Job) Start() {
	j.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running pass completes.
func (j *Job) Stop() context.Context {
	return j.cron.Stop()
}

type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
