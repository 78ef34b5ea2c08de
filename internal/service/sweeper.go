package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper periodically evicts finished results older than the TTL.
type Sweeper struct {
	cron  *cron.Cron
	store *ResultStore
	ttl   time.Duration
	log   zerolog.Logger
}

func NewSweeper(store *ResultStore, schedule string, ttl time.Duration, log zerolog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		store: store,
		ttl:   ttl,
		log:   log,
	}
	s.cron = cron.New(cron.WithLogger(cronLogger{log: log}))
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) Sweep() int {
	evicted := s.store.EvictOlderThan(s.ttl)
	if evicted > 0 {
		s.log.Info().Int("evicted", evicted).Int("remaining", s.store.Len()).Msg("stale results evicted")
	}
	return evicted
}

type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
