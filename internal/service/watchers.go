package service

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/contacts-cli/internal/config"
)

// Watcher is notified with the new snapshot after every successful reload.
// A returned error or panic is logged and does not affect other watchers.
type Watcher func(cfg config.Config) error

type registration struct {
	id uuid.UUID
	fn Watcher
}

// OnConfigChange registers w and returns a func that removes exactly this
// registration. The returned func is safe to call more than once.
func (s *Service) OnConfigChange(w Watcher) (unsubscribe func()) {
	if w == nil {
		return func() {}
	}

	id := uuid.New()
	s.mu.Lock()
	s.watchers = append(s.watchers, registration{id: id, fn: w})
	s.mu.Unlock()

	s.logger.Debug("configuration watcher registered", zap.Stringer("watcher_id", id))

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.watchers = slices.DeleteFunc(slices.Clone(s.watchers), func(r registration) bool {
				return r.id == id
			})
			s.mu.Unlock()
			s.logger.Debug("configuration watcher removed", zap.Stringer("watcher_id", id))
		})
	}
}

// WatcherCount returns the number of registered watchers.
func (s *Service) WatcherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watchers)
}

func (s *Service) notify(watchers []registration, cfg config.Config) {
	for _, r := range watchers {
		s.invoke(r, cfg)
	}
}

func (s *Service) invoke(r registration, cfg config.Config) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Warn("configuration watcher panicked",
				zap.Stringer("watcher_id", r.id),
				zap.Any("panic", rec),
			)
		}
	}()

	if err := r.fn(cfg.Clone()); err != nil {
		s.logger.Warn("configuration watcher failed",
			zap.Stringer("watcher_id", r.id),
			zap.Error(err),
		)
	}
}
