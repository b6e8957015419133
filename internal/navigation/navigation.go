// Package navigation holds the dashboard's selected tab. The selection is
// process-wide: every open dashboard follows it through websocket pushes.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"co2dash/internal/infrastructure"
	"co2dash/pkg/contracts/domain"
)

// ErrUnknownTab is returned for a tab identifier outside the sidebar
var ErrUnknownTab = errors.New("unknown tab")

// EventChanged is the push message type for a new selection
const EventChanged = "navigation:changed"

// Publisher pushes events to connected dashboards
type Publisher interface {
	BroadcastContext(ctx context.Context, messageType string, data interface{})
}

// Snapshot is the navigation document served over HTTP and pushed on change
type Snapshot struct {
	Active    domain.Tab       `json:"active"`
	Title     string           `json:"title"`
	Tabs      []domain.TabInfo `json:"tabs"`
	ChangedAt time.Time        `json:"changed_at"`
}

// State is the mutex-guarded current tab
type State struct {
	mu        sync.RWMutex
	current   domain.Tab
	changedAt time.Time

	publisher Publisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewState starts on the default tab. publisher and metrics may be nil.
func NewState(publisher Publisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *State {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &State{
		current:   domain.DefaultTab,
		changedAt: time.Now().UTC(),
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "navigation")),
	}
}

// Snapshot describes the selection and the full tab list
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		Active:    s.current,
		Title:     s.current.Title(),
		Tabs:      domain.TabInfos(),
		ChangedAt: s.changedAt,
	}
}

// Select switches to the tab named by id. Selecting the current tab is a
// no-op that publishes nothing.
func (s *State) Select(ctx context.Context, id string) (Snapshot, error) {
	tab, err := domain.ParseTab(id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownTab, id)
	}

	s.mu.Lock()
	if s.current == tab {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	previous := s.current
	s.current = tab
	s.changedAt = time.Now().UTC()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	infrastructure.RecordNavigation(ctx, s.metrics, string(tab))
	s.logger.InfoContext(ctx, "tab selected",
		slog.String("from", string(previous)),
		slog.String("to", string(tab)))

	if s.publisher != nil {
		s.publisher.BroadcastContext(ctx, EventChanged, snap)
	}
	return snap, nil
}
