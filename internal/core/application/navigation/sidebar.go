// Package navigation keeps the dashboard's sidebar preference.
package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"agromarket/internal/core/ports"
)

// SidebarCollapsedKey is the storage key of the sidebar flag.
const SidebarCollapsedKey = "sigpa-sidebar-collapsed"

type Sidebar struct {
	mu        sync.Mutex
	collapsed bool

	store  ports.PreferenceStore
	logger *slog.Logger
}

func NewSidebar(store ports.PreferenceStore, logger *slog.Logger) *Sidebar {
	return &Sidebar{
		store:  store,
		logger: logger.With("component", "SidebarPreference"),
	}
}

// Load reads the stored flag. A missing, unreadable or malformed value means expanded.
func (s *Sidebar) Load(ctx context.Context) bool {
	collapsed := false

	value, found, err := s.store.Get(ctx, SidebarCollapsedKey)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "sidebar preference unavailable, using expanded", "error", err)
	case found:
		parsed, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			s.logger.WarnContext(ctx, "sidebar preference is malformed, using expanded", "value", value)
			break
		}
		collapsed = parsed
	}

	s.mu.Lock()
	s.collapsed = collapsed
	s.mu.Unlock()
	return collapsed
}

func (s *Sidebar) Collapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed
}

// Toggle flips the flag and persists it. Returns the new value.
func (s *Sidebar) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, !s.collapsed)
}

func (s *Sidebar) SetCollapsed(ctx context.Context, collapsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.setLocked(ctx, collapsed)
	return err
}

func (s *Sidebar) setLocked(ctx context.Context, collapsed bool) (bool, error) {
	if err := s.store.Set(ctx, SidebarCollapsedKey, strconv.FormatBool(collapsed)); err != nil {
		return s.collapsed, fmt.Errorf("save sidebar preference: %w", err)
	}
	s.collapsed = collapsed
	s.logger.InfoContext(ctx, "sidebar preference saved", "collapsed", collapsed)
	return collapsed, nil
}
