package services

import (
	"errors"
	"sync"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
)

var ErrConfirmRequired = errors.New("bulk delete requires explicit confirmation")

// Dashboard is one admin session's view of the registration list: the
// fetched snapshot plus the filter computation over it. The snapshot is
// replaced by Refresh (one fetch per list view), emptied by a confirmed
// ClearAll without a re-fetch, and left untouched when the store fails.
type Dashboard struct {
	mu      sync.Mutex
	repo    repository.RegistrationRepository
	records []domain.Registration
}

// Refresh fetches the record set and replaces the snapshot. A fetch failure
// keeps the previous snapshot.
func (d *Dashboard) Refresh() error {
	records, err := d.repo.ListAll()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.records = records
	d.mu.Unlock()
	return nil
}

// Records returns a copy of the snapshot.
func (d *Dashboard) Records() []domain.Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Registration, len(d.records))
	copy(out, d.records)
	return out
}

// Visible applies the search/category predicate to the snapshot.
func (d *Dashboard) Visible(query, category string) []domain.Registration {
	d.mu.Lock()
	records := d.records
	d.mu.Unlock()
	return FilterRegistrations(records, query, category)
}

// ClearAll deletes every persisted registration. On success the snapshot is
// emptied immediately, without a re-fetch; on store failure it is unchanged.
func (d *Dashboard) ClearAll(confirm bool) error {
	if !confirm {
		return ErrConfirmRequired
	}

	if err := d.repo.DeleteAll(); err != nil {
		return err
	}

	d.mu.Lock()
	d.records = nil
	d.mu.Unlock()
	return nil
}

// DashboardService hands out one Dashboard per admin session and drops it
// when the session ends.
type DashboardService struct {
	mu     sync.Mutex
	repo   repository.RegistrationRepository
	broker *SessionBroker
	boards map[string]*Dashboard
	unsubs map[string]func()
}

func NewDashboardService(repo repository.RegistrationRepository, broker *SessionBroker) *DashboardService {
	return &DashboardService{
		repo:   repo,
		broker: broker,
		boards: make(map[string]*Dashboard),
		unsubs: make(map[string]func()),
	}
}

func (s *DashboardService) ForSession(sessionID string) *Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.boards[sessionID]; ok {
		return d
	}

	d := &Dashboard{repo: s.repo}
	s.boards[sessionID] = d

	if s.broker != nil {
		s.unsubs[sessionID] = s.broker.Subscribe(sessionID, func(sess *Session) {
			if sess == nil {
				s.drop(sessionID)
			}
		})
	}
	return d
}

func (s *DashboardService) drop(sessionID string) {
	s.mu.Lock()
	unsub := s.unsubs[sessionID]
	delete(s.unsubs, sessionID)
	delete(s.boards, sessionID)
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}
