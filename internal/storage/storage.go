package storage

import (
	"slices"
	"strings"
	"sync"

	"github.com/lehigh-university-libraries/exifreport/internal/models"
)

// ReportStore keeps generated reports in memory, keyed by report id
type ReportStore struct {
	reports map[string]*models.Report
	mu      sync.RWMutex
}

func New() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*models.Report),
	}
}

func (s *ReportStore) Get(id string) (*models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, exists := s.reports[id]
	return report, exists
}

func (s *ReportStore) Set(id string, report *models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[id] = report
}

// All returns the stored reports, newest first
func (s *ReportStore) All() []*models.Report {
	s.mu.RLock()
	result := make([]*models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		result = append(result, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b *models.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Delete removes a report and reports whether it existed
func (s *ReportStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.reports[id]
	delete(s.reports, id)
	return exists
}

func (s *ReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
