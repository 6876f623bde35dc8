// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"
	"time"

	"planora/internal/domain"
	"planora/internal/storage"
)

// Storage keeps drafts and submissions in process memory.
type Storage struct {
	mu          sync.Mutex
	drafts      map[storage.DraftKey]storage.Draft
	submissions []storage.Submission
	nextID      int64
	now         func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		drafts: make(map[storage.DraftKey]storage.Draft),
		now:    time.Now,
	}
}

func (s *Storage) LoadDraft(_ context.Context, key storage.DraftKey) (*storage.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	d.Answers = d.Answers.Clone()
	return &d, nil
}

func (s *Storage) SaveDraft(_ context.Context, d storage.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.Answers = d.Answers.Clone()
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = s.now()
	}
	s.drafts[d.Key] = d
	return nil
}

func (s *Storage) DeleteDraft(_ context.Context, key storage.DraftKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}

func (s *Storage) PurgeDraftsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, d := range s.drafts {
		if d.UpdatedAt.Before(cutoff) {
			delete(s.drafts, k)
			n++
		}
	}
	return n, nil
}

func (s *Storage) SaveSubmission(_ context.Context, sub *storage.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sub.ID = s.nextID
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now()
	}
	cp := *sub
	cp.Answers = sub.Answers.Clone()
	s.submissions = append(s.submissions, cp)
	return nil
}

func (s *Storage) LatestSubmission(_ context.Context, session string, q domain.QuestionnaireID) (*storage.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.submissions) - 1; i >= 0; i-- {
		sub := s.submissions[i]
		if sub.Session == session && sub.Questionnaire == q {
			sub.Answers = sub.Answers.Clone()
			return &sub, nil
		}
	}
	return nil, storage.ErrNotFound
}
