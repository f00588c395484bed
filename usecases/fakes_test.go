package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"justissimo-api/models"
	"justissimo-api/notification"
)

type fakeRepo struct {
	users        map[uint]*models.User
	schedulings  map[uint]*models.Scheduling
	lawyers      map[uint]*models.Lawyer
	divulgations map[uint]*models.Divulgation
	mayReviews   []models.MayReview

	searchResult  []models.Lawyer
	searchErr     error
	searchFilters []*models.LawyerFilter

	// returned after within succeeds, as if the commit itself failed
	commitErr error

	reads  int
	writes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        map[uint]*models.User{},
		schedulings:  map[uint]*models.Scheduling{},
		lawyers:      map[uint]*models.Lawyer{},
		divulgations: map[uint]*models.Divulgation{},
	}
}

func (r *fakeRepo) FindUser(_ context.Context, id uint) (*models.User, error) {
	r.reads++
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) FindOpenScheduling(_ context.Context, id uint) (*models.Scheduling, error) {
	r.reads++
	if s, ok := r.schedulings[id]; ok && !s.Closed {
		copied := *s
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

// CloseScheduling mirrors the transactional contract: within's error restores prior state.
func (r *fakeRepo) CloseScheduling(ctx context.Context, c models.SchedulingClosure, within func(ctx context.Context) error) error {
	r.writes++
	s, ok := r.schedulings[c.SchedulingID]
	if !ok || s.Closed {
		return models.ErrNotFound
	}

	before := *s
	grants := len(r.mayReviews)

	closedAt := c.ClosedAt
	s.Closed = true
	s.Justification = c.Justification
	s.ClosureReason = c.Reason
	s.ClosedAt = &closedAt
	if c.MayReview != nil {
		r.mayReviews = append(r.mayReviews, *c.MayReview)
	}

	if within != nil {
		if err := within(ctx); err != nil {
			*s = before
			r.mayReviews = r.mayReviews[:grants]
			return err
		}
	}
	if r.commitErr != nil {
		*s = before
		r.mayReviews = r.mayReviews[:grants]
		return r.commitErr
	}
	return nil
}

func (r *fakeRepo) FindLawyer(_ context.Context, id uint) (*models.Lawyer, error) {
	r.reads++
	if l, ok := r.lawyers[id]; ok {
		return l, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeRepo) FindDivulgationWithMessages(_ context.Context, id, lawyerID uint) (*models.Divulgation, error) {
	r.reads++
	d, ok := r.divulgations[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	copied := *d
	copied.Messages = nil
	for _, m := range d.Messages {
		if m.LawyerID == lawyerID {
			copied.Messages = append(copied.Messages, m)
		}
	}
	sort.Slice(copied.Messages, func(i, j int) bool {
		return copied.Messages[i].SentAt.After(copied.Messages[j].SentAt)
	})
	return &copied, nil
}

func (r *fakeRepo) SearchLawyers(_ context.Context, filter *models.LawyerFilter) ([]models.Lawyer, error) {
	r.reads++
	r.searchFilters = append(r.searchFilters, filter)
	return r.searchResult, r.searchErr
}

func (r *fakeRepo) Ping(context.Context) error { return nil }

func (r *fakeRepo) Close() error { return nil }

type fakeNotifier struct {
	sent []notification.Notification
	// 1-based call that fails; 0 never fails
	failOn int
	calls  int
	// behaves like the queue notifier when set
	afterCommit bool
	onNotify    func(notification.Notification)
}

func (n *fakeNotifier) AfterCommit() bool { return n.afterCommit }

var errMailDown = errors.New("dial tcp: connection refused")

func (n *fakeNotifier) Notify(_ context.Context, msg notification.Notification) error {
	n.calls++
	if n.onNotify != nil {
		n.onNotify(msg)
	}
	if n.failOn == n.calls {
		return errMailDown
	}
	n.sent = append(n.sent, msg)
	return nil
}

var fixedNow = time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC)
