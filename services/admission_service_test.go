package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
	"mutiroes-api/models"
	"mutiroes-api/repositories"
)

type fakeStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
	rows   map[string]*models.EventParticipant
}

func newFakeStore(events ...*models.Event) *fakeStore {
	s := &fakeStore{
		events: make(map[string]*models.Event),
		rows:   make(map[string]*models.EventParticipant),
	}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func rowKey(eventID, userID string) string {
	return eventID + "/" + userID
}

func (s *fakeStore) WithEventLock(eventID string, fn func(repositories.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return gorm.ErrRecordNotFound
	}
	return fn(s)
}

func (s *fakeStore) EventByID(id string) (*models.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *event
	return &copied, nil
}

func (s *fakeStore) Participation(eventID, userID string) (*models.EventParticipant, error) {
	row, ok := s.rows[rowKey(eventID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *fakeStore) ConfirmedCount(eventID string) (int64, error) {
	var count int64
	for _, row := range s.rows {
		if row.EventID == eventID && row.Status == models.ParticipationConfirmed {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) CreateParticipation(p *models.EventParticipant) error {
	key := rowKey(p.EventID, p.UserID)
	if _, exists := s.rows[key]; exists {
		return errors.New("duplicate row")
	}
	copied := *p
	s.rows[key] = &copied
	return nil
}

func (s *fakeStore) SaveParticipation(p *models.EventParticipant) error {
	copied := *p
	s.rows[rowKey(p.EventID, p.UserID)] = &copied
	return nil
}

func (s *fakeStore) row(eventID, userID string) *models.EventParticipant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[rowKey(eventID, userID)]
}

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openEvent(id string, maxParticipants int) *models.Event {
	return &models.Event{
		ID:                   id,
		Title:                "Limpeza da Praia",
		Status:               models.EventStatusPublished,
		StartDate:            testClock.Add(48 * time.Hour),
		EndDate:              testClock.Add(52 * time.Hour),
		RegistrationDeadline: testClock.Add(24 * time.Hour),
		MaxParticipants:      maxParticipants,
	}
}

func newTestService(store *fakeStore) *AdmissionService {
	svc := NewAdmissionService(store)
	svc.now = func() time.Time { return testClock }
	return svc
}

func TestJoinConfirmsDirectly(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	p, err := svc.Join("e1", "u1", JoinRequest{})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if p.Status != models.ParticipationConfirmed {
		t.Errorf("status = %q, want confirmed", p.Status)
	}
	if p.ExperienceLevel != models.ExperienceBeginner {
		t.Errorf("experience level = %q, want beginner default", p.ExperienceLevel)
	}
}

func TestJoinPendingWhenApprovalRequired(t *testing.T) {
	event := openEvent("e1", 10)
	event.RequiresApproval = true
	store := newFakeStore(event)
	svc := newTestService(store)

	p, err := svc.Join("e1", "u1", JoinRequest{})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if p.Status != models.ParticipationPending {
		t.Errorf("status = %q, want pending", p.Status)
	}
}

func TestJoinUnknownEvent(t *testing.T) {
	svc := newTestService(newFakeStore())

	if _, err := svc.Join("missing", "u1", JoinRequest{}); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestJoinDuplicateRejected(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("first Join: %v", err)
	}
	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Join err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestJoinPendingRowStillBlocksDuplicate(t *testing.T) {
	event := openEvent("e1", 10)
	event.RequiresApproval = true
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("first Join: %v", err)
	}
	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestJoinCapacityFull(t *testing.T) {
	store := newFakeStore(openEvent("e1", 1))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("first Join: %v", err)
	}
	if _, err := svc.Join("e1", "u2", JoinRequest{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
}

func TestJoinPendingRowsDoNotConsumeCapacity(t *testing.T) {
	event := openEvent("e1", 1)
	event.RequiresApproval = true
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("first Join: %v", err)
	}
	// The pending row from u1 holds no spot; another pending join fits.
	if _, err := svc.Join("e1", "u2", JoinRequest{}); err != nil {
		t.Fatalf("second Join: %v", err)
	}
}

func TestJoinAfterDeadline(t *testing.T) {
	event := openEvent("e1", 10)
	event.RegistrationDeadline = testClock.Add(-time.Hour)
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestJoinUnpublishedEvent(t *testing.T) {
	event := openEvent("e1", 10)
	event.Status = models.EventStatusDraft
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
}

func TestJoinCheckOrderDuplicateBeforeCapacity(t *testing.T) {
	store := newFakeStore(openEvent("e1", 1))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	// u1 hits both rules; duplicate registration must win.
	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered before ErrCapacityExceeded", err)
	}
}

func TestJoinCheckOrderCapacityBeforeDeadline(t *testing.T) {
	event := openEvent("e1", 1)
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	event.RegistrationDeadline = testClock.Add(-time.Hour)
	if _, err := svc.Join("e1", "u2", JoinRequest{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded before ErrRegistrationClosed", err)
	}
}

func TestJoinRevivesCancelledRow(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := svc.Leave("e1", "u1"); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	p, err := svc.Join("e1", "u1", JoinRequest{SpecialNeeds: "wheelchair access"})
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if p.Status != models.ParticipationConfirmed {
		t.Errorf("status = %q, want confirmed", p.Status)
	}
	if p.SpecialNeeds != "wheelchair access" {
		t.Errorf("special needs not refreshed on rejoin")
	}
	if p.CheckedIn || p.CheckInTime != nil {
		t.Errorf("check-in state must be reset on rejoin")
	}
}

func TestJoinRejectedRowBlocksRejoin(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	store.rows[rowKey("e1", "u1")] = &models.EventParticipant{
		EventID: "e1",
		UserID:  "u1",
		Status:  models.ParticipationRejected,
	}
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestJoinLastSpotUnderContention(t *testing.T) {
	store := newFakeStore(openEvent("e1", 1))
	svc := newTestService(store)

	const contenders = 8
	errs := make(chan error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		userID := string(rune('a' + i))
		go func() {
			defer wg.Done()
			_, err := svc.Join("e1", userID, JoinRequest{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var admitted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if admitted != 1 || rejected != contenders-1 {
		t.Fatalf("admitted = %d, rejected = %d, want exactly one admission", admitted, rejected)
	}
}

func TestLeaveCancelsRow(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := svc.Leave("e1", "u1"); err != nil {
		t.Fatalf("Leave: %v", err)
	}

	row := store.row("e1", "u1")
	if row == nil {
		t.Fatal("row was deleted, want it kept with cancelled status")
	}
	if row.Status != models.ParticipationCancelled {
		t.Errorf("status = %q, want cancelled", row.Status)
	}
}

func TestLeaveWithoutRegistration(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if err := svc.Leave("e1", "u1"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("err = %v, want ErrNotRegistered", err)
	}
}

func TestLeaveTwice(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := svc.Leave("e1", "u1"); err != nil {
		t.Fatalf("first Leave: %v", err)
	}
	if err := svc.Leave("e1", "u1"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("second Leave err = %v, want ErrNotRegistered", err)
	}
}

func TestLeaveFreesSpot(t *testing.T) {
	store := newFakeStore(openEvent("e1", 1))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join u1: %v", err)
	}
	if err := svc.Leave("e1", "u1"); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, err := svc.Join("e1", "u2", JoinRequest{}); err != nil {
		t.Fatalf("Join u2 after spot freed: %v", err)
	}
}

func TestCheckIn(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}

	p, err := svc.CheckIn("e1", "u1")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if !p.CheckedIn {
		t.Error("CheckedIn = false after check-in")
	}
	if p.CheckInTime == nil || !p.CheckInTime.Equal(testClock) {
		t.Errorf("CheckInTime = %v, want %v", p.CheckInTime, testClock)
	}
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	event := openEvent("e1", 10)
	event.RequiresApproval = true
	store := newFakeStore(event)
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := svc.CheckIn("e1", "u1"); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("err = %v, want ErrNotConfirmed", err)
	}
}

func TestCheckInTwice(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.Join("e1", "u1", JoinRequest{}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := svc.CheckIn("e1", "u1"); err != nil {
		t.Fatalf("first CheckIn: %v", err)
	}
	if _, err := svc.CheckIn("e1", "u1"); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("second CheckIn err = %v, want ErrAlreadyCheckedIn", err)
	}
}

func TestCheckInWithoutRegistration(t *testing.T) {
	store := newFakeStore(openEvent("e1", 10))
	svc := newTestService(store)

	if _, err := svc.CheckIn("e1", "u1"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("err = %v, want ErrNotRegistered", err)
	}
}
