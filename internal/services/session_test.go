package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Amadorfl72/mentorhub/internal/mailer"
	"github.com/Amadorfl72/mentorhub/internal/store"
	"github.com/Amadorfl72/mentorhub/types"
	"go.uber.org/zap"
)

type sentEmail struct {
	To      []string
	Subject string
	HTML    string
}

type fakeProvider struct {
	sent   []sentEmail
	fail   bool
	reject string
}

func (p *fakeProvider) Send(_ context.Context, to []string, subject, html string) (string, error) {
	if p.fail {
		return "", errors.New("provider down")
	}
	for _, addr := range to {
		if p.reject != "" && addr == p.reject {
			return "", errors.New("recipient rejected")
		}
	}
	p.sent = append(p.sent, sentEmail{To: to, Subject: subject, HTML: html})
	return fmt.Sprintf("msg_%d", len(p.sent)), nil
}

type fakeUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(user types.User) types.User {
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	users := make([]types.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[int]types.Session
	enrolled map[int][]int
	users    *fakeUserRepo
	nextID   int
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: map[int]types.Session{},
		enrolled: map[int][]int{},
		users:    users,
		nextID:   1,
	}
}

func (r *fakeSessionRepo) List(_ context.Context, mentorID, menteeID int) ([]types.Session, error) {
	var sessions []types.Session
	for id, s := range r.sessions {
		if mentorID != 0 && s.MentorID != mentorID {
			continue
		}
		if menteeID != 0 && !contains(r.enrolled[id], menteeID) {
			continue
		}
		s.Mentees = append([]int{}, r.enrolled[id]...)
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

func (r *fakeSessionRepo) Get(_ context.Context, id int) (types.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return types.Session{}, store.ErrNotFound
	}
	s.Mentees = append([]int{}, r.enrolled[id]...)
	return s, nil
}

func (r *fakeSessionRepo) Create(_ context.Context, s types.Session) (types.Session, error) {
	s.ID = r.nextID
	r.nextID++
	r.sessions[s.ID] = s
	s.Mentees = []int{}
	return s, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s types.Session) (types.Session, error) {
	if _, ok := r.sessions[s.ID]; !ok {
		return types.Session{}, store.ErrNotFound
	}
	r.sessions[s.ID] = s
	return s, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.sessions, id)
	delete(r.enrolled, id)
	return nil
}

func (r *fakeSessionRepo) Enroll(_ context.Context, sessionID, menteeID int) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	if contains(r.enrolled[sessionID], menteeID) {
		return store.ErrAlreadyEnrolled
	}
	if len(r.enrolled[sessionID]) >= s.MaxAttendees {
		return store.ErrSessionFull
	}
	r.enrolled[sessionID] = append(r.enrolled[sessionID], menteeID)
	return nil
}

func (r *fakeSessionRepo) Unenroll(_ context.Context, sessionID, menteeID int) error {
	if _, ok := r.sessions[sessionID]; !ok {
		return store.ErrNotFound
	}
	ids := r.enrolled[sessionID]
	for i, id := range ids {
		if id == menteeID {
			r.enrolled[sessionID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return store.ErrNotEnrolled
}

func (r *fakeSessionRepo) ListEnrolled(_ context.Context, sessionID int) ([]types.User, error) {
	var mentees []types.User
	for _, id := range r.enrolled[sessionID] {
		if user, ok := r.users.users[id]; ok {
			mentees = append(mentees, user)
		}
	}
	return mentees, nil
}

func contains(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func newTestSessionService() (*SessionService, *fakeSessionRepo, *fakeUserRepo, *fakeProvider) {
	users := newFakeUserRepo()
	repo := newFakeSessionRepo(users)
	provider := &fakeProvider{}
	svc := NewSessionService(repo, users, mailer.New(provider), zap.NewNop(), "http://localhost:3000")
	return svc, repo, users, provider
}

func validSession(mentorID int) types.Session {
	return types.Session{
		Title:         "Intro to Go",
		Description:   "Slices, maps, goroutines.",
		MentorID:      mentorID,
		ScheduledTime: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		MaxAttendees:  5,
	}
}

func TestCreateSessionValidation(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})

	cases := map[string]func(*types.Session){
		"missing title":          func(s *types.Session) { s.Title = "" },
		"missing description":    func(s *types.Session) { s.Description = "" },
		"missing mentor":         func(s *types.Session) { s.MentorID = 0 },
		"missing scheduled time": func(s *types.Session) { s.ScheduledTime = time.Time{} },
		"zero max attendees":     func(s *types.Session) { s.MaxAttendees = 0 },
		"negative max attendees": func(s *types.Session) { s.MaxAttendees = -3 },
	}
	for name, mutate := range cases {
		session := validSession(mentor.ID)
		mutate(&session)
		if _, err := svc.Create(context.Background(), session, false); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: got %v, want ErrValidation", name, err)
		}
	}
}

func TestCreateSessionNotifiesEveryoneExceptCreator(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})
	users.add(types.User{Username: "carol", Email: "carol@example.com", EmailNotifications: false})
	users.add(types.User{Username: "dave", Email: "dave@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected created session to have an id")
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected one provider call, got %d", len(provider.sent))
	}
	sent := provider.sent[0]
	if sent.Subject != "New Session In MentorHub!" {
		t.Errorf("unexpected subject: %q", sent.Subject)
	}
	want := []string{"bob@example.com", "dave@example.com"}
	if len(sent.To) != len(want) {
		t.Fatalf("unexpected recipients: %v", sent.To)
	}
	for i, email := range want {
		if sent.To[i] != email {
			t.Errorf("recipient %d = %q, want %q", i, sent.To[i], email)
		}
	}
}

func TestCreateSessionWithoutNotification(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	if _, err := svc.Create(context.Background(), validSession(mentor.ID), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("expected no provider calls, got %d", len(provider.sent))
	}
}

func TestCreateSessionSucceedsWhenProviderFails(t *testing.T) {
	svc, repo, users, provider := newTestSessionService()
	provider.fail = true
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), true)
	if err != nil {
		t.Fatalf("Create should not surface delivery failures: %v", err)
	}
	if _, ok := repo.sessions[created.ID]; !ok {
		t.Fatal("session was not persisted")
	}
}

func TestEnrollHappyPath(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true, Language: "en"})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, message, err := svc.Enroll(context.Background(), created.ID, mentee.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if message != "Mentee bob enrolled in session Intro to Go" {
		t.Errorf("unexpected message: %q", message)
	}
	if len(updated.Mentees) != 1 || updated.Mentees[0] != mentee.ID {
		t.Errorf("unexpected mentee set: %v", updated.Mentees)
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected one confirmation email, got %d", len(provider.sent))
	}
	if !strings.HasPrefix(provider.sent[0].Subject, "Enrolment confirmed: ") {
		t.Errorf("unexpected confirmation subject: %q", provider.sent[0].Subject)
	}
}

func TestEnrollCapacityBound(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	first := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})
	second := users.add(types.User{Username: "carol", Email: "carol@example.com", EmailNotifications: true})

	session := validSession(mentor.ID)
	session.MaxAttendees = 1
	created, err := svc.Create(context.Background(), session, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.Enroll(context.Background(), created.ID, first.ID); err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, second.ID); !errors.Is(err, store.ErrSessionFull) {
		t.Fatalf("second Enroll: got %v, want ErrSessionFull", err)
	}

	final, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(final.Mentees) != 1 {
		t.Fatalf("capacity exceeded: %v", final.Mentees)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); !errors.Is(err, store.ErrAlreadyEnrolled) {
		t.Fatalf("second Enroll: got %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnrollMissingSession(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	if _, _, err := svc.Enroll(context.Background(), 99, mentee.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestEnrollMissingMentee(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.Enroll(context.Background(), created.ID, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestEnrollSucceedsWhenProviderFails(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	provider.fail = true
	updated, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID)
	if err != nil {
		t.Fatalf("Enroll should not surface delivery failures: %v", err)
	}
	if len(updated.Mentees) != 1 {
		t.Fatalf("enrollment state lost: %v", updated.Mentees)
	}
}

func TestUnenroll(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	sendsAfterEnroll := len(provider.sent)

	updated, message, err := svc.Unenroll(context.Background(), created.ID, mentee.ID)
	if err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if message != "Mentee bob unenrolled from session Intro to Go" {
		t.Errorf("unexpected message: %q", message)
	}
	if len(updated.Mentees) != 0 {
		t.Errorf("mentee still enrolled: %v", updated.Mentees)
	}
	if len(provider.sent) != sendsAfterEnroll {
		t.Errorf("unenroll must not send email, got %d extra", len(provider.sent)-sendsAfterEnroll)
	}

	if _, _, err := svc.Unenroll(context.Background(), created.ID, mentee.ID); !errors.Is(err, store.ErrNotEnrolled) {
		t.Fatalf("second Unenroll: got %v, want ErrNotEnrolled", err)
	}
}

func TestUpdateNotifiesEnrolledMenteesInTheirLanguage(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true, Language: "es"})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	provider.sent = nil

	newTitle := "Advanced Go"
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected one update notice, got %d", len(provider.sent))
	}
	sent := provider.sent[0]
	if len(sent.To) != 1 || sent.To[0] != "bob@example.com" {
		t.Errorf("unexpected recipients: %v", sent.To)
	}
	if !strings.Contains(sent.Subject, "ACTUALIZACIÓN") {
		t.Errorf("Spanish mentee should get Spanish subject, got %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "Advanced Go") {
		t.Errorf("update notice missing new title")
	}
}

func TestUpdateDeliversPastRejectedRecipient(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	first := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})
	second := users.add(types.User{Username: "carol", Email: "carol@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, first.ID); err != nil {
		t.Fatalf("Enroll first: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, second.ID); err != nil {
		t.Fatalf("Enroll second: %v", err)
	}
	provider.sent = nil
	provider.reject = "bob@example.com"

	newTitle := "Advanced Go"
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update should not surface delivery failures: %v", err)
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected delivery to the remaining mentee, got %d sends", len(provider.sent))
	}
	if got := provider.sent[0].To; len(got) != 1 || got[0] != "carol@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}
}

func TestDeleteDeliversPastRejectedRecipient(t *testing.T) {
	svc, repo, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	first := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})
	second := users.add(types.User{Username: "carol", Email: "carol@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, first.ID); err != nil {
		t.Fatalf("Enroll first: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, second.ID); err != nil {
		t.Fatalf("Enroll second: %v", err)
	}
	provider.sent = nil
	provider.reject = "bob@example.com"

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete should not surface delivery failures: %v", err)
	}
	if _, ok := repo.sessions[created.ID]; ok {
		t.Fatal("session not deleted")
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected delivery to the remaining mentee, got %d sends", len(provider.sent))
	}
	if got := provider.sent[0].To; len(got) != 1 || got[0] != "carol@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}
}

func TestUpdateWithoutChangesSendsNothing(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	provider.sent = nil

	sameTitle := created.Title
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &sameTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("no-op update must not notify, got %d sends", len(provider.sent))
	}
}

func TestUpdateWithoutMenteesSendsNothing(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "Advanced Go"
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("update with no enrollment must not notify, got %d sends", len(provider.sent))
	}
}

func TestUpdateKeywordsOnlyIsNotTracked(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	provider.sent = nil

	keywords := "go,backend"
	updated, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Keywords: &keywords})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Keywords != keywords {
		t.Errorf("keywords not applied: %q", updated.Keywords)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("keyword-only update must not notify, got %d sends", len(provider.sent))
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, _, users, _ := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty title: got %v, want ErrValidation", err)
	}
	zero := 0
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{MaxAttendees: &zero}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero max_attendees: got %v, want ErrValidation", err)
	}
}

func TestDeleteNotifiesEnrolledMentees(t *testing.T) {
	svc, repo, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	mentee := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: true, Language: "fr"})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, mentee.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	provider.sent = nil

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.sessions[created.ID]; ok {
		t.Fatal("session not deleted")
	}

	if len(provider.sent) != 1 {
		t.Fatalf("expected one cancellation notice, got %d", len(provider.sent))
	}
	if !strings.HasPrefix(provider.sent[0].Subject, "ANNULÉE: ") {
		t.Errorf("French mentee should get French subject, got %q", provider.sent[0].Subject)
	}
}

func TestDeleteWithoutMenteesSendsNothing(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("delete with no enrollment must not notify, got %d sends", len(provider.sent))
	}
}

func TestNotificationsSkipOptedOutMentees(t *testing.T) {
	svc, _, users, provider := newTestSessionService()
	mentor := users.add(types.User{Username: "alice", Email: "alice@example.com", EmailNotifications: true})
	optedOut := users.add(types.User{Username: "bob", Email: "bob@example.com", EmailNotifications: false})

	created, err := svc.Create(context.Background(), validSession(mentor.ID), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.Enroll(context.Background(), created.ID, optedOut.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("opted-out mentee must not get confirmation, got %d sends", len(provider.sent))
	}

	newTitle := "Advanced Go"
	if _, err := svc.Update(context.Background(), created.ID, types.SessionUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(provider.sent) != 0 {
		t.Fatalf("opted-out mentee must not get update notice, got %d sends", len(provider.sent))
	}
}
