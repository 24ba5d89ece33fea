// Package memory is an in-process implementation of the repository
// interfaces. It backs local development without Postgres and the service and
// handler tests. Transactions are serialized with each other; a rollback
// reverts only the records written through the transaction's context.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"
)

type progressKey struct{ userID, milestoneID int64 }

type state struct {
	courses     map[int64]model.Course
	contents    map[int64]model.CourseContent
	posts       map[int64]model.BlogPost
	contacts    map[int64]model.ContactMessage
	users       map[int64]model.User
	enrollments map[int64]model.Enrollment
	milestones  map[int64]model.Milestone
	progress    map[progressKey]model.MilestoneProgress
	nextID      int64
}

func newState() state {
	return state{
		courses:     map[int64]model.Course{},
		contents:    map[int64]model.CourseContent{},
		posts:       map[int64]model.BlogPost{},
		contacts:    map[int64]model.ContactMessage{},
		users:       map[int64]model.User{},
		enrollments: map[int64]model.Enrollment{},
		milestones:  map[int64]model.Milestone{},
		progress:    map[progressKey]model.MilestoneProgress{},
	}
}

// Store holds every record in memory. The zero value is not usable; call New.
type Store struct {
	txMu sync.Mutex // serializes transactions
	mu   sync.Mutex // guards st
	st   state
	now  func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

var (
	_ repository.TxManager            = (*Store)(nil)
	_ repository.CourseRepository     = (*Store)(nil)
	_ repository.BlogRepository       = (*Store)(nil)
	_ repository.ContactRepository    = (*Store)(nil)
	_ repository.UserRepository       = (*Store)(nil)
	_ repository.EnrollmentRepository = (*Store)(nil)
	_ repository.MilestoneRepository  = (*Store)(nil)
)

type txKey struct{}

// txLog holds the undo steps of one transaction, newest last.
type txLog struct {
	undo []func()
}

// track records how to restore m[k] if the transaction in ctx rolls back.
// It must be called with s.mu held, before m[k] is written.
func track[K comparable, V any](ctx context.Context, m map[K]V, k K) {
	log, ok := ctx.Value(txKey{}).(*txLog)
	if !ok {
		return
	}
	old, existed := m[k]
	log.undo = append(log.undo, func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

func sortedByID[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// Courses

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.courses, nil), nil
}

func (s *Store) ListFeaturedCourses(ctx context.Context) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.courses, func(c model.Course) bool { return c.Featured }), nil
}

func (s *Store) GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.courses[courseID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) CreateCourse(ctx context.Context, c *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = s.now()
	track(ctx, s.st.courses, c.ID)
	s.st.courses[c.ID] = *c
	return nil
}

func (s *Store) ListCourseContent(ctx context.Context, courseID int64) ([]model.CourseContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := sortedByID(s.st.contents, func(cc model.CourseContent) bool { return cc.CourseID == courseID })
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

func (s *Store) CreateCourseContent(ctx context.Context, cc *model.CourseContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc.ID = s.id()
	track(ctx, s.st.contents, cc.ID)
	s.st.contents[cc.ID] = *cc
	return nil
}

// Blog and contact

func (s *Store) newestPosts() []model.BlogPost {
	posts := sortedByID(s.st.posts, nil)
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (s *Store) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newestPosts(), nil
}

func (s *Store) ListRecentPosts(ctx context.Context, limit int) ([]model.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := s.newestPosts()
	if limit >= 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *Store) GetPostByID(ctx context.Context, postID int64) (*model.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.posts[postID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) CreatePost(ctx context.Context, p *model.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	track(ctx, s.st.posts, p.ID)
	s.st.posts[p.ID] = *p
	return nil
}

func (s *Store) CreateContactMessage(ctx context.Context, m *model.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.CreatedAt = s.now()
	track(ctx, s.st.contacts, m.ID)
	s.st.contacts[m.ID] = *m
	return nil
}

// ContactMessages returns every stored contact message.
func (s *Store) ContactMessages() []model.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.contacts, nil)
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameExists
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrEmailExists
		}
	}
	u.ID = s.id()
	if u.Level == 0 {
		u.Level = 1
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
	u.CreatedAt = s.now()
	stored := *u
	stored.Badges = append([]string{}, u.Badges...)
	track(ctx, s.st.users, u.ID)
	s.st.users[u.ID] = stored
	return nil
}

func (s *Store) getUser(match func(model.User) bool) *model.User {
	for _, u := range s.st.users {
		if match(u) {
			u.Badges = append([]string{}, u.Badges...)
			return &u
		}
	}
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUser(func(u model.User) bool { return u.ID == id }), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUser(func(u model.User) bool { return u.Username == username }), nil
}

func (s *Store) GetUserForUpdate(ctx context.Context, id int64) (*model.User, error) {
	return s.GetUserByID(ctx, id)
}

func (s *Store) UpdateUserProgress(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.st.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.XP = u.XP
	stored.Level = u.Level
	stored.Badges = append([]string{}, u.Badges...)
	track(ctx, s.st.users, u.ID)
	s.st.users[u.ID] = stored
	return nil
}

// Enrollments

func (s *Store) CreateEnrollment(ctx context.Context, e *model.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return repository.ErrDuplicate
		}
	}
	e.ID = s.id()
	e.EnrolledAt = s.now()
	track(ctx, s.st.enrollments, e.ID)
	s.st.enrollments[e.ID] = *e
	return nil
}

func (s *Store) GetEnrollment(ctx context.Context, userID, courseID int64) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.st.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) GetEnrollmentByID(ctx context.Context, id int64) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.st.enrollments[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) ListEnrollmentsByUser(ctx context.Context, userID int64) ([]model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.st.enrollments, func(e model.Enrollment) bool { return e.UserID == userID }), nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, e *model.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.st.enrollments[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = e.Status
	stored.Progress = e.Progress
	stored.CompletedAt = e.CompletedAt
	track(ctx, s.st.enrollments, e.ID)
	s.st.enrollments[e.ID] = stored
	return nil
}

// EnrollmentCount returns the number of stored enrollments.
func (s *Store) EnrollmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.enrollments)
}

// Milestones

func (s *Store) ListMilestones(ctx context.Context, courseID int64) ([]model.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := sortedByID(s.st.milestones, func(m model.Milestone) bool { return m.CourseID == courseID })
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Position < ms[j].Position })
	return ms, nil
}

func (s *Store) GetMilestoneByID(ctx context.Context, id int64) (*model.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.st.milestones[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Store) CreateMilestone(ctx context.Context, m *model.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.st.milestones {
		if existing.CourseID == m.CourseID && existing.Position == m.Position {
			return repository.ErrDuplicate
		}
	}
	m.ID = s.id()
	track(ctx, s.st.milestones, m.ID)
	s.st.milestones[m.ID] = *m
	return nil
}

func (s *Store) EnsureProgress(ctx context.Context, userID, milestoneID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{userID, milestoneID}
	if _, ok := s.st.progress[key]; !ok {
		track(ctx, s.st.progress, key)
		s.st.progress[key] = model.MilestoneProgress{ID: s.id(), UserID: userID, MilestoneID: milestoneID}
	}
	return nil
}

func (s *Store) GetProgressForUpdate(ctx context.Context, userID, milestoneID int64) (*model.MilestoneProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.progress[progressKey{userID, milestoneID}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) UpdateProgress(ctx context.Context, p *model.MilestoneProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{p.UserID, p.MilestoneID}
	if _, ok := s.st.progress[key]; !ok {
		return repository.ErrNotFound
	}
	track(ctx, s.st.progress, key)
	s.st.progress[key] = *p
	return nil
}

func (s *Store) CompletedMilestoneIDs(ctx context.Context, userID, courseID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := sortedByID(s.st.milestones, func(m model.Milestone) bool { return m.CourseID == courseID })
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Position < ms[j].Position })
	ids := []int64{}
	for _, m := range ms {
		if p, ok := s.st.progress[progressKey{userID, m.ID}]; ok && p.Completed {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}
