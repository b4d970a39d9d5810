// Package servicetest содержит хранилище в памяти для тестов сервисного
// и HTTP слоёв. Оно повторяет поведение PostgreSQL-репозиториев:
// те же доменные ошибки и откат изменений при ошибке в транзакции.
package servicetest

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

type txKey struct{}

type session struct {
	id         uuid.UUID
	userID     uuid.UUID
	hash       []byte
	expiresAt  time.Time
	revokedAt  *time.Time
	replacedBy *uuid.UUID
}

type attendance struct {
	userID uuid.UUID
	at     time.Time
	seq    int
}

type state struct {
	users    map[uuid.UUID]models.User
	sessions map[uuid.UUID]session
	meetings map[uuid.UUID]models.Meeting
	attend   map[uuid.UUID][]attendance
}

func (s state) clone() state {
	c := state{
		users:    make(map[uuid.UUID]models.User, len(s.users)),
		sessions: make(map[uuid.UUID]session, len(s.sessions)),
		meetings: make(map[uuid.UUID]models.Meeting, len(s.meetings)),
		attend:   make(map[uuid.UUID][]attendance, len(s.attend)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.meetings {
		c.meetings[k] = v
	}
	for k, v := range s.attend {
		c.attend[k] = append([]attendance(nil), v...)
	}
	return c
}

// Store реализует UsersRepo, SessionsRepo, MeetingsRepo и Transactor.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state
	seq  int

	// FailDelete, если задан, возвращается из удаления записи встречи.
	FailDelete error
}

// NewStore создаёт пустое хранилище.
func NewStore() *Store {
	return &Store{st: state{}.clone()}
}

// Users возвращает представление хранилища как репозитория пользователей.
func (s *Store) Users() *Users { return &Users{s} }

// Sessions возвращает представление хранилища как репозитория сессий.
func (s *Store) Sessions() *Sessions { return &Sessions{s} }

// Meetings возвращает представление хранилища как репозитория встреч.
func (s *Store) Meetings() *Meetings { return &Meetings{s} }

// WithinTx выполняет fn атомарно: при ошибке или panic состояние откатывается.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}

// AttendeeCount — число участников встречи.
func (s *Store) AttendeeCount(meetingID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.attend[meetingID])
}

// MeetingExists сообщает, есть ли запись встречи.
func (s *Store) MeetingExists(meetingID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.st.meetings[meetingID]
	return ok
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

// Users — пользователи.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return uuid.Nil, serr.ErrAlreadyExists
		}
	}
	u := models.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	r.s.st.users[u.ID] = u
	return u.ID, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (uuid.UUID, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return u.ID, u.PasswordHash, nil
		}
	}
	return uuid.Nil, "", serr.ErrNotFound
}

func (r *Users) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return models.User{}, serr.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

// Delete удаляет пользователя вместе с сессиями и участием во встречах.
func (r *Users) Delete(id uuid.UUID) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.users, id)
	for mid, list := range r.s.st.attend {
		r.s.st.attend[mid] = removeAttendee(list, id)
	}
}

// Sessions — refresh-сессии.
type Sessions struct{ s *Store }

func (r *Sessions) Create(_ context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ss := range r.s.st.sessions {
		if bytes.Equal(ss.hash, refreshHash) {
			return uuid.Nil, serr.ErrAlreadyExists
		}
	}
	ss := session{id: uuid.New(), userID: userID, hash: refreshHash, expiresAt: expiresAt}
	r.s.st.sessions[ss.id] = ss
	return ss.id, nil
}

func (r *Sessions) GetByRefreshHash(_ context.Context, refreshHash []byte) (uuid.UUID, uuid.UUID, time.Time, *time.Time, *uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ss := range r.s.st.sessions {
		if bytes.Equal(ss.hash, refreshHash) {
			return ss.id, ss.userID, ss.expiresAt, ss.revokedAt, ss.replacedBy, nil
		}
	}
	return uuid.Nil, uuid.Nil, time.Time{}, nil, nil, serr.ErrInvalidCredentials
}

func (r *Sessions) RevokeAndReplace(_ context.Context, oldID, newID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ss, ok := r.s.st.sessions[oldID]
	if !ok || ss.revokedAt != nil {
		return nil
	}
	now := time.Now()
	ss.revokedAt, ss.replacedBy = &now, &newID
	r.s.st.sessions[oldID] = ss
	return nil
}

func (r *Sessions) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for id, ss := range r.s.st.sessions {
		if ss.userID == userID && ss.revokedAt == nil {
			ss.revokedAt = &now
			r.s.st.sessions[id] = ss
		}
	}
	return nil
}

// Meetings — встречи и участие.
type Meetings struct{ s *Store }

func (r *Meetings) Create(_ context.Context, title, description string, at time.Time) (models.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	m := models.Meeting{ID: uuid.New(), Title: title, Description: description, Time: at, CreatedAt: now, UpdatedAt: now}
	r.s.st.meetings[m.ID] = m
	return m, nil
}

func (r *Meetings) List(_ context.Context) ([]models.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Meeting, 0, len(r.s.st.meetings))
	for _, m := range r.s.st.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time.Equal(out[j].Time) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

func (r *Meetings) GetByID(_ context.Context, id uuid.UUID) (models.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.meetings[id]
	if !ok {
		return models.Meeting{}, serr.ErrNotFound
	}
	return m, nil
}

func (r *Meetings) Update(_ context.Context, id uuid.UUID, title, description string, at time.Time) (models.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.st.meetings[id]
	if !ok {
		return models.Meeting{}, serr.ErrNotFound
	}
	m.Title, m.Description, m.Time, m.UpdatedAt = title, description, at, time.Now().UTC()
	r.s.st.meetings[id] = m
	return m, nil
}

func (r *Meetings) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDelete != nil {
		return r.s.FailDelete
	}
	if _, ok := r.s.st.meetings[id]; !ok {
		return serr.ErrNotFound
	}
	// как внешний ключ meeting_users без каскада
	if len(r.s.st.attend[id]) > 0 {
		return fmt.Errorf("%w: meeting %s still has attendees", serr.ErrStorage, id)
	}
	delete(r.s.st.meetings, id)
	delete(r.s.st.attend, id)
	return nil
}

func (r *Meetings) IsAttendee(_ context.Context, meetingID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.attend[meetingID] {
		if a.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Meetings) ListAttendees(_ context.Context, meetingID uuid.UUID) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := append([]attendance(nil), r.s.st.attend[meetingID]...)
	// как ORDER BY created_at, затем порядок вставки
	sort.Slice(list, func(i, j int) bool {
		if !list[i].at.Equal(list[j].at) {
			return list[i].at.Before(list[j].at)
		}
		return list[i].seq < list[j].seq
	})
	out := make([]models.User, 0, len(list))
	for _, a := range list {
		u := r.s.st.users[a.userID]
		u.PasswordHash = ""
		out = append(out, u)
	}
	return out, nil
}

func (r *Meetings) Attach(_ context.Context, meetingID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.meetings[meetingID]; !ok {
		return serr.ErrNotFound
	}
	if _, ok := r.s.st.users[userID]; !ok {
		return serr.ErrNotFound
	}
	for _, a := range r.s.st.attend[meetingID] {
		if a.userID == userID {
			return serr.ErrAlreadyRegistered
		}
	}
	r.s.st.attend[meetingID] = append(r.s.st.attend[meetingID], attendance{userID: userID, at: time.Now().UTC(), seq: r.s.nextSeq()})
	return nil
}

func (r *Meetings) Detach(_ context.Context, meetingID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.st.attend[meetingID]
	rest := removeAttendee(list, userID)
	if len(rest) == len(list) {
		return serr.ErrNotRegistered
	}
	r.s.st.attend[meetingID] = rest
	return nil
}

func (r *Meetings) DetachAll(_ context.Context, meetingID uuid.UUID) ([]models.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.s.st.attend[meetingID]
	out := make([]models.Attendance, 0, len(list))
	for _, a := range list {
		out = append(out, models.Attendance{UserID: a.userID, RegisteredAt: a.at})
	}
	delete(r.s.st.attend, meetingID)
	return out, nil
}

func (r *Meetings) Restore(_ context.Context, meetingID uuid.UUID, list []models.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.meetings[meetingID]; !ok {
		return serr.ErrNotFound
	}
	for _, a := range list {
		for _, cur := range r.s.st.attend[meetingID] {
			if cur.userID == a.UserID {
				return fmt.Errorf("%w: duplicate attendance %s", serr.ErrStorage, a.UserID)
			}
		}
		r.s.st.attend[meetingID] = append(r.s.st.attend[meetingID], attendance{userID: a.UserID, at: a.RegisteredAt, seq: r.s.nextSeq()})
	}
	return nil
}

func removeAttendee(list []attendance, userID uuid.UUID) []attendance {
	out := make([]attendance, 0, len(list))
	for _, a := range list {
		if a.userID != userID {
			out = append(out, a)
		}
	}
	return out
}
