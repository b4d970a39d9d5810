package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

// MeetingsRepository хранит встречи и связь участия (meeting_users).
type MeetingsRepository struct {
	db *sql.DB
}

// NewMeetingsRepository создаёт новый экземпляр MeetingsRepository.
func NewMeetingsRepository(db *sql.DB) *MeetingsRepository {
	return &MeetingsRepository{db: db}
}

const meetingColumns = `id, title, description, time, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(s rowScanner) (models.Meeting, error) {
	var m models.Meeting
	err := s.Scan(&m.ID, &m.Title, &m.Description, &m.Time, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// Create сохраняет новую встречу (без участников).
func (r *MeetingsRepository) Create(ctx context.Context, title, description string, at time.Time) (models.Meeting, error) {
	m, err := scanMeeting(conn(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO meetings (title, description, time)
		 VALUES ($1, $2, $3)
		 RETURNING `+meetingColumns,
		title, description, at,
	))
	if err != nil {
		return models.Meeting{}, storageErr(err)
	}
	return m, nil
}

// List возвращает все встречи по времени проведения.
func (r *MeetingsRepository) List(ctx context.Context) ([]models.Meeting, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+meetingColumns+` FROM meetings ORDER BY time, id`)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	out := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, storageErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// GetByID возвращает встречу или ErrNotFound.
func (r *MeetingsRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Meeting, error) {
	m, err := scanMeeting(conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meeting{}, serr.ErrNotFound
		}
		return models.Meeting{}, storageErr(err)
	}
	return m, nil
}

// Update заменяет title/description/time целиком.
func (r *MeetingsRepository) Update(ctx context.Context, id uuid.UUID, title, description string, at time.Time) (models.Meeting, error) {
	m, err := scanMeeting(conn(ctx, r.db).QueryRowContext(ctx,
		`UPDATE meetings
		    SET title = $2, description = $3, time = $4, updated_at = now()
		  WHERE id = $1
		 RETURNING `+meetingColumns,
		id, title, description, at,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meeting{}, serr.ErrNotFound
		}
		return models.Meeting{}, storageErr(err)
	}
	return m, nil
}

// Delete удаляет запись встречи.
//
// Внутри транзакции удаление выполняется под savepoint: при ошибке
// транзакция остаётся рабочей, и участников можно вернуть обратно.
func (r *MeetingsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withSavepoint(ctx, r.db, "meeting_delete", func(q querier) error {
		res, err := q.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
		if err != nil {
			return storageErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr(err)
		}
		if n == 0 {
			return serr.ErrNotFound
		}
		return nil
	})
}

// IsAttendee проверяет, записан ли пользователь на встречу.
func (r *MeetingsRepository) IsAttendee(ctx context.Context, meetingID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM meeting_users WHERE meeting_id = $1 AND user_id = $2
		)`,
		meetingID, userID,
	).Scan(&exists)
	if err != nil {
		return false, storageErr(err)
	}
	return exists, nil
}

// ListAttendees возвращает участников встречи в порядке записи.
func (r *MeetingsRepository) ListAttendees(ctx context.Context, meetingID uuid.UUID) ([]models.User, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.created_at
		   FROM meeting_users mu
		   JOIN users u ON u.id = mu.user_id
		  WHERE mu.meeting_id = $1
		  ORDER BY mu.created_at, u.id`,
		meetingID,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, storageErr(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// Attach записывает пользователя на встречу.
//
// Повторная запись — ErrAlreadyRegistered (первичный ключ meeting_users),
// отсутствующая встреча или пользователь — ErrNotFound.
func (r *MeetingsRepository) Attach(ctx context.Context, meetingID, userID uuid.UUID) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO meeting_users (meeting_id, user_id) VALUES ($1, $2)`,
		meetingID, userID,
	)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return serr.ErrAlreadyRegistered
		case pgForeignKeyViolation:
			return serr.ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}

// Detach удаляет ровно одну связь участия. Если её не было — ErrNotRegistered.
func (r *MeetingsRepository) Detach(ctx context.Context, meetingID, userID uuid.UUID) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM meeting_users WHERE meeting_id = $1 AND user_id = $2`,
		meetingID, userID,
	)
	if err != nil {
		return storageErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return serr.ErrNotRegistered
	}
	return nil
}

// DetachAll удаляет всех участников встречи и возвращает ровно удалённые связи,
// включая записавшихся после последнего чтения списка участников.
func (r *MeetingsRepository) DetachAll(ctx context.Context, meetingID uuid.UUID) ([]models.Attendance, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`DELETE FROM meeting_users WHERE meeting_id = $1
		 RETURNING user_id, created_at`,
		meetingID,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	out := []models.Attendance{}
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.UserID, &a.RegisteredAt); err != nil {
			return nil, storageErr(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// Restore возвращает связи, снятые DetachAll, с исходным временем записи,
// чтобы порядок участников не изменился.
func (r *MeetingsRepository) Restore(ctx context.Context, meetingID uuid.UUID, list []models.Attendance) error {
	q := conn(ctx, r.db)
	for _, a := range list {
		_, err := q.ExecContext(ctx,
			`INSERT INTO meeting_users (meeting_id, user_id, created_at) VALUES ($1, $2, $3)`,
			meetingID, a.UserID, a.RegisteredAt,
		)
		if err != nil {
			return storageErr(err)
		}
	}
	return nil
}
