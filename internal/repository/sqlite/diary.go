package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daybookhq/daybook/internal/domain"
)

// dateLayout is how diary dates are stored. ISO dates sort correctly as
// text, which the (diary_date, created_at) ordering relies on.
const dateLayout = "2006-01-02"

// orderByDiaryDate is the ordering every listing query shares: newest diary
// date first, ties broken by newest creation time.
const orderByDiaryDate = "ORDER BY diary_date DESC, created_at DESC"

// diaryRepo implements domain.DiaryRepository using SQLite.
type diaryRepo struct {
	db *sql.DB
}

func (r *diaryRepo) Create(ctx context.Context, diary *domain.Diary) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO diaries (user_id, title, content, mood, weather, diary_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		diary.UserID, diary.Title, diary.Content, diary.Mood, diary.Weather,
		diary.DiaryDate.Format(dateLayout), now, now,
	)
	if err != nil {
		if isConstraintError(err) {
			return domain.ErrConstraint
		}
		return fmt.Errorf("insert diary: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	diary.ID = id
	diary.CreatedAt = now
	diary.UpdatedAt = now
	return nil
}

func (r *diaryRepo) GetByID(ctx context.Context, id int64) (*domain.Diary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, mood, weather, diary_date, created_at, updated_at
		 FROM diaries WHERE id = ?`, id)

	diary, err := scanDiary(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query diary by id: %w", err)
	}
	return diary, nil
}

// Update overwrites the mutable fields of an existing entry and bumps
// updated_at. The owner and created_at never change.
func (r *diaryRepo) Update(ctx context.Context, diary *domain.Diary) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE diaries SET title = ?, content = ?, mood = ?, weather = ?, diary_date = ?, updated_at = ?
		 WHERE id = ?`,
		diary.Title, diary.Content, diary.Mood, diary.Weather,
		diary.DiaryDate.Format(dateLayout), now, diary.ID,
	)
	if err != nil {
		if isConstraintError(err) {
			return domain.ErrConstraint
		}
		return fmt.Errorf("update diary: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	diary.UpdatedAt = now
	return nil
}

func (r *diaryRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM diaries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *diaryRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Diary, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM diaries WHERE user_id = ?", userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count diaries: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, mood, weather, diary_date, created_at, updated_at
		 FROM diaries WHERE user_id = ? `+orderByDiaryDate+` LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list diaries: %w", err)
	}
	defer rows.Close()

	diaries, err := collectDiaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

func (r *diaryRepo) SearchByUser(ctx context.Context, userID int64, keyword string, offset, limit int) ([]domain.Diary, int64, error) {
	pattern := "%" + keyword + "%"

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM diaries
		 WHERE user_id = ? AND (title LIKE ? OR content LIKE ?)`,
		userID, pattern, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, mood, weather, diary_date, created_at, updated_at
		 FROM diaries
		 WHERE user_id = ? AND (title LIKE ? OR content LIKE ?) `+orderByDiaryDate+` LIMIT ? OFFSET ?`,
		userID, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search diaries: %w", err)
	}
	defer rows.Close()

	diaries, err := collectDiaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return diaries, total, nil
}

func (r *diaryRepo) ListAllByUser(ctx context.Context, userID int64) ([]domain.Diary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, mood, weather, diary_date, created_at, updated_at
		 FROM diaries WHERE user_id = ? `+orderByDiaryDate,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list all diaries: %w", err)
	}
	defer rows.Close()

	return collectDiaries(rows)
}

func scanDiary(scan func(dest ...any) error) (*domain.Diary, error) {
	d := &domain.Diary{}
	var diaryDate string
	if err := scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.Mood, &d.Weather,
		&diaryDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(dateLayout, diaryDate)
	if err != nil {
		return nil, fmt.Errorf("parse diary date %q: %w", diaryDate, err)
	}
	d.DiaryDate = parsed
	return d, nil
}

func collectDiaries(rows *sql.Rows) ([]domain.Diary, error) {
	var diaries []domain.Diary
	for rows.Next() {
		d, err := scanDiary(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan diary: %w", err)
		}
		diaries = append(diaries, *d)
	}
	return diaries, rows.Err()
}
