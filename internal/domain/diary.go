package domain

import (
	"context"
	"time"
)

// Diary is a single journal entry. Title, mood, and weather are optional and
// nil when the author left them out; DiaryDate carries only the calendar
// date (the time component is always midnight).
type Diary struct {
	ID        int64
	UserID    int64
	Title     *string
	Content   string
	Mood      *string
	Weather   *string
	DiaryDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiaryPage is one slice of a user's entries plus totals. Pages are
// 0-indexed; TotalPages is ceil(TotalElements/Size).
type DiaryPage struct {
	Items         []Diary
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// DiaryRepository defines persistence operations for diary entries.
// List, Search, and ListAllByUser all return entries ordered by diary date
// descending, ties broken by creation time descending.
type DiaryRepository interface {
	Create(ctx context.Context, diary *Diary) error
	GetByID(ctx context.Context, id int64) (*Diary, error)
	Update(ctx context.Context, diary *Diary) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]Diary, int64, error)
	SearchByUser(ctx context.Context, userID int64, keyword string, offset, limit int) ([]Diary, int64, error)
	ListAllByUser(ctx context.Context, userID int64) ([]Diary, error)
}
