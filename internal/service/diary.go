package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/daybookhq/daybook/internal/domain"
)

// DiaryInput carries the caller-supplied fields for creating or updating an
// entry. A nil DiaryDate means the caller did not supply one: on create the
// entry gets today's date, on update the stored date is kept.
type DiaryInput struct {
	Title     *string
	Content   string
	Mood      *string
	Weather   *string
	DiaryDate *time.Time
}

// DiaryService orchestrates diary CRUD, search, and export. Every operation
// is scoped to the owning user id resolved at the HTTP boundary.
type DiaryService struct {
	diaries domain.DiaryRepository
}

// NewDiaryService creates a new DiaryService.
func NewDiaryService(diaries domain.DiaryRepository) *DiaryService {
	return &DiaryService{diaries: diaries}
}

// Create validates the input and stores a new entry owned by userID. The
// diary date defaults to today's local calendar date when omitted.
func (s *DiaryService) Create(ctx context.Context, userID int64, in DiaryInput) (*domain.Diary, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	diary := &domain.Diary{
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Mood:    in.Mood,
		Weather: in.Weather,
	}
	if in.DiaryDate != nil {
		diary.DiaryDate = *in.DiaryDate
	} else {
		diary.DiaryDate = today()
	}

	if err := s.diaries.Create(ctx, diary); err != nil {
		return nil, fmt.Errorf("create diary: %w", err)
	}
	return diary, nil
}

// Update overwrites title, content, mood, and weather of an owned entry.
// The diary date changes only when the input supplies one.
func (s *DiaryService) Update(ctx context.Context, userID, id int64, in DiaryInput) (*domain.Diary, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	diary, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	diary.Title = in.Title
	diary.Content = in.Content
	diary.Mood = in.Mood
	diary.Weather = in.Weather
	if in.DiaryDate != nil {
		diary.DiaryDate = *in.DiaryDate
	}

	if err := s.diaries.Update(ctx, diary); err != nil {
		return nil, fmt.Errorf("update diary: %w", err)
	}
	return diary, nil
}

// Delete hard-deletes an owned entry.
func (s *DiaryService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.diaries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete diary: %w", err)
	}
	return nil
}

// GetByID returns an owned entry.
func (s *DiaryService) GetByID(ctx context.Context, userID, id int64) (*domain.Diary, error) {
	return s.getOwned(ctx, userID, id)
}

// List returns one page of the user's entries, newest diary date first.
func (s *DiaryService) List(ctx context.Context, userID int64, page, size int) (*domain.DiaryPage, error) {
	if err := validatePaging(page, size); err != nil {
		return nil, err
	}

	items, total, err := s.diaries.ListByUser(ctx, userID, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("list diaries: %w", err)
	}
	return newPage(items, page, size, total), nil
}

// Search returns one page of the user's entries whose title or content
// contains keyword. An empty keyword matches everything.
func (s *DiaryService) Search(ctx context.Context, userID int64, keyword string, page, size int) (*domain.DiaryPage, error) {
	if err := validatePaging(page, size); err != nil {
		return nil, err
	}

	items, total, err := s.diaries.SearchByUser(ctx, userID, keyword, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("search diaries: %w", err)
	}
	return newPage(items, page, size, total), nil
}

// ExportAll returns every entry the user owns, in the same order List uses,
// for a full-history download.
func (s *DiaryService) ExportAll(ctx context.Context, userID int64) ([]domain.Diary, error) {
	diaries, err := s.diaries.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export diaries: %w", err)
	}
	return diaries, nil
}

func (s *DiaryService) getOwned(ctx context.Context, userID, id int64) (*domain.Diary, error) {
	diary, err := s.diaries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if diary.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return diary, nil
}

func validateInput(in DiaryInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if in.Title != nil && utf8.RuneCountInString(*in.Title) > 200 {
		return fmt.Errorf("%w: title must not exceed 200 characters", domain.ErrInvalidInput)
	}
	if in.Mood != nil && utf8.RuneCountInString(*in.Mood) > 50 {
		return fmt.Errorf("%w: mood must not exceed 50 characters", domain.ErrInvalidInput)
	}
	if in.Weather != nil && utf8.RuneCountInString(*in.Weather) > 50 {
		return fmt.Errorf("%w: weather must not exceed 50 characters", domain.ErrInvalidInput)
	}
	return nil
}

func validatePaging(page, size int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative", domain.ErrInvalidInput)
	}
	if size < 1 {
		return fmt.Errorf("%w: size must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}

func newPage(items []domain.Diary, page, size int, total int64) *domain.DiaryPage {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &domain.DiaryPage{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// today returns the current local calendar date with a zeroed time
// component.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
