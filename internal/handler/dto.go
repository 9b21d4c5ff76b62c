package handler

import (
	"fmt"
	"time"

	"github.com/daybookhq/daybook/internal/domain"
	"github.com/daybookhq/daybook/internal/service"
)

const dateLayout = "2006-01-02"

// DiaryRequest is the JSON body for creating or updating an entry. Optional
// fields are pointers so an omitted field is distinguishable from an empty
// one; diaryDate in particular is only applied when present.
type DiaryRequest struct {
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Mood      *string `json:"mood"`
	Weather   *string `json:"weather"`
	DiaryDate *string `json:"diaryDate"`
}

// toInput converts the request into service input, parsing the diary date.
func (req DiaryRequest) toInput() (service.DiaryInput, error) {
	in := service.DiaryInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Weather: req.Weather,
	}
	if req.DiaryDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DiaryDate)
		if err != nil {
			return in, fmt.Errorf("%w: diaryDate must be a valid date in YYYY-MM-DD format", domain.ErrInvalidInput)
		}
		in.DiaryDate = &parsed
	}
	return in, nil
}

// DiaryDTO is the JSON representation of a diary entry.
type DiaryDTO struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Mood      *string `json:"mood"`
	Weather   *string `json:"weather"`
	DiaryDate string  `json:"diaryDate"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toDiaryDTO(d *domain.Diary) DiaryDTO {
	return DiaryDTO{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Mood:      d.Mood,
		Weather:   d.Weather,
		DiaryDate: d.DiaryDate.Format(dateLayout),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func toDiaryDTOs(diaries []domain.Diary) []DiaryDTO {
	dtos := make([]DiaryDTO, len(diaries))
	for i := range diaries {
		dtos[i] = toDiaryDTO(&diaries[i])
	}
	return dtos
}

// PageDTO is the JSON envelope for one page of entries.
type PageDTO struct {
	Content       []DiaryDTO `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

func toPageDTO(p *domain.DiaryPage) PageDTO {
	return PageDTO{
		Content:       toDiaryDTOs(p.Items),
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// LoginResponse is the JSON body returned on a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}
