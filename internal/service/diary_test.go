package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daybookhq/daybook/internal/domain"
	"github.com/daybookhq/daybook/internal/service"
)

func newTestDiaryService(t *testing.T) (*service.DiaryService, int64, int64) {
	t.Helper()
	db := newTestDB(t)
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, 24*time.Hour)
	ctx := context.Background()

	owner, err := auth.CreateUser(ctx, "owner", "password123")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	other, err := auth.CreateUser(ctx, "other", "password123")
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	return service.NewDiaryService(db.Diaries()), owner.ID, other.ID
}

func strPtr(s string) *string { return &s }

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return &parsed
}

func TestDiaryService_Create_DefaultsDateToToday(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	before := time.Now()
	diary, err := diaries.Create(ctx, owner, service.DiaryInput{Content: "hello"})
	after := time.Now()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := diary.DiaryDate.Format("2006-01-02")
	if got != before.Format("2006-01-02") && got != after.Format("2006-01-02") {
		t.Fatalf("expected diary date to default to today, got %s", got)
	}
	if diary.UserID != owner {
		t.Fatalf("expected owner %d, got %d", owner, diary.UserID)
	}
	if diary.ID == 0 {
		t.Fatal("expected diary ID to be set")
	}
	if diary.UpdatedAt.Before(diary.CreatedAt) {
		t.Fatal("updated-at must not precede created-at")
	}
}

func TestDiaryService_Create_UsesSuppliedDate(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)

	diary, err := diaries.Create(context.Background(), owner, service.DiaryInput{
		Content:   "hello",
		DiaryDate: datePtr(t, "2024-01-10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := diary.DiaryDate.Format("2006-01-02"); got != "2024-01-10" {
		t.Fatalf("expected diary date 2024-01-10, got %s", got)
	}
}

func TestDiaryService_Create_Validation(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input service.DiaryInput
		want  string
	}{
		{"missing content", service.DiaryInput{}, "content"},
		{"blank content", service.DiaryInput{Content: "   \n\t"}, "content"},
		{"title too long", service.DiaryInput{Content: "x", Title: strPtr(strings.Repeat("t", 201))}, "title"},
		{"mood too long", service.DiaryInput{Content: "x", Mood: strPtr(strings.Repeat("m", 51))}, "mood"},
		{"weather too long", service.DiaryInput{Content: "x", Weather: strPtr(strings.Repeat("w", 51))}, "weather"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := diaries.Create(ctx, owner, tc.input)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected message to name field %q, got %q", tc.want, err.Error())
			}
		})
	}
}

func TestDiaryService_Create_BoundaryLengthsAccepted(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)

	_, err := diaries.Create(context.Background(), owner, service.DiaryInput{
		Content: "x",
		Title:   strPtr(strings.Repeat("t", 200)),
		Mood:    strPtr(strings.Repeat("m", 50)),
		Weather: strPtr(strings.Repeat("w", 50)),
	})
	if err != nil {
		t.Fatalf("Create at max lengths: %v", err)
	}
}

func TestDiaryService_Update_OverwritesFields(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	created, err := diaries.Create(ctx, owner, service.DiaryInput{
		Content:   "original",
		Title:     strPtr("old title"),
		Mood:      strPtr("happy"),
		Weather:   strPtr("sunny"),
		DiaryDate: datePtr(t, "2024-01-10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := diaries.Update(ctx, owner, created.ID, service.DiaryInput{
		Content: "rewritten",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Content != "rewritten" {
		t.Fatalf("expected content rewritten, got %q", updated.Content)
	}
	// Title, mood, and weather are overwritten unconditionally.
	if updated.Title != nil || updated.Mood != nil || updated.Weather != nil {
		t.Fatal("expected omitted optional fields to be cleared")
	}
	// The diary date is kept when the update does not supply one.
	if got := updated.DiaryDate.Format("2006-01-02"); got != "2024-01-10" {
		t.Fatalf("expected diary date to be kept, got %s", got)
	}
	if updated.UserID != owner {
		t.Fatal("owner must not change on update")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatal("created-at must not change on update")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updated-at must be bumped")
	}
}

func TestDiaryService_Update_SuppliedDateOverwrites(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	created, err := diaries.Create(ctx, owner, service.DiaryInput{
		Content:   "entry",
		DiaryDate: datePtr(t, "2024-01-10"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := diaries.Update(ctx, owner, created.ID, service.DiaryInput{
		Content:   "entry",
		DiaryDate: datePtr(t, "2024-02-20"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := updated.DiaryDate.Format("2006-01-02"); got != "2024-02-20" {
		t.Fatalf("expected diary date 2024-02-20, got %s", got)
	}
}

func TestDiaryService_Update_NotFound(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)

	_, err := diaries.Update(context.Background(), owner, 9999, service.DiaryInput{Content: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiaryService_OwnershipEnforced(t *testing.T) {
	diaries, owner, other := newTestDiaryService(t)
	ctx := context.Background()

	created, err := diaries.Create(ctx, owner, service.DiaryInput{Content: "private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := diaries.GetByID(ctx, other, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("GetByID as non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := diaries.Update(ctx, other, created.ID, service.DiaryInput{Content: "hijack"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update as non-owner: expected ErrForbidden, got %v", err)
	}
	if err := diaries.Delete(ctx, other, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete as non-owner: expected ErrForbidden, got %v", err)
	}

	// The entry must be unchanged after the failed attempts.
	got, err := diaries.GetByID(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
	if got.Content != "private" {
		t.Fatalf("entry was mutated by a non-owner: %q", got.Content)
	}
}

func TestDiaryService_Delete_Hard(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	created, err := diaries.Create(ctx, owner, service.DiaryInput{Content: "ephemeral"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := diaries.Delete(ctx, owner, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := diaries.GetByID(ctx, owner, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := diaries.Delete(ctx, owner, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDiaryService_List_OrderingAndPagination(t *testing.T) {
	diaries, owner, other := newTestDiaryService(t)
	ctx := context.Background()

	dates := []string{"2024-03-01", "2024-01-15", "2024-02-10", "2024-01-15", "2024-03-20"}
	for i, d := range dates {
		_, err := diaries.Create(ctx, owner, service.DiaryInput{
			Content:   "entry " + d + " #" + string(rune('a'+i)),
			DiaryDate: datePtr(t, d),
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	// Another user's entry must never appear in the owner's pages.
	if _, err := diaries.Create(ctx, other, service.DiaryInput{Content: "not mine"}); err != nil {
		t.Fatalf("Create for other: %v", err)
	}

	page0, err := diaries.List(ctx, owner, 0, 2)
	if err != nil {
		t.Fatalf("List page 0: %v", err)
	}
	if page0.TotalElements != 5 {
		t.Fatalf("expected 5 total, got %d", page0.TotalElements)
	}
	if page0.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page0.TotalPages)
	}
	if len(page0.Items) != 2 {
		t.Fatalf("expected 2 items on page 0, got %d", len(page0.Items))
	}

	// Concatenate all pages and verify the full descending ordering.
	var all []string
	for p := 0; p < page0.TotalPages; p++ {
		page, err := diaries.List(ctx, owner, p, 2)
		if err != nil {
			t.Fatalf("List page %d: %v", p, err)
		}
		for _, item := range page.Items {
			all = append(all, item.DiaryDate.Format("2006-01-02"))
			if item.UserID != owner {
				t.Fatal("page contains an entry owned by another user")
			}
		}
	}
	want := []string{"2024-03-20", "2024-03-01", "2024-02-10", "2024-01-15", "2024-01-15"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries across pages, got %d", len(want), len(all))
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], all[i])
		}
	}
}

func TestDiaryService_List_TieBrokenByCreationTime(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	first, err := diaries.Create(ctx, owner, service.DiaryInput{
		Content:   "first written",
		DiaryDate: datePtr(t, "2024-05-01"),
	})
	if err != nil {
		t.Fatalf("Create first: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := diaries.Create(ctx, owner, service.DiaryInput{
		Content:   "second written",
		DiaryDate: datePtr(t, "2024-05-01"),
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	page, err := diaries.List(ctx, owner, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != second.ID || page.Items[1].ID != first.ID {
		t.Fatal("same-date entries must be ordered newest-created first")
	}
}

func TestDiaryService_List_InvalidPaging(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	if _, err := diaries.List(ctx, owner, -1, 10); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("negative page: expected ErrInvalidInput, got %v", err)
	}
	if _, err := diaries.List(ctx, owner, 0, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero size: expected ErrInvalidInput, got %v", err)
	}
}

func TestDiaryService_Search_FiltersTitleAndContent(t *testing.T) {
	diaries, owner, other := newTestDiaryService(t)
	ctx := context.Background()

	entries := []service.DiaryInput{
		{Content: "went hiking in the mountains", Title: strPtr("weekend trip")},
		{Content: "quiet day at home", Title: strPtr("mountain of laundry")},
		{Content: "nothing special"},
	}
	for i, in := range entries {
		if _, err := diaries.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := diaries.Create(ctx, other, service.DiaryInput{Content: "mountain view"}); err != nil {
		t.Fatalf("Create for other: %v", err)
	}

	page, err := diaries.Search(ctx, owner, "mountain", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalElements != 2 {
		t.Fatalf("expected 2 matches, got %d", page.TotalElements)
	}
	for _, item := range page.Items {
		if item.UserID != owner {
			t.Fatal("search returned another user's entry")
		}
	}
}

func TestDiaryService_Search_EmptyKeywordReturnsAll(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := diaries.Create(ctx, owner, service.DiaryInput{Content: "entry"}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, err := diaries.Search(ctx, owner, "", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalElements != 3 {
		t.Fatalf("expected empty keyword to match all 3 entries, got %d", page.TotalElements)
	}
}

func TestDiaryService_Search_NoMatchesIsNotAnError(t *testing.T) {
	diaries, owner, _ := newTestDiaryService(t)

	page, err := diaries.Search(context.Background(), owner, "nonexistent", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.TotalElements != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(page.Items))
	}
	if page.TotalPages != 0 {
		t.Fatalf("expected 0 pages, got %d", page.TotalPages)
	}
}

func TestDiaryService_ExportAll_FullOrderedHistory(t *testing.T) {
	diaries, owner, other := newTestDiaryService(t)
	ctx := context.Background()

	dates := []string{"2024-01-01", "2024-03-01", "2024-02-01"}
	for i, d := range dates {
		if _, err := diaries.Create(ctx, owner, service.DiaryInput{Content: "entry", DiaryDate: datePtr(t, d)}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := diaries.Create(ctx, other, service.DiaryInput{Content: "foreign"}); err != nil {
		t.Fatalf("Create for other: %v", err)
	}

	all, err := diaries.ExportAll(ctx, owner)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	want := []string{"2024-03-01", "2024-02-01", "2024-01-01"}
	for i := range want {
		if got := all[i].DiaryDate.Format("2006-01-02"); got != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got)
		}
	}
}
