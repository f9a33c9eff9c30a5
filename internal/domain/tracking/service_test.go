package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"timetrack/internal/apperror"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewStore(filepath.Join(t.TempDir(), "timeEntries.json")))
}

func TestStartWork(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	entry, err := svc.StartWork(ctx, "emp-1", now)
	if err != nil {
		t.Fatalf("StartWork: %v", err)
	}
	if entry.Date != "2024-03-04" {
		t.Fatalf("date = %q, want 2024-03-04", entry.Date)
	}
	if !entry.IsRunning() {
		t.Fatal("new entry should be running")
	}
	if entry.Status != StatusDraft || entry.Source != SourceTimer || entry.Type != TypeWork {
		t.Fatalf("unexpected entry fields: %+v", entry)
	}
	if entry.DurationSeconds != 0 {
		t.Fatalf("duration = %d, want 0", entry.DurationSeconds)
	}
}

func TestStartWorkTwiceConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", now); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	_, err := svc.StartWork(ctx, "emp-1", now.Add(time.Minute))
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// A different employee is unaffected.
	if _, err := svc.StartWork(ctx, "emp-2", now); err != nil {
		t.Fatalf("StartWork other employee: %v", err)
	}
}

func TestConcurrentStartsLeaveOneRunningEntry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const workers = 8
	for round := 0; round < 20; round++ {
		employeeID := fmt.Sprintf("emp-%d", round)
		now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

		var wg sync.WaitGroup
		var started atomic.Int32
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.StartWork(ctx, employeeID, now)
				if err == nil {
					started.Add(1)
					return
				}
				if apperror.KindOf(err) != apperror.KindConflict {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if got := started.Load(); got != 1 {
			t.Fatalf("round %d: %d starts succeeded, want 1", round, got)
		}
		entries, err := svc.Entries.ListByEmployee(ctx, employeeID)
		if err != nil {
			t.Fatalf("ListByEmployee: %v", err)
		}
		open := 0
		for _, e := range entries {
			if e.IsRunning() {
				open++
			}
		}
		if open != 1 {
			t.Fatalf("round %d: %d open entries for one employee, want 1", round, open)
		}
	}
}

func TestConcurrentStopsCloseEntryOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", start); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	var stopped atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.StopWork(ctx, "emp-1", start.Add(time.Duration(i+1)*time.Minute))
			if err == nil {
				stopped.Add(1)
				return
			}
			if apperror.KindOf(err) != apperror.KindConflict {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := stopped.Load(); got != 1 {
		t.Fatalf("%d stops succeeded, want 1", got)
	}
}

func TestStopWorkComputesDuration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", start); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	end := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)
	entry, err := svc.StopWork(ctx, "emp-1", end)
	if err != nil {
		t.Fatalf("StopWork: %v", err)
	}
	if entry.DurationSeconds != 30600 {
		t.Fatalf("duration = %d, want 30600", entry.DurationSeconds)
	}
	if entry.EndAt == nil || !entry.EndAt.Equal(end) {
		t.Fatalf("endAt = %v, want %v", entry.EndAt, end)
	}
}

func TestStopWorkWithoutTimer(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StopWork(context.Background(), "emp-1", time.Now())
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStopWorkClampsClockSkew(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", start); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	entry, err := svc.StopWork(ctx, "emp-1", start.Add(-time.Hour))
	if err != nil {
		t.Fatalf("StopWork: %v", err)
	}
	if entry.DurationSeconds != 0 {
		t.Fatalf("duration = %d, want 0 on clock skew", entry.DurationSeconds)
	}
}

func TestStopThenStartAgain(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", now); err != nil {
		t.Fatalf("StartWork: %v", err)
	}
	if _, err := svc.StopWork(ctx, "emp-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("StopWork: %v", err)
	}
	if _, err := svc.StartWork(ctx, "emp-1", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("StartWork after stop: %v", err)
	}
}

func TestTimesheet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	days := []struct {
		date  string
		start time.Time
		hours int
	}{
		{"2024-03-06", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), 8},
		{"2024-03-04", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), 7},
		{"2024-03-05", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), 6},
	}
	for _, d := range days {
		if _, err := svc.StartWork(ctx, "emp-1", d.start); err != nil {
			t.Fatalf("StartWork: %v", err)
		}
		if _, err := svc.StopWork(ctx, "emp-1", d.start.Add(time.Duration(d.hours)*time.Hour)); err != nil {
			t.Fatalf("StopWork: %v", err)
		}
	}

	// Other employee's entry must not leak in.
	if _, err := svc.StartWork(ctx, "emp-2", days[0].start); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	sheet, err := svc.Timesheet(ctx, "emp-1", "2024-03-04", "2024-03-05")
	if err != nil {
		t.Fatalf("Timesheet: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(sheet.Rows))
	}
	if sheet.Rows[0].Date != "2024-03-04" || sheet.Rows[1].Date != "2024-03-05" {
		t.Fatalf("rows not sorted ascending: %+v", sheet.Rows)
	}
	if want := (7 + 6) * 3600; sheet.TotalSeconds != want {
		t.Fatalf("total = %d, want %d", sheet.TotalSeconds, want)
	}
}

func TestTimesheetRejectsBadDates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Timesheet(context.Background(), "emp-1", "03/04/2024", "2024-03-05")
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDayEntriesSortedByStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	afternoon := time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC)
	morning := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.StartWork(ctx, "emp-1", afternoon); err != nil {
		t.Fatalf("StartWork: %v", err)
	}
	if _, err := svc.StopWork(ctx, "emp-1", afternoon.Add(time.Hour)); err != nil {
		t.Fatalf("StopWork: %v", err)
	}
	if _, err := svc.StartWork(ctx, "emp-1", morning); err != nil {
		t.Fatalf("StartWork: %v", err)
	}

	entries, err := svc.DayEntries(ctx, "emp-1", "2024-03-04")
	if err != nil {
		t.Fatalf("DayEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if !entries[0].StartAt.Equal(morning) {
		t.Fatalf("entries not sorted by start: %+v", entries)
	}
	if entries[1].EndAt == nil {
		t.Fatal("closed entry lost its end")
	}
	if entries[0].EndAt != nil {
		t.Fatal("running entry should have null end")
	}
}

func TestEntryJSONShape(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := StartNew("e-1", "emp-1", "2024-03-04", start, SourceTimer, start)
	if err != nil {
		t.Fatalf("StartNew: %v", err)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"id", "employeeId", "date", "startAt", "endAt", "durationSeconds", "type", "source", "status", "createdAt", "updatedAt"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if m["endAt"] != nil {
		t.Fatalf("endAt = %v, want null for running entry", m["endAt"])
	}
}

func TestEntryJSONRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	open, err := StartNew("e-open", "emp-1", "2024-03-04", start, SourceTimer, start)
	if err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	closed, err := open.Stop(end, 8*3600, end)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	manual, err := StartNew("e-manual", "emp-1", "2024-03-04", start, SourceManual, start)
	if err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	manual, err = manual.Stop(end, 8*3600, end)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	approved := manual.WithStatus(StatusApproved, end)

	cases := []struct {
		name  string
		entry Entry
	}{
		{"open draft", open},
		{"closed draft", closed},
		{"approved manual", approved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.entry)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var decoded Entry
			if err := json.Unmarshal(raw, &decoded); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if decoded.ID != tc.entry.ID ||
				decoded.EmployeeID != tc.entry.EmployeeID ||
				decoded.Date != tc.entry.Date ||
				decoded.DurationSeconds != tc.entry.DurationSeconds ||
				decoded.Type != tc.entry.Type ||
				decoded.Source != tc.entry.Source ||
				decoded.Status != tc.entry.Status {
				t.Fatalf("decoded %+v, want %+v", decoded, tc.entry)
			}
			if !decoded.StartAt.Equal(tc.entry.StartAt) {
				t.Fatalf("startAt = %v, want %v", decoded.StartAt, tc.entry.StartAt)
			}
			if !decoded.CreatedAt.Equal(tc.entry.CreatedAt) || !decoded.UpdatedAt.Equal(tc.entry.UpdatedAt) {
				t.Fatalf("timestamps changed: %+v vs %+v", decoded, tc.entry)
			}
			if (decoded.EndAt == nil) != (tc.entry.EndAt == nil) {
				t.Fatalf("endAt nilness changed: %v vs %v", decoded.EndAt, tc.entry.EndAt)
			}
			if decoded.EndAt != nil && !decoded.EndAt.Equal(*tc.entry.EndAt) {
				t.Fatalf("endAt = %v, want %v", decoded.EndAt, tc.entry.EndAt)
			}
		})
	}
}

func TestStopRejectsInvalidDuration(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	entry, err := StartNew("e-1", "emp-1", "2024-03-04", start, SourceTimer, start)
	if err != nil {
		t.Fatalf("StartNew: %v", err)
	}

	if _, err := entry.Stop(start.Add(time.Hour), -1, start); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error for negative duration, got %v", err)
	}
}
