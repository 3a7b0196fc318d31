package database

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestFormatParseTimeRoundTrip(t *testing.T) {
	t.Parallel()

	original := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

	parsed, err := parseTime(formatTime(original))
	if err != nil {
		t.Fatalf("Failed to parse formatted time: %v", err)
	}

	if !parsed.Equal(original) {
		t.Errorf("Round trip changed the time: got %v, want %v", parsed, original)
	}
}

func TestFormatTime_LexicographicOrder(t *testing.T) {
	t.Parallel()

	// Stored timestamps are compared as text by ORDER BY, so the encoding
	// must sort lexicographically in chronological order even when
	// fractional seconds differ in magnitude
	times := []time.Time{
		time.Date(2026, 1, 2, 10, 0, 0, 900000000, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 1, 0, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 1, 5, time.UTC),
		time.Date(2026, 1, 2, 10, 0, 1, 50000000, time.UTC),
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	encoded := make([]string, len(times))
	for i, tm := range times {
		encoded[i] = formatTime(tm)
	}

	if !sort.StringsAreSorted(encoded) {
		t.Errorf("Encoded timestamps are not lexicographically ordered: %v", encoded)
	}
}

func TestFormatTime_NormalizesToUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2026, 6, 1, 17, 30, 0, 0, loc)
	utc := local.UTC()

	if formatTime(local) != formatTime(utc) {
		t.Errorf("Expected identical encoding for equal instants, got %q and %q",
			formatTime(local), formatTime(utc))
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tc := range testCases {
		if got := escapeLike(tc.input); got != tc.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	createTestProject(t, repo, "First", "first")

	_, err := repo.CreateProject(context.Background(), "Other", "first", "")
	if err == nil {
		t.Fatal("Expected duplicate slug to fail")
	}
	if err != ErrDuplicate {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}
