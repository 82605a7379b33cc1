package rowdecode

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"projectdesk/internal/model"
)

// mangle reproduces the double encoding: UTF-8 bytes read as Latin-1.
func mangle(s string) string {
	b := []byte(s)
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func TestTextRepairsDoubleEncoding(t *testing.T) {
	for _, want := range []string{"Иванов Иван", "Разработка", "Средний"} {
		broken := mangle(want)
		assert.NotEqual(t, want, broken)

		got, ok := Text(broken)
		assert.True(t, ok, want)
		assert.Equal(t, want, got)
	}
}

func TestTextLeavesCorrectTextAlone(t *testing.T) {
	for _, s := range []string{"", "plain ascii", "Иванов Иван", "café", "日本語", "Участник проекта"} {
		got, ok := Text(s)
		assert.False(t, ok, s)
		assert.Equal(t, s, got)
	}
}

func TestTextIsIdempotent(t *testing.T) {
	for _, s := range []string{"ascii", "Наблюдатель", mangle("Наблюдатель"), "naïve"} {
		once := MustText(s)
		assert.Equal(t, once, MustText(once), s)
	}
}

func TestValueDescendsIntoJSON(t *testing.T) {
	in := map[string]any{
		"phone":  "+7 900 000-00-00",
		"city":   mangle("Москва"),
		"emails": []any{mangle("почта"), "a@b.io"},
		"nested": map[string]any{"note": mangle("заметка"), "n": float64(3)},
		"flag":   true,
	}
	want := map[string]any{
		"phone":  "+7 900 000-00-00",
		"city":   "Москва",
		"emails": []any{"почта", "a@b.io"},
		"nested": map[string]any{"note": "заметка", "n": float64(3)},
		"flag":   true,
	}
	got := Value(in)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, Value(got)); diff != "" {
		t.Errorf("Value() not idempotent (-want +got):\n%s", diff)
	}
}

func TestDateNormalization(t *testing.T) {
	ts := time.Date(2023, 11, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"nil", nil, "", true},
		{"time", ts, "2023-11-02", true},
		{"time pointer", &ts, "2023-11-02", true},
		{"date string", "2023-11-02", "2023-11-02", true},
		{"timestamp string", "2023-11-02 15:04:05", "2023-11-02", true},
		{"iso string", "2023-11-02T15:04:05", "2023-11-02", true},
		{"rfc3339", "2023-11-02T15:04:05+03:00", "2023-11-02", true},
		{"bytes", []byte("2023-11-02"), "2023-11-02", true},
		{"garbage keeps raw", "второе ноября", "второе ноября", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateIsIdempotent(t *testing.T) {
	for _, in := range []any{"2024-02-29", time.Now(), "not a date", nil} {
		once := MustDate(in)
		twice, _ := Date(once)
		assert.Equal(t, once, twice)

		again, _ := Date(once.String())
		assert.Equal(t, once.String(), again.String())
	}
}

func TestDateFromModelDate(t *testing.T) {
	d := model.DateOf(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	got, ok := Date(d)
	assert.True(t, ok)
	assert.Equal(t, d, got)
}
