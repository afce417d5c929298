package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"~":                     home,
		"~/.config/trana/a.db":  filepath.Join(home, ".config/trana/a.db"),
		"/tmp/trana.db":         "/tmp/trana.db",
		"relative/~/not-a-home": "relative/~/not-a-home",
	}
	for in, want := range tests {
		got, err := ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q) error = %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.Local)
	tests := []struct {
		date string
		want int
	}{
		{"2024-03-10", 0},
		{"2024-03-11", 1},
		{"2024-03-13", 3},
		{"2024-03-09", -1},
		{"2024-02-29", -10},
	}
	for _, tt := range tests {
		got, err := DaysUntil(tt.date, now)
		if err != nil {
			t.Fatalf("DaysUntil(%s) error = %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}

	if _, err := DaysUntil("10/03/2024", now); err == nil {
		t.Error("DaysUntil() with bad date should fail")
	}
}

func TestExpiryWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)

	if !IsExpired("2024-03-09", now) {
		t.Error("yesterday should be expired")
	}
	if IsExpired("2024-03-10", now) {
		t.Error("today should not be expired")
	}
	if !IsWithinDays("2024-03-10", 3, now) || !IsWithinDays("2024-03-13", 3, now) {
		t.Error("today and today+3 should be within 3 days")
	}
	if IsWithinDays("2024-03-14", 3, now) || IsWithinDays("2024-03-09", 3, now) {
		t.Error("today+4 and yesterday should be outside the window")
	}
}

func TestExpiryText(t *testing.T) {
	tests := map[int]string{
		-2: "Expired 2 days ago",
		0:  "Expires today!",
		1:  "Expires tomorrow",
		5:  "Expires in 5 days",
	}
	for in, want := range tests {
		if got := ExpiryText(in); got != want {
			t.Errorf("ExpiryText(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatLabel(t *testing.T) {
	tests := map[string]string{
		"dairy":          "Dairy",
		"dairy-products": "Dairy Products",
		"fridge":         "Fridge",
		"":               "",
	}
	for in, want := range tests {
		if got := FormatLabel(in); got != want {
			t.Errorf("FormatLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKgAndTruncate(t *testing.T) {
	if got := Kg(12.5); got != "12.5 kg" {
		t.Errorf("Kg(12.5) = %q", got)
	}
	if got := Kg(3); got != "3 kg" {
		t.Errorf("Kg(3) = %q", got)
	}
	if got := Truncate("Trāṇa rocks", 5); got != "Trāṇa" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := DisplayDate("2024-03-05"); got != "Mar 5, 2024" {
		t.Errorf("DisplayDate() = %q", got)
	}
}
