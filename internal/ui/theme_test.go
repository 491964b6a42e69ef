package ui

import (
	"strings"
	"testing"

	"github.com/trustieee/timey-sub000/internal/engine"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		value, total, width int
		want                string
	}{
		{0, 10, 4, "[----]"},
		{5, 10, 4, "[##--]"},
		{10, 10, 4, "[####]"},
		{20, 10, 4, "[####]"},
		{-3, 10, 4, "[----]"},
		{1, 0, 4, "[####]"},
	}
	for _, tc := range cases {
		if got := ProgressBar(tc.value, tc.total, tc.width); got != tc.want {
			t.Fatalf("ProgressBar(%d,%d,%d)=%q, want %q", tc.value, tc.total, tc.width, got, tc.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	if !strings.Contains(StatusText(engine.StatusCompleted), "done") {
		t.Fatalf("completed should read as done")
	}
	if !strings.Contains(StatusText(engine.StatusNA), "n/a") {
		t.Fatalf("na should read as n/a")
	}
	if StatusIcon(engine.StatusIncomplete) != IconTodo {
		t.Fatalf("incomplete icon=%q", StatusIcon(engine.StatusIncomplete))
	}
}
