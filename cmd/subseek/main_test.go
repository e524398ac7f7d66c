package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExitMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no results", errNoResults, "Sorry, no results"},
		{"wrapped no results", fmt.Errorf("search: %w", errNoResults), "Sorry, no results"},
		{"interrupted", fmt.Errorf("login: %w", context.Canceled), ""},
		{"other", errors.New("open movie.avi: permission denied"), "open movie.avi: permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitMessage(tt.err); got != tt.want {
				t.Fatalf("exitMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoResultsErrorIsLowercase(t *testing.T) {
	if msg := errNoResults.Error(); msg != "no results" {
		t.Fatalf("unexpected error text %q", msg)
	}
}
