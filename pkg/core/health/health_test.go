package health

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func healthy(context.Context) error { return nil }

func TestRegistry_Run(t *testing.T) {
	locked := errors.New("database is locked")

	tests := []struct {
		name    string
		checks  map[string]Check
		want    Status
		serving bool
		failing []string
	}{
		{"empty", nil, StatusHealthy, true, nil},
		{
			"all healthy",
			map[string]Check{"parser": healthy, "history": healthy},
			StatusHealthy, true, nil,
		},
		{
			"degraded still serves",
			map[string]Check{
				"parser":  healthy,
				"history": func(context.Context) error { return Degraded(locked) },
			},
			StatusDegraded, true, []string{"history"},
		},
		{
			"unhealthy wins",
			map[string]Check{
				"parser":  func(context.Context) error { return errors.New("self test failed") },
				"history": func(context.Context) error { return Degraded(locked) },
			},
			StatusUnhealthy, false, []string{"history", "parser"},
		},
		{
			"panic is unhealthy",
			map[string]Check{"parser": func(context.Context) error { panic("boom") }},
			StatusUnhealthy, false, []string{"parser"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("jackc", "1.0.0")
			for name, check := range tt.checks {
				registry.Add(name, check)
			}

			report := registry.Run(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if report.Serving() != tt.serving {
				t.Errorf("Serving() = %v, want %v", report.Serving(), tt.serving)
			}
			if got := report.Failing(); !reflect.DeepEqual(got, tt.failing) {
				t.Errorf("Failing() = %v, want %v", got, tt.failing)
			}
			if len(report.Results) != len(tt.checks) {
				t.Errorf("len(Results) = %d, want %d", len(report.Results), len(tt.checks))
			}
		})
	}
}

func TestRegistry_AddRemove(t *testing.T) {
	registry := NewRegistry("jackc", "1.0.0")
	registry.Add("store", healthy)
	registry.Add("parser", healthy)
	registry.Add("lexer", healthy)
	registry.Remove("lexer")
	registry.Add("store", func(context.Context) error { return errors.New("closed") })

	report := registry.Run(context.Background())
	if len(report.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(report.Results))
	}
	if report.Results[0].Name != "parser" || report.Results[1].Name != "store" {
		t.Errorf("Results = %v, %v", report.Results[0].Name, report.Results[1].Name)
	}
	if report.Results[1].Error != "closed" {
		t.Errorf("Results[1].Error = %q, want closed", report.Results[1].Error)
	}
	if got := report.String(); !strings.Contains(got, "jackc 1.0.0: unhealthy (store)") {
		t.Errorf("String() = %q", got)
	}
}

func TestDegraded(t *testing.T) {
	if Degraded(nil) != nil {
		t.Error("Degraded(nil) should be nil")
	}
	base := errors.New("slow disk")
	err := Degraded(base)
	if !errors.Is(err, base) || err.Error() != "slow disk" {
		t.Errorf("Degraded() = %v, want wrapper of %v", err, base)
	}
}
