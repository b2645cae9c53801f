package domain

import (
	"testing"
	"time"
)

func TestFlight_Progress(t *testing.T) {
	dep := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := Flight{DepartureTime: dep, ArrivalTime: dep.Add(4 * time.Hour)}

	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"before departure", dep.Add(-time.Hour), 0},
		{"at departure", dep, 0},
		{"quarter", dep.Add(time.Hour), 0.25},
		{"at arrival", dep.Add(4 * time.Hour), 1},
		{"after arrival", dep.Add(10 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Progress(tt.at); got != tt.want {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlight_Progress_ZeroDuration(t *testing.T) {
	dep := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := Flight{DepartureTime: dep, ArrivalTime: dep}

	if got := f.Progress(dep.Add(-time.Second)); got != 0 {
		t.Errorf("before = %v, want 0", got)
	}
	if got := f.Progress(dep); got != 1 {
		t.Errorf("at = %v, want 1", got)
	}
}

func TestFlight_Airborne(t *testing.T) {
	dep := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := Flight{DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)}

	if f.Airborne(dep.Add(-time.Nanosecond)) {
		t.Error("airborne before departure")
	}
	if !f.Airborne(dep) {
		t.Error("not airborne at departure")
	}
	if f.Airborne(dep.Add(time.Hour)) {
		t.Error("airborne at arrival")
	}
}
