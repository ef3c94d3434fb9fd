package billing

import (
	"testing"
	"time"
)

func TestEvaluateStatus(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		isActive    bool
		nextBilling time.Time
		dueWindow   time.Duration
		want        Status
	}{
		{
			name:        "paused wins even when overdue",
			isActive:    false,
			nextBilling: now.Add(-30 * 24 * time.Hour),
			want:        StatusPaused,
		},
		{
			name:        "billing date passed",
			isActive:    true,
			nextBilling: now.Add(-time.Hour),
			want:        StatusOverdue,
		},
		{
			name:        "due later today",
			isActive:    true,
			nextBilling: now.Add(6 * time.Hour),
			want:        StatusDue,
		},
		{
			name:        "due exactly at window edge",
			isActive:    true,
			nextBilling: now.Add(DefaultDueWindow),
			want:        StatusDue,
		},
		{
			name:        "just beyond window",
			isActive:    true,
			nextBilling: now.Add(DefaultDueWindow + time.Minute),
			want:        StatusUpcoming,
		},
		{
			name:        "far future",
			isActive:    true,
			nextBilling: now.Add(60 * 24 * time.Hour),
			want:        StatusUpcoming,
		},
		{
			name:        "billing date equal to now is due, not overdue",
			isActive:    true,
			nextBilling: now,
			want:        StatusDue,
		},
		{
			name:        "custom narrow window",
			isActive:    true,
			nextBilling: now.Add(12 * time.Hour),
			dueWindow:   6 * time.Hour,
			want:        StatusUpcoming,
		},
		{
			name:        "zero window falls back to default",
			isActive:    true,
			nextBilling: now.Add(24 * time.Hour),
			dueWindow:   0,
			want:        StatusDue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStatus(tt.isActive, tt.nextBilling, now, tt.dueWindow)
			if got != tt.want {
				t.Errorf("EvaluateStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
