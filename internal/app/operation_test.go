package app

import (
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name   string
		opName string
		now    time.Time
		wantID string
	}{
		{
			name:   "utc time",
			opName: "Run",
			now:    time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC),
			wantID: "20240615T143045Z",
		},
		{
			name:   "non-utc time is normalized",
			opName: "GetHistory",
			now:    time.Date(2024, 6, 15, 16, 30, 45, 0, time.FixedZone("CEST", 2*60*60)),
			wantID: "20240615T143045Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.opName, tt.now)

			if op.Name != tt.opName {
				t.Errorf("Name = %q, want %q", op.Name, tt.opName)
			}
			if op.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", op.ID, tt.wantID)
			}
		})
	}
}
