package common

import (
	"testing"
	"time"
)

func GetTestTimestamp() time.Time {
	return time.Unix(int64(1594336370), int64(706917000))
}

func GetTestTimestampMillisecondPrecision() string {
	return "1594336370706"
}

func TestFormatTimestamp(t *testing.T) {
	timestamp := GetTestTimestamp()
	expected := GetTestTimestampMillisecondPrecision()
	actual := FormatTimestamp(timestamp)
	if actual != expected {
		t.Errorf("unexpected timestamp: got '%s' instead of '%s'", actual, expected)
	}
}

func TestTimeAgo(t *testing.T) {
	now := GetTestTimestamp()
	tests := []struct {
		name     string
		offset   time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "Just now"},
		{"future", -time.Minute, "Just now"},
		{"one minute", 90 * time.Second, "1 minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"one hour", time.Hour, "1 hour ago"},
		{"hours", 23 * time.Hour, "23 hours ago"},
		{"one day", 24 * time.Hour, "1 day ago"},
		{"days", 72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := TimeAgo(now.Add(-tt.offset), now)
			if actual != tt.expected {
				t.Errorf("TimeAgo returned '%s' instead of '%s'", actual, tt.expected)
			}
		})
	}
}
