package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		production bool
		level      string
		want       zapcore.Level
	}{
		{production: true, level: "", want: zapcore.InfoLevel},
		{production: false, level: "", want: zapcore.DebugLevel},
		{production: true, level: "warn", want: zapcore.WarnLevel},
		{production: false, level: " ERROR ", want: zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		logger, err := New(tc.production, tc.level)
		if err != nil {
			t.Fatalf("New(%v, %q): %v", tc.production, tc.level, err)
		}
		if !logger.Core().Enabled(tc.want) {
			t.Fatalf("level %s should be enabled", tc.want)
		}
		if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
			t.Fatalf("level %s should be disabled", tc.want-1)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(true, "loud"); err == nil {
		t.Fatalf("expected parse error")
	}
}
