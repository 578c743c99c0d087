package database

import (
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  gormlogger.LogLevel
	}{
		{"debug", gormlogger.Info},
		{"info", gormlogger.Warn},
		{"warn", gormlogger.Warn},
		{"error", gormlogger.Error},
		{"", gormlogger.Silent},
	}
	for _, tt := range tests {
		if got := GormLogLevel(tt.level); got != tt.want {
			t.Errorf("GormLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 || len(entries)%2 != 0 {
		t.Fatalf("expected paired up/down migrations, got %d files", len(entries))
	}
}
