package logger_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"
)

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	dir := t.TempDir()
	l := logger.New(logger.Options{Dir: dir, File: "test.log", Level: "info"})
	// пишем лог
	l.Info("test message")
	// закрываем буферы zap
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	l := logger.New(logger.Options{Dir: dir, File: "test.log", Level: "warn"})
	l.Info("hidden message")
	l.Warn("visible message")
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "hidden message") {
		t.Fatalf("info message must be filtered at warn level: %q", s)
	}
	if !strings.Contains(s, "visible message") {
		t.Fatalf("expected warn message, got %q", s)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	l := logger.New(logger.Options{Dir: dir, File: "test.log", Format: "json"})
	l.Info("json message")
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"json message"`) {
		t.Fatalf("expected json encoded entry, got %q", string(b))
	}
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	dir := t.TempDir()
	l := logger.New(logger.Options{Dir: dir, File: "http.log"})
	l.LogRequest("POST", "/api/v1/user/signin", 401, 20, 158.5463)
	_ = l.Sync()

	b, err := os.ReadFile(filepath.Join(dir, "http.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"method", "POST",
		"uri", "/api/v1/user/signin",
		"status", "401",
		"response_size", "20",
		"duration_ms",
	}
	for _, sub := range mustContain {
		if !strings.Contains(s, sub) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}
