package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		envLevel string
		want     LogLevel
	}{
		{"Debug level", "DEBUG", DEBUG},
		{"Info level", "INFO", INFO},
		{"Warn level", "WARN", WARN},
		{"Error level", "ERROR", ERROR},
		{"Empty defaults to Info", "", INFO},
		{"Invalid defaults to Info", "INVALID", INFO},
		{"Case insensitive", "debug", DEBUG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("LOG_LEVEL", tt.envLevel)
			defer os.Unsetenv("LOG_LEVEL")

			if got := getLogLevel(); got != tt.want {
				t.Errorf("getLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func captureOutput(t *testing.T, level LogLevel, f func()) string {
	t.Helper()

	previousLogger := log.Logger
	previousLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = previousLogger
		zerolog.SetGlobalLevel(previousLevel)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)

	f()

	return buf.String()
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		setLevel  LogLevel
		logFunc   func(string, string, ...interface{})
		namespace string
		message   string
		shouldLog bool
		wantLevel string
	}{
		{
			name:      "Debug logs when Debug",
			setLevel:  DEBUG,
			logFunc:   Debug,
			namespace: "TEST",
			message:   "debug message",
			shouldLog: true,
			wantLevel: "debug",
		},
		{
			name:      "Debug doesn't log when Info",
			setLevel:  INFO,
			logFunc:   Debug,
			namespace: "TEST",
			message:   "debug message",
			shouldLog: false,
		},
		{
			name:      "Info logs when Info",
			setLevel:  INFO,
			logFunc:   Info,
			namespace: "TEST",
			message:   "info message",
			shouldLog: true,
			wantLevel: "info",
		},
		{
			name:      "Warn doesn't log when Error",
			setLevel:  ERROR,
			logFunc:   Warn,
			namespace: "TEST",
			message:   "warn message",
			shouldLog: false,
		},
		{
			name:      "Error logs when Error",
			setLevel:  ERROR,
			logFunc:   Error,
			namespace: "TEST",
			message:   "error message",
			shouldLog: true,
			wantLevel: "error",
		},
		{
			name:      "Error logs when Debug",
			setLevel:  DEBUG,
			logFunc:   Error,
			namespace: "TEST",
			message:   "error message",
			shouldLog: true,
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := strings.TrimSpace(captureOutput(t, tt.setLevel, func() {
				tt.logFunc(tt.namespace, tt.message)
			}))

			hasOutput := output != ""
			if hasOutput != tt.shouldLog {
				t.Fatalf("Expected log output: %v, got output: %q", tt.shouldLog, output)
			}
			if !tt.shouldLog {
				return
			}

			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(output), &entry); err != nil {
				t.Fatalf("log line is not JSON: %v (%q)", err, output)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry["level"], tt.wantLevel)
			}
			if entry["namespace"] != tt.namespace {
				t.Errorf("namespace = %v, want %v", entry["namespace"], tt.namespace)
			}
			if entry["message"] != tt.message {
				t.Errorf("message = %v, want %v", entry["message"], tt.message)
			}
		})
	}
}

func TestFormattedMessage(t *testing.T) {
	output := captureOutput(t, INFO, func() {
		Info(APP, "Count: %d", 42)
	})

	if !strings.Contains(output, `"message":"Count: 42"`) {
		t.Errorf("expected formatted message in %q", output)
	}
}

func TestWithNamespace(t *testing.T) {
	output := captureOutput(t, INFO, func() {
		l := With(QUESTION)
		l.Info().Str("request_id", "abc").Msg("sent")
	})

	if !strings.Contains(output, `"namespace":"QUESTION"`) || !strings.Contains(output, `"request_id":"abc"`) {
		t.Errorf("expected namespace and field in %q", output)
	}
}
