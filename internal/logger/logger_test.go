package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected logger to be enabled")
	}
}

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv("FINCYCLE_LOG_LEVEL", "warn")
	log := New()
	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %s", log.GetLevel())
	}

	t.Setenv("FINCYCLE_LOG_LEVEL", "nonsense")
	log = New()
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level for unknown value, got %s", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	output := buf.String()
	if output == "" {
		t.Fatal("Expected log output, got empty string")
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
}

func TestWithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestForComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := ForComponent(NewWithWriter(buf), "reconciler")

	log.Info().Msg("adjusting")

	output := buf.String()
	if !strings.Contains(output, `"component":"reconciler"`) {
		t.Errorf("Expected component field, got: %s", output)
	}
}
