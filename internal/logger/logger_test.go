package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.WithComponent("loader").WithFields(map[string]any{"theme_id": "midnight"})
	log.Info("generation complete")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "generation complete", entry["message"])
	require.Equal(t, "midnight", entry["theme_id"])
	require.Equal(t, "loader", entry["component"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"cache_key": "a1b2c3"})
	log.Error(errors.New("disk full"), "file tier write failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "file tier write failed", entry["message"])
	require.Equal(t, "a1b2c3", entry["cache_key"])
	require.Equal(t, "disk full", entry["error"])
}

func TestLoggerNilSafe(t *testing.T) {
	t.Parallel()

	var log *Logger
	log.Info("no-op")
	log.Warn("no-op")
	log.Error(errors.New("ignored"), "no-op")
	require.Nil(t, log.WithFields(map[string]any{"k": "v"}))
	require.Nil(t, log.WithComponent("loader"))
}

func TestLoggerWithComponentTagsEveryEntry(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", HumanReadable: false, Writer: buf})
	require.NoError(t, err)

	log = log.WithComponent("stylecache")
	log.Info("sweep complete")
	log.Warn("file tier write failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		require.Equal(t, "stylecache", entry["component"])
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "shouting"})
	require.Error(t, err)
}
