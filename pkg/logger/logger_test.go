package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Format: JSON, Output: &buf, Service: "bookings"})

	log.Info("Booking confirmed", "id", "abc")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Booking confirmed", record["msg"])
	assert.Equal(t, "bookings", record[SERVICE])
	assert.Equal(t, "abc", record["id"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Format: TEXT, Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		DEBUG:     slog.LevelDebug,
		INFO:      slog.LevelInfo,
		WARN:      slog.LevelWarn,
		ERROR:     slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mentorbook.log")
	var buf bytes.Buffer
	log := New(Config{Output: &buf, File: &FileConfig{Path: path, MaxSizeMB: 1}})

	log.Info("written twice")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written twice"))
	assert.Contains(t, buf.String(), "written twice")
}

func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("request_id", "r-1")

	log.Info("hello")

	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}
