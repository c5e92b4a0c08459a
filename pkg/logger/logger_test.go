package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		level  string
		format string
	}{
		{
			name:   "creates logger with debug level",
			level:  "debug",
			format: logger.ConsoleFormat,
		},
		{
			name:   "creates logger with info level",
			level:  "info",
			format: logger.ConsoleFormat,
		},
		{
			name:   "creates logger with json format",
			level:  "info",
			format: logger.JSONFormat,
		},
		{
			name:   "falls back to info for unknown level",
			level:  "unknown",
			format: logger.ConsoleFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log := logger.New(tc.level, tc.format)
			require.NotNil(t, log)
		})
	}
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name              string
		requestID         string
		expectedRequestID string
		hasRequestID      bool
	}{
		{
			name:              "adds request id to log lines",
			requestID:         "req-123",
			expectedRequestID: "req-123",
			hasRequestID:      true,
		},
		{
			name:         "plain context logs without request id",
			hasRequestID: false,
		},
		{
			name:         "empty request id is omitted",
			requestID:    "",
			hasRequestID: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.NewWithWriter("info", logger.JSONFormat, &buf)

			ctx := t.Context()
			if tc.requestID != "" {
				ctx = logger.WithRequestID(ctx, tc.requestID)
			}

			ctxLog := log.WithContext(ctx)
			ctxLog.Info().Msg("test message")

			var logEntry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

			if tc.hasRequestID {
				require.Equal(t, tc.expectedRequestID, logEntry["request_id"])

				return
			}

			require.NotContains(t, logEntry, "request_id")
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter("warn", logger.JSONFormat, &buf)

	log.Info().Msg("filtered out")
	require.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	require.NotZero(t, buf.Len())
}
