package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func enabledConfig() Config {
	return Config{
		Name:             "test-breaker",
		Enabled:          true,
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 3,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantNil bool
	}{
		{
			name:    "enabled",
			cfg:     enabledConfig(),
			wantNil: false,
		},
		{
			name:    "disabled yields nil",
			cfg:     Config{Name: "off", Enabled: false},
			wantNil: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cb := New[string](tc.cfg)

			if tc.wantNil {
				require.Nil(t, cb)

				return
			}

			require.NotNil(t, cb)
			require.Equal(t, tc.cfg.Name, cb.Name())
		})
	}
}

func TestExecute_NilBreakerPassesThrough(t *testing.T) {
	t.Parallel()

	result, err := Execute[string](nil, func() (string, error) {
		return "direct", nil
	})

	require.NoError(t, err)
	require.Equal(t, "direct", result)
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	cb := New[int](enabledConfig())

	result, err := Execute(cb, func() (int, error) {
		return 7, nil
	})

	require.NoError(t, err)
	require.Equal(t, 7, result)
}

func TestExecute_ErrorPassesThrough(t *testing.T) {
	t.Parallel()

	cb := New[string](enabledConfig())
	boom := errors.New("backend down")

	_, err := Execute(cb, func() (string, error) {
		return "", boom
	})

	require.ErrorIs(t, err, boom)
}

func TestExecute_TripsAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cfg := enabledConfig()
	cb := New[string](cfg)
	boom := errors.New("backend down")

	for range int(cfg.FailureThreshold) {
		_, err := Execute(cb, func() (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)
	}

	_, err := Execute(cb, func() (string, error) {
		return "never reached", nil
	})

	require.ErrorIs(t, err, ErrCircuitOpen)
}
