package accrualjob

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type accruerFunc func(ctx context.Context) (int, error)

func (f accruerFunc) AccrueAll(ctx context.Context) (int, error) {
	return f(ctx)
}

func TestNewInvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := New("every now and then", accruerFunc(nil), zerolog.Nop())
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		calls := 0
		j, err := New("@daily", accruerFunc(func(ctx context.Context) (int, error) {
			calls++
			require.NotNil(t, zerolog.Ctx(ctx))
			return 3, nil
		}), zerolog.New(&buf))
		require.NoError(t, err)

		j.Run()

		require.Equal(t, 1, calls)
		require.Contains(t, buf.String(), `"changed":3`)
		require.Contains(t, buf.String(), `"job":"accrual"`)
	})

	t.Run("Error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		j, err := New("@hourly", accruerFunc(func(ctx context.Context) (int, error) {
			return 0, errors.New("db is down")
		}), zerolog.New(&buf))
		require.NoError(t, err)

		j.Run()

		require.Contains(t, buf.String(), "accrual failed")
		require.Contains(t, buf.String(), "db is down")
	})
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	j, err := New("@every 1h", accruerFunc(func(ctx context.Context) (int, error) {
		return 0, nil
	}), zerolog.Nop())
	require.NoError(t, err)

	j.Start()
	<-j.Stop().Done()
}
