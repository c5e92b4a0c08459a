package repos_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/r-miyahara/devices-api/internal/adapters/repos"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/logger"
	"github.com/stretchr/testify/require"
)

var deviceColumns = []string{"id", "name", "brand", "state", "created_at"}

func runRepoTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.DevicesRepository),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	repo := repos.NewDevicesRepository(mock, repos.NewPgxScanner(), logger.NewTestLogger())
	testFn(t, repo)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDevicesRepository_Save(t *testing.T) {
	t.Parallel()

	upsertQuery := regexp.QuoteMeta(
		`INSERT INTO devices (id,name,brand,state,created_at) VALUES ($1,$2,$3,$4,$5) ` +
			`ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, brand = EXCLUDED.brand, state = EXCLUDED.state`,
	)

	device := mustDevice(t, "Sensor", "Acme", model.StateAvailable)

	cases := []struct {
		name        string
		setupMock   func(pgxmock.PgxPoolIface)
		expectedErr error
	}{
		{
			name: "successful upsert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(upsertQuery).
					WithArgs(
						device.ID.String(),
						device.Name,
						device.Brand,
						device.State.String(),
						device.CreatedAt,
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "database error is wrapped",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(upsertQuery).
					WithArgs(
						device.ID.String(),
						device.Name,
						device.Brand,
						device.State.String(),
						device.CreatedAt,
					).
					WillReturnError(errors.New("connection refused"))
			},
			expectedErr: model.ErrDatabaseQuery,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTest(t, tc.setupMock, func(t *testing.T, repo *repos.DevicesRepository) {
				saved, err := repo.Save(t.Context(), device)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}

				require.NoError(t, err)
				require.Equal(t, device, saved)
			})
		})
	}
}

func TestDevicesRepository_FindByID(t *testing.T) {
	t.Parallel()

	selectQuery := regexp.QuoteMeta(
		`SELECT id, name, brand, state, created_at FROM devices WHERE id = $1 LIMIT 1`,
	)

	device := mustDevice(t, "Sensor", "Acme", model.StateInUse)

	t.Run("found", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(selectQuery).
				WithArgs(device.ID.String()).
				WillReturnRows(pgxmock.NewRows(deviceColumns).AddRow(
					device.ID.String(),
					device.Name,
					device.Brand,
					device.State.String(),
					device.CreatedAt,
				))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			found, err := repo.FindByID(t.Context(), device.ID)

			require.NoError(t, err)
			require.Equal(t, device, found)
		})
	})

	t.Run("not found", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(selectQuery).
				WithArgs(device.ID.String()).
				WillReturnRows(pgxmock.NewRows(deviceColumns))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			_, err := repo.FindByID(t.Context(), device.ID)

			require.ErrorIs(t, err, model.ErrDeviceNotFound)
		})
	})
}

func TestDevicesRepository_FindFiltered(t *testing.T) {
	t.Parallel()

	brand := "Acme"
	state := model.StateAvailable

	first := mustDevice(t, "Alpha", brand, state)
	second := mustDevice(t, "Bravo", brand, state)

	t.Run("filtered page", func(t *testing.T) {
		query := regexp.QuoteMeta(
			`SELECT id, name, brand, state, created_at FROM devices ` +
				`WHERE brand = $1 AND state = $2 ORDER BY name ASC, created_at ASC LIMIT 2 OFFSET 2`,
		)

		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(query).
				WithArgs(brand, state.String()).
				WillReturnRows(pgxmock.NewRows(deviceColumns).
					AddRow(first.ID.String(), first.Name, first.Brand, first.State.String(), first.CreatedAt).
					AddRow(second.ID.String(), second.Name, second.Brand, second.State.String(), second.CreatedAt))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			filter := ports.DeviceFilter{Brand: &brand, State: &state}

			devices, err := repo.FindFiltered(t.Context(), filter, 1, 2)

			require.NoError(t, err)
			require.Equal(t, []model.Device{first, second}, devices)
		})
	})

	t.Run("empty page", func(t *testing.T) {
		query := regexp.QuoteMeta(
			`SELECT id, name, brand, state, created_at FROM devices ` +
				`ORDER BY name ASC, created_at ASC LIMIT 20 OFFSET 0`,
		)

		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(query).
				WillReturnRows(pgxmock.NewRows(deviceColumns))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			devices, err := repo.FindFiltered(t.Context(), ports.DeviceFilter{}, 0, 20)

			require.NoError(t, err)
			require.Empty(t, devices)
		})
	})
}

func TestDevicesRepository_Count(t *testing.T) {
	brand := "Acme"

	runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM devices WHERE brand = $1`)).
			WithArgs(brand).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	}, func(t *testing.T, repo *repos.DevicesRepository) {
		total, err := repo.Count(t.Context(), ports.DeviceFilter{Brand: &brand})

		require.NoError(t, err)
		require.Equal(t, 7, total)
	})
}

func TestDevicesRepository_DeleteByID(t *testing.T) {
	t.Parallel()

	deleteQuery := regexp.QuoteMeta(`DELETE FROM devices WHERE id = $1`)
	id := model.NewDeviceID()

	t.Run("deleted", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(deleteQuery).
				WithArgs(id.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			require.NoError(t, repo.DeleteByID(t.Context(), id))
		})
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(deleteQuery).
				WithArgs(id.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
		}, func(t *testing.T, repo *repos.DevicesRepository) {
			require.ErrorIs(t, repo.DeleteByID(t.Context(), id), model.ErrDeviceNotFound)
		})
	})
}

func TestDevicesRepository_Ping(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectPing()

	repo := repos.NewDevicesRepository(mock, repos.NewPgxScanner(), logger.NewTestLogger())

	require.NoError(t, repo.Ping(t.Context()))
	require.NoError(t, mock.ExpectationsWereMet())
}
