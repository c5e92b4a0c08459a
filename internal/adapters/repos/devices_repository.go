package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/r-miyahara/devices-api/internal/domain/model"
	"github.com/r-miyahara/devices-api/internal/ports"
	"github.com/r-miyahara/devices-api/pkg/logger"
)

const devicesTable = "devices"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Ping(ctx context.Context) error
	}

	// DevicesRepository persists device aggregates in Postgres.
	DevicesRepository struct {
		pool    PoolOps
		scanner Scanner
		logger  logger.Logger
	}

	deviceRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		Brand     string    `db:"brand"`
		State     string    `db:"state"`
		CreatedAt time.Time `db:"created_at"`
	}
)

func NewDevicesRepository(pool PoolOps, scanner Scanner, log logger.Logger) *DevicesRepository {
	return &DevicesRepository{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

// Save inserts the aggregate or replaces it wholesale when the id already
// exists. created_at is excluded from the update set: it never changes.
func (r *DevicesRepository) Save(ctx context.Context, device model.Device) (model.Device, error) {
	query, args, err := psql.Insert(devicesTable).
		Columns("id", "name", "brand", "state", "created_at").
		Values(
			device.ID.String(),
			device.Name,
			device.Brand,
			device.State.String(),
			device.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, brand = EXCLUDED.brand, state = EXCLUDED.state").
		ToSql()
	if err != nil {
		return model.Device{}, fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return model.Device{}, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return device, nil
}

func (r *DevicesRepository) FindByID(ctx context.Context, id model.DeviceID) (model.Device, error) {
	query, args, err := psql.Select("id", "name", "brand", "state", "created_at").
		From(devicesTable).
		Where(sq.Eq{"id": id.String()}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Device{}, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return model.Device{}, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var row deviceRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return model.Device{}, model.ErrDeviceNotFound
		}

		return model.Device{}, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return r.convertRowToDevice(row)
}

// FindFiltered returns one page of matching devices ordered by name, with
// created_at breaking ties so paging stays reproducible.
func (r *DevicesRepository) FindFiltered(
	ctx context.Context,
	filter ports.DeviceFilter,
	page, size int,
) ([]model.Device, error) {
	builder := psql.Select("id", "name", "brand", "state", "created_at").
		From(devicesTable).
		OrderBy("name ASC", "created_at ASC").
		Limit(uint64(size)).
		Offset(uint64(page) * uint64(size))

	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var deviceRows []deviceRow
	if err := r.scanner.ScanAll(&deviceRows, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	devices := make([]model.Device, 0, len(deviceRows))
	for index := range deviceRows {
		device, err := r.convertRowToDevice(deviceRows[index])
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, nil
}

func (r *DevicesRepository) Count(ctx context.Context, filter ports.DeviceFilter) (int, error) {
	builder := psql.Select("COUNT(*)").From(devicesTable)
	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return total, nil
}

func (r *DevicesRepository) DeleteByID(ctx context.Context, id model.DeviceID) error {
	query, args, err := psql.Delete(devicesTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrDeviceNotFound
	}

	return nil
}

func (r *DevicesRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// applyFilter intersects the brand and state predicates; both supplied
// means both must hold.
func applyFilter(builder sq.SelectBuilder, filter ports.DeviceFilter) sq.SelectBuilder {
	if filter.Brand != nil {
		builder = builder.Where(sq.Eq{"brand": strings.TrimSpace(*filter.Brand)})
	}

	if filter.State != nil {
		builder = builder.Where(sq.Eq{"state": filter.State.String()})
	}

	return builder
}

func (r *DevicesRepository) convertRowToDevice(row deviceRow) (model.Device, error) {
	id, err := model.ParseDeviceID(row.ID)
	if err != nil {
		return model.Device{}, fmt.Errorf("failed to parse device ID: %w", err)
	}

	state, err := model.ParseState(row.State)
	if err != nil {
		return model.Device{}, fmt.Errorf("failed to parse device state: %w", err)
	}

	return model.Device{
		ID:        id,
		Name:      row.Name,
		Brand:     row.Brand,
		State:     state,
		CreatedAt: row.CreatedAt,
	}, nil
}
