package schedule

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний сотрудников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStaffID получает все окна расписания сотрудника, включая блокировки.
// Значения start_time/end_time хранятся как текст HH:MM и не валидируются
// на этом уровне - некорректные строки отсеивает проверка блокировок.
func (r *Repository) GetByStaffID(ctx context.Context, staffID int64) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"staff_id",
		"day_of_week",
		"start_time",
		"end_time",
		"start_date",
		"end_date",
		"is_blocked",
	).
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("start_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.StaffSchedule, 0)
	for rows.Next() {
		var s domain.StaffSchedule
		err := rows.Scan(
			&s.ID,
			&s.StaffID,
			&s.DayOfWeek,
			&s.StartTime,
			&s.EndTime,
			&s.StartDate,
			&s.EndDate,
			&s.IsBlocked,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByStaffID - scan schedule row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByStaffID - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}
