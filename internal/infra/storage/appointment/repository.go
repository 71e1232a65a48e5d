package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// appointmentColumns полный набор колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"client_id",
	"staff_id",
	"service_id",
	"location_id",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"total_amount",
	"notes",
	"booking_method",
	"created_by",
	"recurring_group_id",
	"created_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция (через context.Value),
// использует её - так admission controller гарантирует, что вставка
// происходит в той же сериализуемой транзакции, что и проверка конфликтов.
func (r *Repository) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"client_id",
			"staff_id",
			"service_id",
			"location_id",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"total_amount",
			"notes",
			"booking_method",
			"created_by",
			"recurring_group_id",
		).
		Values(
			apt.ClientID,
			apt.StaffID,
			apt.ServiceID,
			apt.LocationID,
			apt.StartTime,
			apt.EndTime,
			apt.Status,
			apt.PaymentStatus,
			apt.TotalAmount,
			apt.Notes,
			apt.BookingMethod,
			apt.CreatedBy,
			apt.RecurringGroupID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&apt.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	apt.CreatedAt = createdAt.Time
	return apt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return apt, nil
}

// GetAllActive получает все активные записи (не отменённые и не завершённые)
// Внутри транзакции выборка выполняется с FOR UPDATE: admission controller
// блокирует активный набор на время read-decide-write, закрывая гонку двух
// одновременных броней на пересекающиеся слоты.
func (r *Repository) GetAllActive(ctx context.Context) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatuses := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.NotEq{"status": inactiveStatuses}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByClient получает все записи клиента
func (r *Repository) GetByClient(ctx context.Context, clientID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_time DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByGroup получает все записи повторяющейся серии, упорядоченные по времени начала
func (r *Repository) GetByGroup(ctx context.Context, groupID string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"recurring_group_id": groupID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroup - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroup - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Update перезаписывает изменяемые поля записи
func (r *Repository) Update(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("client_id", apt.ClientID).
		Set("staff_id", apt.StaffID).
		Set("service_id", apt.ServiceID).
		Set("location_id", apt.LocationID).
		Set("start_time", apt.StartTime).
		Set("end_time", apt.EndTime).
		Set("status", apt.Status).
		Set("payment_status", apt.PaymentStatus).
		Set("total_amount", apt.TotalAmount).
		Set("notes", apt.Notes).
		Set("booking_method", apt.BookingMethod).
		Set("recurring_group_id", apt.RecurringGroupID).
		Where(squirrel.Eq{"id": apt.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrAppointmentNotFound
	}

	return apt, nil
}

// Delete удаляет запись (явное удаление, не отмена)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// MoveToCancelled переносит запись в архив отменённых и удаляет оригинал.
// Обе операции должны выполняться в одной транзакции - вызывающая сторона
// оборачивает вызов в txManager.Do.
func (r *Repository) MoveToCancelled(ctx context.Context, id int64, reason string, cancelledBy *int64, cancelledByRole string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	apt, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Insert("cancelled_appointments").
		Columns(
			"original_appointment_id",
			"client_id",
			"staff_id",
			"service_id",
			"location_id",
			"start_time",
			"end_time",
			"total_amount",
			"notes",
			"cancellation_reason",
			"cancelled_by",
			"cancelled_by_role",
			"payment_status",
			"original_created_at",
		).
		Values(
			apt.ID,
			apt.ClientID,
			apt.StaffID,
			apt.ServiceID,
			apt.LocationID,
			apt.StartTime,
			apt.EndTime,
			apt.TotalAmount,
			apt.Notes,
			reason,
			cancelledBy,
			cancelledByRole,
			apt.PaymentStatus,
			apt.CreatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MoveToCancelled - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MoveToCancelled - insert cancelled record: %v", ErrExecQuery, err)
	}

	return r.Delete(ctx, id)
}

// SetAddOns заменяет набор дополнительных услуг записи
// Пустой список очищает дополнения
func (r *Repository) SetAddOns(ctx context.Context, appointmentID int64, addOnServiceIDs []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_add_ons").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAddOns - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetAddOns - clear add-ons: %v", ErrExecQuery, err)
	}

	if len(addOnServiceIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("appointment_add_ons").
		Columns("appointment_id", "service_id")
	for _, serviceID := range addOnServiceIDs {
		insertBuilder = insertBuilder.Values(appointmentID, serviceID)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAddOns - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetAddOns - insert add-ons: %v", ErrExecQuery, err)
	}

	return nil
}

// scanAppointment сканирует одну строку
func scanAppointment(row *sql.Row) (*domain.Appointment, error) {
	var apt domain.Appointment
	var createdAt sql.NullTime

	err := row.Scan(
		&apt.ID,
		&apt.ClientID,
		&apt.StaffID,
		&apt.ServiceID,
		&apt.LocationID,
		&apt.StartTime,
		&apt.EndTime,
		&apt.Status,
		&apt.PaymentStatus,
		&apt.TotalAmount,
		&apt.Notes,
		&apt.BookingMethod,
		&apt.CreatedBy,
		&apt.RecurringGroupID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	apt.CreatedAt = createdAt.Time
	return &apt, nil
}

// scanAppointments сканирует все строки результата
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var apt domain.Appointment
		var createdAt sql.NullTime

		err := rows.Scan(
			&apt.ID,
			&apt.ClientID,
			&apt.StaffID,
			&apt.ServiceID,
			&apt.LocationID,
			&apt.StartTime,
			&apt.EndTime,
			&apt.Status,
			&apt.PaymentStatus,
			&apt.TotalAmount,
			&apt.Notes,
			&apt.BookingMethod,
			&apt.CreatedBy,
			&apt.RecurringGroupID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan appointment row: %v", ErrScanRow, err)
		}

		apt.CreatedAt = createdAt.Time
		appointments = append(appointments, &apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
