package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/hvac-backend/internal/model"
)

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, customerID *int, page model.PageRequest) ([]model.Equipment, int, error)
	ListByCustomer(ctx context.Context, customerID int) ([]model.Equipment, error)
	DueForMaintenance(ctx context.Context, withinDays int) ([]model.Equipment, error)
	GetByID(ctx context.Context, id int) (*model.Equipment, error)
	Create(ctx context.Context, e *model.Equipment) error
	Update(ctx context.Context, e *model.Equipment) error
	Delete(ctx context.Context, id int) error
}

type EquipmentRepository struct {
	DB *sql.DB
}

const equipmentColumns = `e.id, e.customer_id, e.type, e.brand, e.model, e.serial_number, e.installation_date,
        e.warranty_expiry, e.last_maintenance, e.maintenance_due, e.notes, e.created_at, e.updated_at`

func scanEquipment(row rowScanner, e *model.Equipment, extra ...interface{}) error {
	dest := []interface{}{&e.ID, &e.CustomerID, &e.Type, &e.Brand, &e.Model, &e.SerialNumber, &e.InstallationDate,
		&e.WarrantyExpiry, &e.LastMaintenance, &e.MaintenanceDue, &e.Notes, &e.CreatedAt, &e.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func (r *EquipmentRepository) List(ctx context.Context, customerID *int, page model.PageRequest) ([]model.Equipment, int, error) {
	w := newWhere()
	if customerID != nil {
		w.add("e.customer_id = ?", *customerID)
	}

	limit, args := w.page(page.Limit, page.Offset())
	query := `SELECT ` + equipmentColumns + `, c.first_name || ' ' || c.last_name
        FROM equipment e
        INNER JOIN customers c ON c.id = e.customer_id` + w.sql + ` ORDER BY e.created_at DESC` + limit

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.Equipment{}
	for rows.Next() {
		var e model.Equipment
		if err := scanEquipment(rows, &e, &e.CustomerName); err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := w.count(ctx, r.DB, "equipment e")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *EquipmentRepository) ListByCustomer(ctx context.Context, customerID int) ([]model.Equipment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment e WHERE e.customer_id = $1 ORDER BY e.installation_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Equipment{}
	for rows.Next() {
		var e model.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// DueForMaintenance returns equipment whose maintenance date falls within the
// next withinDays days (overdue items included), with the owner's contact details.
func (r *EquipmentRepository) DueForMaintenance(ctx context.Context, withinDays int) ([]model.Equipment, error) {
	query := `SELECT ` + equipmentColumns + `, c.first_name || ' ' || c.last_name, c.email, c.phone
        FROM equipment e
        INNER JOIN customers c ON c.id = e.customer_id
        WHERE e.maintenance_due IS NOT NULL
          AND e.maintenance_due <= CURRENT_DATE + $1 * INTERVAL '1 day'
        ORDER BY e.maintenance_due ASC`

	rows, err := r.DB.QueryContext(ctx, query, withinDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Equipment{}
	for rows.Next() {
		var e model.Equipment
		if err := scanEquipment(rows, &e, &e.CustomerName, &e.CustomerEmail, &e.CustomerPhone); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int) (*model.Equipment, error) {
	var e model.Equipment
	row := r.DB.QueryRowContext(ctx, `SELECT `+equipmentColumns+`, c.first_name || ' ' || c.last_name
        FROM equipment e
        INNER JOIN customers c ON c.id = e.customer_id
        WHERE e.id = $1`, id)
	if err := scanEquipment(row, &e, &e.CustomerName); err != nil {
		return nil, notFound(err, "Equipment", id)
	}
	return &e, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, e *model.Equipment) error {
	query := `
        INSERT INTO equipment (customer_id, type, brand, model, serial_number, installation_date, warranty_expiry, last_maintenance, maintenance_due, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRowContext(ctx, query,
		e.CustomerID, e.Type, e.Brand, e.Model, e.SerialNumber, e.InstallationDate, e.WarrantyExpiry, e.LastMaintenance, e.MaintenanceDue, e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EquipmentRepository) Update(ctx context.Context, e *model.Equipment) error {
	query := `
        UPDATE equipment
        SET customer_id=$1, type=$2, brand=$3, model=$4, serial_number=$5, installation_date=$6,
            warranty_expiry=$7, last_maintenance=$8, maintenance_due=$9, notes=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		e.CustomerID, e.Type, e.Brand, e.Model, e.SerialNumber, e.InstallationDate, e.WarrantyExpiry, e.LastMaintenance, e.MaintenanceDue, e.Notes, e.ID,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	return notFound(err, "Equipment", e.ID)
}

func (r *EquipmentRepository) Delete(ctx context.Context, id int) error {
	return execAffecting(ctx, r.DB, "Equipment", id, `DELETE FROM equipment WHERE id = $1`, id)
}
