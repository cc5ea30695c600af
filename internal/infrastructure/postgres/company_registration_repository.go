package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.CompanyRegistrationRepository = (*CompanyRegistrationRepo)(nil)

// CompanyRegistrationRepo solicitudes de registro de empresa sobre PostgreSQL.
type CompanyRegistrationRepo struct {
	q Querier
}

// NewCompanyRegistrationRepository construye el adaptador (pool o tx).
func NewCompanyRegistrationRepository(q Querier) *CompanyRegistrationRepo {
	return &CompanyRegistrationRepo{q: q}
}

const registrationColumns = `id, user_id, company_name, description, address, logo, facebook_link, github_link,
	verification_document, rejection_reason, status, created_at, updated_at, created_by, updated_by`

func scanRegistration(row rowScanner) (*entity.CompanyRegistration, error) {
	var (
		reg                                            entity.CompanyRegistration
		logo, facebook, github, document, reason, upBy *string
	)
	err := row.Scan(&reg.ID, &reg.UserID, &reg.CompanyName, &reg.Description, &reg.Address,
		&logo, &facebook, &github, &document, &reason, &reg.Status,
		&reg.CreatedAt, &reg.UpdatedAt, &reg.CreatedBy, &upBy)
	if err != nil {
		return nil, err
	}
	reg.Logo = derefString(logo)
	reg.FacebookLink = derefString(facebook)
	reg.GithubLink = derefString(github)
	reg.VerificationDocument = derefString(document)
	reg.RejectionReason = derefString(reason)
	reg.UpdatedBy = derefString(upBy)
	return &reg, nil
}

// Create persiste la solicitud y asigna su ID.
func (r *CompanyRegistrationRepo) Create(ctx context.Context, reg *entity.CompanyRegistration) error {
	query := `
		INSERT INTO company_registrations (user_id, company_name, description, address, logo, facebook_link,
			github_link, verification_document, status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		reg.UserID, reg.CompanyName, reg.Description, reg.Address, nullString(reg.Logo),
		nullString(reg.FacebookLink), nullString(reg.GithubLink), nullString(reg.VerificationDocument),
		reg.Status, reg.CreatedAt, reg.UpdatedAt, reg.CreatedBy,
	).Scan(&reg.ID)
	if err != nil {
		return fmt.Errorf("insert company registration: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud por ID.
func (r *CompanyRegistrationRepo) GetByID(ctx context.Context, id int64) (*entity.CompanyRegistration, error) {
	reg, err := scanRegistration(r.q.QueryRow(ctx, `SELECT `+registrationColumns+` FROM company_registrations WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company registration: %w", err)
	}
	return reg, nil
}

// Update guarda estado, motivo de rechazo y auditoría.
func (r *CompanyRegistrationRepo) Update(ctx context.Context, reg *entity.CompanyRegistration) error {
	query := `
		UPDATE company_registrations
		SET company_name = $2, description = $3, address = $4, logo = $5, facebook_link = $6, github_link = $7,
			verification_document = $8, rejection_reason = $9, status = $10, updated_at = $11, updated_by = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		reg.ID, reg.CompanyName, reg.Description, reg.Address, nullString(reg.Logo),
		nullString(reg.FacebookLink), nullString(reg.GithubLink), nullString(reg.VerificationDocument),
		nullString(reg.RejectionReason), reg.Status, reg.UpdatedAt, nullString(reg.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("update company registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la solicitud.
func (r *CompanyRegistrationRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM company_registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete company registration: %w", err)
	}
	return nil
}

// List pagina todas las solicitudes, más recientes primero.
func (r *CompanyRegistrationRepo) List(ctx context.Context, limit, offset int) ([]*entity.CompanyRegistration, error) {
	return r.list(ctx, `SELECT `+registrationColumns+` FROM company_registrations
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByUser pagina las solicitudes de un usuario.
func (r *CompanyRegistrationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.CompanyRegistration, error) {
	return r.list(ctx, `SELECT `+registrationColumns+` FROM company_registrations WHERE user_id = $3
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset, userID)
}

func (r *CompanyRegistrationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CompanyRegistration, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list company registrations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CompanyRegistration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company registration: %w", err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}
