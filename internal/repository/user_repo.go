package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"swiftcare/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindDoctorProfile(ctx context.Context, id string) (*model.DoctorProfile, error)
	UpdateDoctorProfile(ctx context.Context, id string, req model.DoctorUpdateRequest) error
	SearchDoctors(ctx context.Context, filters model.DoctorFilters) ([]model.DoctorProfile, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (id, email, first_name, last_name, password_hash, role, specialization, is_active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, sql,
		user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.Role, user.Specialization, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email. Returns nil, nil when absent;
// the service layer decides whether that is an error.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, first_name, last_name, password_hash, role, specialization, is_active, created_at, updated_at
            FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&user.Role, &user.Specialization, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, email, first_name, last_name, password_hash, role, specialization, is_active, created_at, updated_at
            FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&user.Role, &user.Specialization, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindDoctorProfile retrieves the extended profile of a doctor account
func (r *userRepository) FindDoctorProfile(ctx context.Context, id string) (*model.DoctorProfile, error) {
	p := &model.DoctorProfile{}
	var availabilityJSON []byte
	sql := `SELECT id, email, first_name, last_name, role, specialization, is_active, created_at, updated_at,
                   bio, consultation_fee, availability, is_available
            FROM users WHERE id = $1 AND role = 'doctor'`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Role, &p.Specialization,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.Bio, &p.ConsultationFee, &availabilityJSON, &p.IsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find doctor profile: %w", err)
	}
	if err := json.Unmarshal(availabilityJSON, &p.Availability); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return p, nil
}

// UpdateDoctorProfile applies a partial patch to a doctor account
func (r *userRepository) UpdateDoctorProfile(ctx context.Context, id string, req model.DoctorUpdateRequest) error {
	var setClauses []string
	args := []interface{}{}
	argCount := 1

	if req.Bio != nil {
		setClauses = append(setClauses, fmt.Sprintf("bio = $%d", argCount))
		args = append(args, *req.Bio)
		argCount++
	}
	if req.ConsultationFee != nil {
		setClauses = append(setClauses, fmt.Sprintf("consultation_fee = $%d", argCount))
		args = append(args, *req.ConsultationFee)
		argCount++
	}
	if req.Availability != nil {
		availabilityJSON, err := json.Marshal(req.Availability)
		if err != nil {
			return fmt.Errorf("failed to encode availability: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("availability = $%d", argCount))
		args = append(args, availabilityJSON)
		argCount++
	}
	if req.Specialization != nil {
		setClauses = append(setClauses, fmt.Sprintf("specialization = $%d", argCount))
		args = append(args, *req.Specialization)
		argCount++
	}
	if req.IsAvailable != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_available = $%d", argCount))
		args = append(args, *req.IsAvailable)
		argCount++
	}

	if len(setClauses) == 0 {
		return nil // nothing to patch
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	sql := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d AND role = 'doctor'`,
		strings.Join(setClauses, ", "), argCount)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SearchDoctors retrieves doctor profiles matching the given filters
func (r *userRepository) SearchDoctors(ctx context.Context, filters model.DoctorFilters) ([]model.DoctorProfile, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, email, first_name, last_name, role, specialization, is_active, created_at, updated_at,
                                     bio, consultation_fee, availability, is_available
                              FROM users WHERE role = 'doctor'`)
	args := []interface{}{}
	argCount := 1

	if filters.Specialization != nil && *filters.Specialization != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND specialization ILIKE $%d", argCount))
		args = append(args, "%"+*filters.Specialization+"%")
		argCount++
	}
	if filters.MaxFee != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND consultation_fee <= $%d", argCount))
		args = append(args, *filters.MaxFee)
		argCount++
	}
	if filters.Available != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND is_available = $%d", argCount))
		args = append(args, *filters.Available)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR bio ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY last_name, first_name")

	if filters.Limit <= 0 {
		filters.Limit = 10
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []model.DoctorProfile
	for rows.Next() {
		var p model.DoctorProfile
		var availabilityJSON []byte
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Role, &p.Specialization,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&p.Bio, &p.ConsultationFee, &availabilityJSON, &p.IsAvailable,
		); err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		if err := json.Unmarshal(availabilityJSON, &p.Availability); err != nil {
			return nil, fmt.Errorf("failed to decode availability: %w", err)
		}
		doctors = append(doctors, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor rows: %w", err)
	}
	return doctors, nil
}
