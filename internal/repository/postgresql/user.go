package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	userSelect = `
		SELECT u.id, u.username, u.email, u.full_name, u.password_hash, u.google_id,
			   u.role, u.department_id, u.salary, u.created_at, u.updated_at,
			   d.name
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
	`
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row scanner) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.GoogleID,
		&role,
		&u.DepartmentID,
		&u.Salary,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DepartmentName,
	)
	if err != nil {
		return user.User{}, err
	}
	if u.Role, err = access.ParseRole(role); err != nil {
		return user.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, userSelect+" WHERE u.id = $1", id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, userSelect+" WHERE LOWER(u.email) = LOWER($1)", email))
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	return scanUser(q.QueryRow(ctx, userSelect+" WHERE LOWER(u.username) = LOWER($1)", username))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, scope access.Scope, filter user.ListUserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	scopeClause, args, argIdx := scopeCondition(scope, "u.department_id", "u.id", 1)
	conditions := []string{scopeClause}

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(u.full_name ILIKE $%d OR u.username ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argIdx))
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("u.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users u WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY u.full_name ASC, u.id ASC LIMIT $%d OFFSET $%d",
		userSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ListByScope implements user.UserRepository.
func (r *userRepositoryImpl) ListByScope(ctx context.Context, scope access.Scope) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	scopeClause, args, _ := scopeCondition(scope, "u.department_id", "u.id", 1)
	rows, err := q.Query(ctx, userSelect+" WHERE "+scopeClause+" ORDER BY u.full_name ASC, u.id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (username, email, full_name, password_hash, role, department_id, salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := q.QueryRow(ctx, query,
		newUser.Username,
		newUser.Email,
		newUser.FullName,
		newUser.PasswordHash,
		newUser.Role.String(),
		newUser.DepartmentID,
		newUser.Salary,
	).Scan(&id)
	if err != nil {
		return user.User{}, translateUserConstraint(err)
	}

	return r.GetByID(ctx, id)
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.DepartmentID != nil {
		updates["department_id"] = *req.DepartmentID
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING id", strings.Join(setClauses, ", "), i)
	args = append(args, id)

	var updatedID int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, translateUserConstraint(err)
	}

	return r.GetByID(ctx, updatedID)
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET google_id = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2) AND (google_id IS NULL OR google_id = $1)
		RETURNING id
	`
	var id int64
	if err := q.QueryRow(ctx, query, googleID, email).Scan(&id); err != nil {
		return user.User{}, err
	}
	return r.GetByID(ctx, id)
}

// DeductSalary implements user.UserRepository.
func (r *userRepositoryImpl) DeductSalary(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET salary = GREATEST(salary - $1::numeric, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING salary
	`
	var salary decimal.Decimal
	if err := q.QueryRow(ctx, query, amount, id).Scan(&salary); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, user.ErrUserNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("failed to deduct salary: %w", err)
	}
	return salary, nil
}

func translateUserConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "users_email_key":
		return user.ErrUserEmailExists
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "users_username_key":
		return user.ErrUsernameExists
	case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == "users_department_id_fkey":
		return department.ErrDepartmentNotFound
	}
	return err
}
