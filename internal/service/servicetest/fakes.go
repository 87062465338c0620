// Package servicetest provides in-memory repositories shared by service tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Transactor runs fn directly and counts calls.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

// Users is a map-backed user.UserRepository.
type Users struct {
	mu     sync.Mutex
	byID   map[int64]user.User
	nextID int64
}

var _ user.UserRepository = (*Users)(nil)

func NewUsers(users ...user.User) *Users {
	u := &Users{byID: make(map[int64]user.User), nextID: 1}
	for _, usr := range users {
		u.Put(usr)
	}
	return u
}

// Put stores usr, assigning an ID when it has none.
func (u *Users) Put(usr user.User) user.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	if usr.ID == 0 {
		usr.ID = u.nextID
	}
	if usr.ID >= u.nextID {
		u.nextID = usr.ID + 1
	}
	u.byID[usr.ID] = usr
	return usr
}

// Delete removes the user with id, if any.
func (u *Users) Delete(id int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.byID, id)
}

func (u *Users) GetByID(_ context.Context, id int64) (user.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	usr, ok := u.byID[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return usr, nil
}

func (u *Users) find(match func(user.User) bool) (user.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, usr := range u.byID {
		if match(usr) {
			return usr, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (u *Users) GetByEmail(_ context.Context, email string) (user.User, error) {
	return u.find(func(usr user.User) bool { return strings.EqualFold(usr.Email, email) })
}

func (u *Users) GetByUsername(_ context.Context, username string) (user.User, error) {
	return u.find(func(usr user.User) bool { return strings.EqualFold(usr.Username, username) })
}

func (u *Users) inScope(scope access.Scope) []user.User {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]user.User, 0)
	for _, usr := range u.byID {
		switch {
		case scope.All:
		case scope.DepartmentID != nil:
			if usr.DepartmentID == nil || *usr.DepartmentID != *scope.DepartmentID {
				continue
			}
		case scope.UserID != nil:
			if usr.ID != *scope.UserID {
				continue
			}
		default:
			continue
		}
		out = append(out, usr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (u *Users) List(_ context.Context, scope access.Scope, filter user.ListUserFilter) ([]user.User, int64, error) {
	all := u.inScope(scope)
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (u *Users) ListByScope(_ context.Context, scope access.Scope) ([]user.User, error) {
	return u.inScope(scope), nil
}

func (u *Users) Create(_ context.Context, newUser user.User) (user.User, error) {
	if _, err := u.GetByEmail(context.Background(), newUser.Email); err == nil {
		return user.User{}, user.ErrUserEmailExists
	}
	newUser.ID = 0
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	return u.Put(newUser), nil
}

func (u *Users) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error) {
	usr, err := u.GetByID(ctx, id)
	if err != nil {
		return user.User{}, user.ErrUserNotFound
	}
	if req.FullName != nil {
		usr.FullName = *req.FullName
	}
	if req.Email != nil {
		usr.Email = *req.Email
	}
	if req.Role != nil {
		role, err := access.ParseRole(*req.Role)
		if err != nil {
			return user.User{}, err
		}
		usr.Role = role
	}
	if req.DepartmentID != nil {
		usr.DepartmentID = req.DepartmentID
	}
	if req.Salary != nil {
		usr.Salary = *req.Salary
	}
	return u.Put(usr), nil
}

func (u *Users) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	usr, err := u.GetByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if usr.GoogleID != nil && *usr.GoogleID != googleID {
		return user.User{}, pgx.ErrNoRows
	}
	usr.GoogleID = &googleID
	return u.Put(usr), nil
}

func (u *Users) DeductSalary(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	usr, err := u.GetByID(ctx, id)
	if err != nil {
		return decimal.Decimal{}, user.ErrUserNotFound
	}
	usr.Salary = decimal.Max(usr.Salary.Sub(amount), decimal.Zero)
	u.Put(usr)
	return usr.Salary, nil
}

// RefreshTokens is a map-backed auth.RefreshTokenRepository. Tokens it never
// stored count as revoked.
type RefreshTokens struct {
	mu      sync.Mutex
	tokens  map[string]int64
	revoked map[string]bool
}

var _ auth.RefreshTokenRepository = (*RefreshTokens)(nil)

func NewRefreshTokens() *RefreshTokens {
	return &RefreshTokens{tokens: map[string]int64{}, revoked: map[string]bool{}}
}

func (f *RefreshTokens) CreateRefreshToken(_ context.Context, userID int64, token string, _ int64, _ auth.SessionTrackingRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = userID
	return nil
}

func (f *RefreshTokens) IsRefreshTokenRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, known := f.tokens[token]
	return !known || f.revoked[token], nil
}

func (f *RefreshTokens) RevokeRefreshToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
	return nil
}

func (f *RefreshTokens) RevokeAllForUser(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, id := range f.tokens {
		if id == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func (f *RefreshTokens) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Mailer records every message instead of sending it.
type Mailer struct {
	mu             sync.Mutex
	TaskAssigned   []email.TaskAssignedData
	LeaveDecisions []email.LeaveDecisionData
	Recipients     []string
	Err            error
}

var _ email.Mailer = (*Mailer)(nil)

func (m *Mailer) SendTaskAssigned(_ context.Context, to string, data email.TaskAssignedData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TaskAssigned = append(m.TaskAssigned, data)
	m.Recipients = append(m.Recipients, to)
	return m.Err
}

func (m *Mailer) SendLeaveDecision(_ context.Context, to string, data email.LeaveDecisionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaveDecisions = append(m.LeaveDecisions, data)
	m.Recipients = append(m.Recipients, to)
	return m.Err
}

func Ptr[T any](v T) *T { return &v }
