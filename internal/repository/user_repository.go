package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// Dialect selects placeholder style and duplicate-key detection.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

const userColumns = "id,username,email,password_hash,role,is_active,last_login,created_at,updated_at"

// UserRepo is the SQL-backed UserDirectory mirroring the 'users' table.
type UserRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewUserRepo(db *sql.DB, d Dialect) *UserRepo { return &UserRepo{DB: db, Dialect: d} }

// rebind rewrites ? placeholders to $n for Postgres.
func (r *UserRepo) rebind(q string) string {
	if r.Dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Create inserts user and returns it with its new ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if err := PrepareUser(u); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.DB.ExecContext(ctx, r.rebind(
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?,?)"),
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.LastLogin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var (
		u         model.User
		role      string
		lastLogin sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, r.rebind(q), arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Role = model.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// isDuplicateKey recognizes unique violations from both drivers:
// MySQL error 1062 and Postgres SQLSTATE 23505.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}
