package database

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-while/go-words/internal/models"
)

// User Management Functions

const userColumns = `id, name, password, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Password, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// InsertUser creates a new user with bcrypt password hashing
func (db *Database) InsertUser(ctx context.Context, name, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := retryableExec(ctx, db.mainDB, `INSERT INTO users (name, password) VALUES (?, ?)`, name, string(hashedPassword))
	if err != nil {
		return nil, mapWriteError("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return db.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID
func (db *Database) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(ctx, db.mainDB, `SELECT `+userColumns+` FROM users WHERE id = ?`,
		[]interface{}{id}, &u.ID, &u.Name, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("get user %d", id), err)
	}
	return &u, nil
}

// GetUserByName retrieves a user by name
func (db *Database) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(ctx, db.mainDB, `SELECT `+userColumns+` FROM users WHERE name = ?`,
		[]interface{}{name}, &u.ID, &u.Name, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("get user %q", name), err)
	}
	return &u, nil
}

// ListUsers retrieves all users ordered by name
func (db *Database) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := retryableQuery(ctx, db.mainDB, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser changes name and/or password of an existing user. Nil fields are left untouched.
func (db *Database) UpdateUser(ctx context.Context, id int64, name, password *string) (*models.User, error) {
	var hashedPassword string
	if password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashedPassword = string(h)
	}

	err := retryableTransactionExecContext(ctx, db.mainDB, func(tx *sql.Tx) error {
		var exists int64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ?`, id).Scan(&exists); err != nil {
			return mapReadError(fmt.Sprintf("update user %d", id), err)
		}
		if name != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET name = ? WHERE id = ?`, *name, id); err != nil {
				return mapWriteError(fmt.Sprintf("update user %d", id), err)
			}
		}
		if password != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hashedPassword, id); err != nil {
				return mapWriteError(fmt.Sprintf("update user %d", id), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

// DeleteUser removes a user and, by cascade, the user's catalogs and words
func (db *Database) DeleteUser(ctx context.Context, id int64) error {
	res, err := retryableExec(ctx, db.mainDB, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapDeleteError(fmt.Sprintf("delete user %d", id), err)
	}
	return expectAffected(fmt.Sprintf("delete user %d", id), res)
}

// VerifyUserPassword verifies a user's password against the stored bcrypt hash
func (db *Database) VerifyUserPassword(ctx context.Context, name, password string) (*models.User, error) {
	user, err := db.GetUserByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid password")
	}

	return user, nil
}
