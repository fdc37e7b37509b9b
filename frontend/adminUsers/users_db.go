package adminusers

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"stockdesk/frontend/login"
	"stockdesk/infrastructure/argon"
	"stockdesk/infrastructure/rbac"
	"stockdesk/infrastructure/sqlite"
	"stockdesk/models"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("role must be admin or operator")
	ErrUsernameExists   = errors.New("username already exists")
)

func LoadUsersPageData(ctx context.Context, db *sqlite.DB) ([]UserView, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT id, username, role FROM users ORDER BY id ASC").Scan(ctx, &users)
	})
	return users, err
}

func CreateUser(ctx context.Context, db *sqlite.DB, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrPasswordRequired
	}
	if role != rbac.RoleAdmin && role != rbac.RoleOperator {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(password); err != nil {
		return err
	}

	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var exists int
		if err := tx.NewRaw("SELECT COUNT(1) FROM users WHERE LOWER(username) = ?", strings.ToLower(username)).Scan(ctx, &exists); err != nil {
			return err
		}
		if exists > 0 {
			return ErrUsernameExists
		}
		user := &models.User{Username: username, PasswordHash: hash, Role: role}
		_, err := tx.NewInsert().Model(user).Exec(ctx)
		return err
	})
}
