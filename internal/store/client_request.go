// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wedsite/internal/models"
)

// ClientRequestStore handles partner client intake and the admin approval
// queue.
type ClientRequestStore struct {
	db *sql.DB
}

// NewClientRequestStore creates a new ClientRequestStore with the given database connection.
func NewClientRequestStore(db *sql.DB) *ClientRequestStore {
	return &ClientRequestStore{db: db}
}

const requestColumns = `id, partner_id, wedding_id, bride_name, groom_name, email, phone,
	template_id, status, couple_user_id, created_at, decided_at`

func scanRequest(row rowScanner) (*models.ClientRequest, error) {
	var r models.ClientRequest
	err := row.Scan(
		&r.ID, &r.PartnerID, &r.WeddingID, &r.BrideName, &r.GroomName, &r.Email, &r.Phone,
		&r.TemplateID, &r.Status, &r.CoupleUserID, &r.CreatedAt, &r.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Intake creates the wedding document and its pending-approval request in
// one transaction. The request's WeddingID is taken from the new wedding.
func (s *ClientRequestStore) Intake(ctx context.Context, w *models.Wedding, r *models.ClientRequest) (*models.Wedding, *models.ClientRequest, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("intake begin: %w", err)
	}
	defer tx.Rollback()

	created, err := insertWedding(ctx, tx, w)
	if err != nil {
		return nil, nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO client_requests (partner_id, wedding_id, bride_name, groom_name, email, phone, template_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+requestColumns,
		r.PartnerID, created.ID, r.BrideName, r.GroomName, r.Email, r.Phone, r.TemplateID,
	)
	req, err := scanRequest(row)
	if err != nil {
		return nil, nil, fmt.Errorf("create client request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("intake commit: %w", err)
	}
	return created, req, nil
}

// FindByID retrieves a request by id.
func (s *ClientRequestStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ClientRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM client_requests WHERE id = $1`, id)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client request: %w", err)
	}
	return r, nil
}

// FindByCouple returns the approved request that provisioned a couple
// account. It links the couple to their wedding.
func (s *ClientRequestStore) FindByCouple(ctx context.Context, userID uuid.UUID) (*models.ClientRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM client_requests WHERE couple_user_id = $1`, userID)
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client request by couple: %w", err)
	}
	return r, nil
}

// ListPending returns the requests awaiting an admin decision, oldest first.
func (s *ClientRequestStore) ListPending(ctx context.Context) ([]models.ClientRequest, error) {
	return s.list(ctx, `WHERE status = 'pending' ORDER BY created_at ASC`)
}

// ListByPartner returns every request a partner submitted, newest first.
func (s *ClientRequestStore) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.ClientRequest, error) {
	return s.list(ctx, `WHERE partner_id = $1 ORDER BY created_at DESC`, partnerID)
}

func (s *ClientRequestStore) list(ctx context.Context, where string, args ...any) ([]models.ClientRequest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+requestColumns+` FROM client_requests `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list client requests: %w", err)
	}
	defer rows.Close()

	var out []models.ClientRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Approve provisions the couple account and marks the request approved in
// one transaction. account.PasswordHash must already be a bcrypt hash.
// Returns ErrNotFound if the request is missing or already decided, and
// ErrDuplicate if the account email is taken.
func (s *ClientRequestStore) Approve(ctx context.Context, id uuid.UUID, account *models.User) (*models.ClientRequest, *models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("approve begin: %w", err)
	}
	defer tx.Rollback()

	var pending bool
	err = tx.QueryRowContext(ctx,
		`SELECT status = 'pending' FROM client_requests WHERE id = $1 FOR UPDATE`, id,
	).Scan(&pending)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !pending) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("approve lock: %w", err)
	}

	u := &models.User{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, phone, role)
		VALUES ($1, $2, $3, $4, 'couple')
		RETURNING `+userColumns,
		account.Email, account.PasswordHash, account.DisplayName, account.Phone,
	).Scan(userFields(u)...)
	if isUniqueViolation(err) {
		return nil, nil, fmt.Errorf("approve: email %q: %w", account.Email, ErrDuplicate)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("approve create account: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE client_requests
		SET status = 'approved', couple_user_id = $1, decided_at = NOW()
		WHERE id = $2
		RETURNING `+requestColumns, u.ID, id)
	r, err := scanRequest(row)
	if err != nil {
		return nil, nil, fmt.Errorf("approve update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("approve commit: %w", err)
	}
	return r, u, nil
}

// Reject deletes a pending request. The wedding document it points to is
// left untouched.
func (s *ClientRequestStore) Reject(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM client_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return fmt.Errorf("reject client request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject client request: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
