package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ClientRepository implements port.ClientRepository
type ClientRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB, logger *zap.Logger) port.ClientRepository {
	return &ClientRepository{db: db, logger: logger}
}

const clientColumns = `id, name, cnpj, cpf, address, phone, email, created_at, updated_at`

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, client *entity.Client) error {
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (name, cnpj, cpf, address, phone, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		client.Name,
		nullString(client.CNPJ),
		nullString(client.CPF),
		nullString(client.Address),
		nullString(client.Phone),
		client.Email,
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "client"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create client", zap.String("email", client.Email), zap.Error(err))
		return fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	client.ID = id
	return nil
}

// GetByID retrieves a client by id
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`

	client, err := r.scanClient(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Client", id)
	}
	if err != nil {
		r.logger.Error("Failed to get client", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// List returns all clients, newest first
func (r *ClientRepository) List(ctx context.Context) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*entity.Client{}
	for rows.Next() {
		client, err := r.scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// Update persists the client's mutable fields
func (r *ClientRepository) Update(ctx context.Context, client *entity.Client) error {
	client.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE clients
		SET name = ?, cnpj = ?, cpf = ?, address = ?, phone = ?, email = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		client.Name,
		nullString(client.CNPJ),
		nullString(client.CPF),
		nullString(client.Address),
		nullString(client.Phone),
		client.Email,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		if cErr := translateConstraint(err, "client"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to update client", zap.Int64("id", client.ID), zap.Error(err))
		return fmt.Errorf("failed to update client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Client", client.ID)
	}
	return nil
}

// Delete removes a client. Fails with a conflict while machines or
// services still reference it (FK RESTRICT).
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		if cErr := translateConstraint(err, "client"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to delete client", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete client: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Client", id)
	}
	return nil
}

func (r *ClientRepository) scanClient(row rowScanner) (*entity.Client, error) {
	var client entity.Client
	var cnpj, cpf, address, phone sql.NullString

	err := row.Scan(
		&client.ID,
		&client.Name,
		&cnpj,
		&cpf,
		&address,
		&phone,
		&client.Email,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.CNPJ = cnpj.String
	client.CPF = cpf.String
	client.Address = address.String
	client.Phone = phone.String
	return &client, nil
}

// Verify interface compliance
var _ port.ClientRepository = (*ClientRepository)(nil)
