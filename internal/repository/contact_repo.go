package repository

import (
	"context"
	"database/sql"

	"cyberacademy/internal/model"
)

type ContactRepository interface {
	CreateContactMessage(ctx context.Context, m *model.ContactMessage) error
}

type contactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) CreateContactMessage(ctx context.Context, m *model.ContactMessage) error {
	query := `INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3) RETURNING id, created_at`
	return conn(ctx, r.db).QueryRowContext(ctx, query, m.Name, m.Email, m.Message).Scan(&m.ID, &m.CreatedAt)
}
