package org

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quinncodes/orgspace/pkg/pg"
)

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed organization store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) ResolveBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*Organization, *Role, error) {
	const query = `
		SELECT o.id, o.slug, o.name, o.created_at, m.role
		FROM organizations o
		LEFT JOIN memberships m ON m.organization_id = o.id AND m.user_id = $2
		WHERE o.slug = $1`

	var (
		o    Organization
		role *string
	)
	err := s.pool.QueryRow(ctx, query, slug, userID).Scan(&o.ID, &o.Slug, &o.Name, &o.CreatedAt, &role)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if role == nil {
		return &o, nil, nil
	}
	r := Role(*role)
	return &o, &r, nil
}

func (s *PGStore) Create(ctx context.Context, o *Organization, ownerID uuid.UUID) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO organizations (id, slug, name, created_at) VALUES ($1, $2, $3, $4)`,
			o.ID, o.Slug, o.Name, o.CreatedAt,
		); err != nil {
			if pg.IsDuplicateKey(err) {
				return ErrSlugTaken
			}
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO memberships (user_id, organization_id, role, created_at) VALUES ($1, $2, $3, $4)`,
			ownerID, o.ID, RoleAdmin, o.CreatedAt,
		); err != nil {
			return err
		}

		return nil
	})
}

func (s *PGStore) UserOrganizations(ctx context.Context, userID uuid.UUID) ([]Organization, error) {
	const query = `
		SELECT o.id, o.slug, o.name, o.created_at
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Slug, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}

var _ Store = (*PGStore)(nil)
