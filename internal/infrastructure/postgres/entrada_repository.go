package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

var _ repository.EntradaRepository = (*EntradaRepo)(nil)

// EntradaRepo implementación de EntradaRepository sobre PostgreSQL.
type EntradaRepo struct {
	q Querier
}

// NewEntradaRepository construye el adaptador de entradas. Pasar pool o tx.
func NewEntradaRepository(q Querier) *EntradaRepo {
	return &EntradaRepo{q: q}
}

// Create inserta la entrada.
func (r *EntradaRepo) Create(ctx context.Context, e *entity.Entrada) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO entradas (id, proveedor_id, estado, fecha, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ProveedorID, e.Estado, e.Fecha, e.CreatedAt, e.CreatedBy)
	if err != nil {
		return fmt.Errorf("create entrada: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada; (nil, nil) si no existe.
func (r *EntradaRepo) GetByID(ctx context.Context, id string) (*entity.Entrada, error) {
	var e entity.Entrada
	err := r.q.QueryRow(ctx, `
		SELECT id, proveedor_id, estado, fecha, created_at, created_by
		FROM entradas WHERE id = $1`, id).Scan(
		&e.ID, &e.ProveedorID, &e.Estado, &e.Fecha, &e.CreatedAt, &e.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entrada: %w", err)
	}
	return &e, nil
}

// List entradas paginadas, más reciente primero.
func (r *EntradaRepo) List(ctx context.Context, limit, offset int) ([]*entity.Entrada, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, proveedor_id, estado, fecha, created_at, created_by
		FROM entradas ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list entradas: %w", err)
	}
	defer rows.Close()

	var entradas []*entity.Entrada
	for rows.Next() {
		var e entity.Entrada
		if err := rows.Scan(&e.ID, &e.ProveedorID, &e.Estado, &e.Fecha, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan entrada: %w", err)
		}
		entradas = append(entradas, &e)
	}
	return entradas, rows.Err()
}

// Anular ACTIVE → CANCELLED con guarda optimista.
func (r *EntradaRepo) Anular(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE entradas SET estado = $2 WHERE id = $1 AND estado = $3`,
		id, entity.EntradaAnulada, entity.EntradaActiva)
	if err != nil {
		return fmt.Errorf("anular entrada: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}
