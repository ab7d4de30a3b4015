package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

var _ repository.TamborRepository = (*TamborRepo)(nil)

const tamborColumns = `id, tipo_miel_id, clasificacion, banda, cantidad_kg, estado, created_at, created_by`

// TamborRepo implementación de TamborRepository sobre PostgreSQL.
type TamborRepo struct {
	q Querier
}

// NewTamborRepository construye el adaptador de tambores. Pasar pool o tx.
func NewTamborRepository(q Querier) *TamborRepo {
	return &TamborRepo{q: q}
}

// Create inserta el tambor (nace ACTIVE, ya validado por el consolidador).
func (r *TamborRepo) Create(ctx context.Context, t *entity.Tambor) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tambores (`+tamborColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.TipoMielID, string(t.Clasificacion), string(t.Banda),
		t.CantidadKg, t.Estado, t.CreatedAt, t.CreatedBy)
	if err != nil {
		return fmt.Errorf("create tambor: %w", err)
	}
	return nil
}

// GetByID obtiene un tambor; (nil, nil) si no existe.
func (r *TamborRepo) GetByID(ctx context.Context, id string) (*entity.Tambor, error) {
	return r.getOne(ctx, `SELECT `+tamborColumns+` FROM tambores WHERE id = $1`, id)
}

// GetForUpdate obtiene el tambor y bloquea la fila.
func (r *TamborRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tambor, error) {
	return r.getOne(ctx, `SELECT `+tamborColumns+` FROM tambores WHERE id = $1 FOR UPDATE`, id)
}

// List tambores paginados, más reciente primero.
func (r *TamborRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tambor, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+tamborColumns+` FROM tambores ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tambores: %w", err)
	}
	defer rows.Close()

	var tambores []*entity.Tambor
	for rows.Next() {
		t, err := scanTambor(rows)
		if err != nil {
			return nil, err
		}
		tambores = append(tambores, t)
	}
	return tambores, rows.Err()
}

// Anular ACTIVE → CANCELLED con guarda optimista.
func (r *TamborRepo) Anular(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE tambores SET estado = $2 WHERE id = $1 AND estado = $3`,
		id, entity.TamborAnulado, entity.TamborActivo)
	if err != nil {
		return fmt.Errorf("anular tambor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *TamborRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Tambor, error) {
	row := r.q.QueryRow(ctx, query, args...)
	t, err := scanTambor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func scanTambor(row pgx.Row) (*entity.Tambor, error) {
	var t entity.Tambor
	var clasif, banda string
	if err := row.Scan(&t.ID, &t.TipoMielID, &clasif, &banda, &t.CantidadKg, &t.Estado, &t.CreatedAt, &t.CreatedBy); err != nil {
		return nil, err
	}
	t.Clasificacion = miel.Clasificacion(clasif)
	t.Banda = miel.Banda(banda)
	return &t, nil
}
