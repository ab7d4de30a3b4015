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

var _ repository.TipoMielRepository = (*TipoMielRepo)(nil)
var _ repository.PrecioRepository = (*PrecioRepo)(nil)

// TipoMielRepo implementación de TipoMielRepository sobre PostgreSQL.
type TipoMielRepo struct {
	q Querier
}

// NewTipoMielRepository construye el adaptador de tipos de miel.
func NewTipoMielRepository(q Querier) *TipoMielRepo {
	return &TipoMielRepo{q: q}
}

// Create inserta el tipo de miel; ErrDuplicate si el código ya existe.
func (r *TipoMielRepo) Create(ctx context.Context, t *entity.TipoMiel) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tipos_miel (id, codigo, nombre, created_at)
		VALUES ($1, $2, $3, $4)`,
		t.ID, t.Codigo, t.Nombre, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create tipo de miel: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo de miel; (nil, nil) si no existe.
func (r *TipoMielRepo) GetByID(ctx context.Context, id string) (*entity.TipoMiel, error) {
	var t entity.TipoMiel
	err := r.q.QueryRow(ctx,
		`SELECT id, codigo, nombre, created_at FROM tipos_miel WHERE id = $1`, id).Scan(
		&t.ID, &t.Codigo, &t.Nombre, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo de miel: %w", err)
	}
	return &t, nil
}

// List todos los tipos, por código.
func (r *TipoMielRepo) List(ctx context.Context) ([]*entity.TipoMiel, error) {
	rows, err := r.q.Query(ctx, `SELECT id, codigo, nombre, created_at FROM tipos_miel ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list tipos de miel: %w", err)
	}
	defer rows.Close()

	var tipos []*entity.TipoMiel
	for rows.Next() {
		var t entity.TipoMiel
		if err := rows.Scan(&t.ID, &t.Codigo, &t.Nombre, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tipo de miel: %w", err)
		}
		tipos = append(tipos, &t)
	}
	return tipos, rows.Err()
}

// PrecioRepo implementación de PrecioRepository sobre PostgreSQL. Consulta
// externa pura: el motor solo la usa para pre-llenar precios declarados.
type PrecioRepo struct {
	q Querier
}

// NewPrecioRepository construye el adaptador de la lista de precios.
func NewPrecioRepository(q Querier) *PrecioRepo {
	return &PrecioRepo{q: q}
}

// Get precio por (tipo, clasificación); (nil, nil) si no hay precio cargado.
func (r *PrecioRepo) Get(ctx context.Context, tipoMielID string, c miel.Clasificacion) (*entity.PrecioMiel, error) {
	var p entity.PrecioMiel
	var clasif string
	err := r.q.QueryRow(ctx, `
		SELECT tipo_miel_id, clasificacion, precio_kg, updated_at
		FROM precios_miel WHERE tipo_miel_id = $1 AND clasificacion = $2`,
		tipoMielID, string(c)).Scan(&p.TipoMielID, &clasif, &p.PrecioKg, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get precio: %w", err)
	}
	p.Clasificacion = miel.Clasificacion(clasif)
	return &p, nil
}

// Upsert inserta o actualiza el precio de la clave.
func (r *PrecioRepo) Upsert(ctx context.Context, p *entity.PrecioMiel) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO precios_miel (tipo_miel_id, clasificacion, precio_kg, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tipo_miel_id, clasificacion)
		DO UPDATE SET precio_kg = EXCLUDED.precio_kg, updated_at = now()`,
		p.TipoMielID, string(p.Clasificacion), p.PrecioKg)
	if err != nil {
		return fmt.Errorf("upsert precio: %w", err)
	}
	return nil
}

// List toda la lista de precios.
func (r *PrecioRepo) List(ctx context.Context) ([]*entity.PrecioMiel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT tipo_miel_id, clasificacion, precio_kg, updated_at
		FROM precios_miel ORDER BY tipo_miel_id, clasificacion`)
	if err != nil {
		return nil, fmt.Errorf("list precios: %w", err)
	}
	defer rows.Close()

	var precios []*entity.PrecioMiel
	for rows.Next() {
		var p entity.PrecioMiel
		var clasif string
		if err := rows.Scan(&p.TipoMielID, &clasif, &p.PrecioKg, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan precio: %w", err)
		}
		p.Clasificacion = miel.Clasificacion(clasif)
		precios = append(precios, &p)
	}
	return precios, rows.Err()
}
