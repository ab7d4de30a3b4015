package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

var _ repository.SalidaRepository = (*SalidaRepo)(nil)

// SalidaRepo implementación de SalidaRepository sobre PostgreSQL.
type SalidaRepo struct {
	q Querier
}

// NewSalidaRepository construye el adaptador de salidas. Pasar pool o tx.
func NewSalidaRepository(q Querier) *SalidaRepo {
	return &SalidaRepo{q: q}
}

// Create inserta la salida (nace en borrador, sin líneas).
func (r *SalidaRepo) Create(ctx context.Context, s *entity.Salida) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO salidas (id, transportista_id, estado, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.TransportistaID, s.Estado, s.CreatedAt, s.CreatedBy)
	if err != nil {
		return fmt.Errorf("create salida: %w", err)
	}
	return nil
}

// GetByID obtiene la salida con sus líneas; (nil, nil) si no existe.
func (r *SalidaRepo) GetByID(ctx context.Context, id string) (*entity.Salida, error) {
	return r.getOne(ctx, id, false)
}

// GetForUpdate obtiene la salida bloqueando su fila; las líneas no se
// bloquean (solo se mutan junto con la cabecera).
func (r *SalidaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Salida, error) {
	return r.getOne(ctx, id, true)
}

// List salidas paginadas con líneas, más reciente primero.
func (r *SalidaRepo) List(ctx context.Context, limit, offset int) ([]*entity.Salida, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, transportista_id, estado, created_at, created_by, finalizada_at
		FROM salidas ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list salidas: %w", err)
	}
	defer rows.Close()

	var salidas []*entity.Salida
	for rows.Next() {
		var s entity.Salida
		if err := rows.Scan(&s.ID, &s.TransportistaID, &s.Estado, &s.CreatedAt, &s.CreatedBy, &s.FinalizadaAt); err != nil {
			return nil, fmt.Errorf("scan salida: %w", err)
		}
		salidas = append(salidas, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range salidas {
		lineas, err := r.lineas(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Lineas = lineas
	}
	return salidas, nil
}

// AgregarLinea inserta una línea en la salida.
func (r *SalidaRepo) AgregarLinea(ctx context.Context, l *entity.LineaSalida) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO salida_lineas (id, salida_id, tipo_miel_id, clasificacion, solicitado_kg)
		VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.SalidaID, l.TipoMielID, string(l.Clasificacion), l.SolicitadoKg)
	if err != nil {
		return fmt.Errorf("agregar linea: %w", err)
	}
	return nil
}

// QuitarLinea elimina una línea de la salida.
func (r *SalidaRepo) QuitarLinea(ctx context.Context, salidaID, lineaID string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM salida_lineas WHERE id = $1 AND salida_id = $2`, lineaID, salidaID)
	if err != nil {
		return fmt.Errorf("quitar linea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Transicionar guarda optimista sobre el estado de la salida.
func (r *SalidaRepo) Transicionar(ctx context.Context, id, desde, hacia string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE salidas SET estado = $3 WHERE id = $1 AND estado = $2`, id, desde, hacia)
	if err != nil {
		return fmt.Errorf("transicionar salida: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// SetFinalizada registra el momento del finalize.
func (r *SalidaRepo) SetFinalizada(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE salidas SET finalizada_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("set finalizada: %w", err)
	}
	return nil
}

func (r *SalidaRepo) getOne(ctx context.Context, id string, forUpdate bool) (*entity.Salida, error) {
	query := `SELECT id, transportista_id, estado, created_at, created_by, finalizada_at FROM salidas WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Salida
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TransportistaID, &s.Estado, &s.CreatedAt, &s.CreatedBy, &s.FinalizadaAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salida: %w", err)
	}
	lineas, err := r.lineas(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lineas = lineas
	return &s, nil
}

func (r *SalidaRepo) lineas(ctx context.Context, salidaID string) ([]entity.LineaSalida, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, salida_id, tipo_miel_id, clasificacion, solicitado_kg
		FROM salida_lineas WHERE salida_id = $1 ORDER BY id`, salidaID)
	if err != nil {
		return nil, fmt.Errorf("list lineas: %w", err)
	}
	defer rows.Close()

	var lineas []entity.LineaSalida
	for rows.Next() {
		var l entity.LineaSalida
		var clasif string
		if err := rows.Scan(&l.ID, &l.SalidaID, &l.TipoMielID, &clasif, &l.SolicitadoKg); err != nil {
			return nil, fmt.Errorf("scan linea: %w", err)
		}
		l.Clasificacion = miel.Clasificacion(clasif)
		lineas = append(lineas, l)
	}
	return lineas, rows.Err()
}
