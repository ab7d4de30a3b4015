package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

const loteColumns = `id, entrada_id, orden_llegada, tipo_miel_id, humedad_pct,
	clasificacion, cantidad_kg, precio_unitario, estado, tambor_id, salida_id, created_at`

// LoteRepo implementación de LoteRepository sobre PostgreSQL (usable con
// pool o tx). El orden FIFO lo garantiza la secuencia orden_llegada asignada
// al insertar y el ORDER BY de los listados de disponibles.
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// Create inserta el lote tomando orden_llegada de la secuencia (estrictamente
// creciente) y lo deja reflejado en la entidad.
func (r *LoteRepo) Create(ctx context.Context, l *entity.Lote) error {
	query := `
		INSERT INTO lotes (id, entrada_id, orden_llegada, tipo_miel_id, humedad_pct,
			clasificacion, cantidad_kg, precio_unitario, estado, created_at)
		VALUES ($1, $2, nextval('lotes_orden_llegada_seq'), $3, $4, $5, $6, $7, $8, $9)
		RETURNING orden_llegada`
	err := r.q.QueryRow(ctx, query,
		l.ID, l.EntradaID, l.TipoMielID, l.HumedadPct, string(l.Clasificacion),
		l.CantidadKg, l.PrecioUnitario, l.Estado, l.CreatedAt,
	).Scan(&l.OrdenLlegada)
	if err != nil {
		return fmt.Errorf("create lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote; (nil, nil) si no existe.
func (r *LoteRepo) GetByID(ctx context.Context, id string) (*entity.Lote, error) {
	return r.getOne(ctx, `SELECT `+loteColumns+` FROM lotes WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	return r.getOne(ctx, `SELECT `+loteColumns+` FROM lotes WHERE id = $1 FOR UPDATE`, id)
}

// ListByEntrada lotes de una entrada, en orden de llegada.
func (r *LoteRepo) ListByEntrada(ctx context.Context, entradaID string) ([]*entity.Lote, error) {
	return r.list(ctx, `SELECT `+loteColumns+` FROM lotes WHERE entrada_id = $1 ORDER BY orden_llegada`, entradaID)
}

// ListByTambor lotes vinculados a un tambor.
func (r *LoteRepo) ListByTambor(ctx context.Context, tamborID string) ([]*entity.Lote, error) {
	return r.list(ctx, `SELECT `+loteColumns+` FROM lotes WHERE tambor_id = $1 ORDER BY orden_llegada`, tamborID)
}

// ListBySalida lotes consumidos por una salida.
func (r *LoteRepo) ListBySalida(ctx context.Context, salidaID string) ([]*entity.Lote, error) {
	return r.list(ctx, `SELECT `+loteColumns+` FROM lotes WHERE salida_id = $1 ORDER BY orden_llegada`, salidaID)
}

// ListDisponibles lotes AVAILABLE que cumplen el filtro, ascendente por
// orden de llegada (contrato FIFO).
func (r *LoteRepo) ListDisponibles(ctx context.Context, f repository.LoteFiltro) ([]*entity.Lote, error) {
	query, args := disponiblesQuery(f, false)
	return r.list(ctx, query, args...)
}

// ListDisponiblesForUpdate igual que ListDisponibles pero bloqueando las
// filas devueltas. Usar solo dentro de una transacción.
func (r *LoteRepo) ListDisponiblesForUpdate(ctx context.Context, f repository.LoteFiltro) ([]*entity.Lote, error) {
	query, args := disponiblesQuery(f, true)
	return r.list(ctx, query, args...)
}

// Transicionar guarda optimista: cero filas afectadas significa que el
// estado en BD ya no es el que el cliente creía.
func (r *LoteRepo) Transicionar(ctx context.Context, loteID, desde, hacia string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE lotes SET estado = $3 WHERE id = $1 AND estado = $2`,
		loteID, desde, hacia)
	if err != nil {
		return fmt.Errorf("transicionar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// AsignarATambor AVAILABLE → ASSIGNED + tambor_id. Cero filas afectadas →
// otro actor ganó la carrera por este lote.
func (r *LoteRepo) AsignarATambor(ctx context.Context, loteID, tamborID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE lotes SET estado = $3, tambor_id = $2 WHERE id = $1 AND estado = $4`,
		loteID, tamborID, entity.LoteAsignado, entity.LoteDisponible)
	if err != nil {
		return fmt.Errorf("asignar lote a tambor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

// LiberarDeTambor ASSIGNED → AVAILABLE y limpia tambor_id.
func (r *LoteRepo) LiberarDeTambor(ctx context.Context, loteID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE lotes SET estado = $2, tambor_id = NULL WHERE id = $1 AND estado = $3`,
		loteID, entity.LoteDisponible, entity.LoteAsignado)
	if err != nil {
		return fmt.Errorf("liberar lote de tambor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ConsumirPorSalida AVAILABLE → CONSUMED + salida_id.
func (r *LoteRepo) ConsumirPorSalida(ctx context.Context, loteID, salidaID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE lotes SET estado = $3, salida_id = $2 WHERE id = $1 AND estado = $4`,
		loteID, salidaID, entity.LoteConsumido, entity.LoteDisponible)
	if err != nil {
		return fmt.Errorf("consumir lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

// Anular pasa a CANCELLED cualquier estado no terminal. Lotes CONSUMED o ya
// CANCELLED no se tocan (no-op; el llamador valida los CONSUMED antes).
func (r *LoteRepo) Anular(ctx context.Context, loteID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE lotes SET estado = $2, tambor_id = NULL
		 WHERE id = $1 AND estado NOT IN ($3, $2)`,
		loteID, entity.LoteAnulado, entity.LoteConsumido)
	if err != nil {
		return fmt.Errorf("anular lote: %w", err)
	}
	return nil
}

func (r *LoteRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Lote, error) {
	var l entity.Lote
	var clasif string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&l.ID, &l.EntradaID, &l.OrdenLlegada, &l.TipoMielID, &l.HumedadPct,
		&clasif, &l.CantidadKg, &l.PrecioUnitario, &l.Estado, &l.TamborID, &l.SalidaID, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	l.Clasificacion = clasificacionDe(clasif)
	return &l, nil
}

func (r *LoteRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lote, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()

	var lotes []*entity.Lote
	for rows.Next() {
		var l entity.Lote
		var clasif string
		if err := rows.Scan(
			&l.ID, &l.EntradaID, &l.OrdenLlegada, &l.TipoMielID, &l.HumedadPct,
			&clasif, &l.CantidadKg, &l.PrecioUnitario, &l.Estado, &l.TamborID, &l.SalidaID, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		l.Clasificacion = clasificacionDe(clasif)
		lotes = append(lotes, &l)
	}
	return lotes, rows.Err()
}

func disponiblesQuery(f repository.LoteFiltro, forUpdate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + loteColumns + ` FROM lotes WHERE estado = $1`)
	args := []any{entity.LoteDisponible}
	if f.TipoMielID != "" {
		args = append(args, f.TipoMielID)
		fmt.Fprintf(&sb, " AND tipo_miel_id = $%d", len(args))
	}
	if f.Clasificacion != "" {
		args = append(args, f.Clasificacion)
		fmt.Fprintf(&sb, " AND clasificacion = $%d", len(args))
	}
	sb.WriteString(" ORDER BY orden_llegada")
	if forUpdate {
		sb.WriteString(" FOR UPDATE")
	}
	return sb.String(), args
}
