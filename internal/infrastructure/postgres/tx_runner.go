package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mielsur/acopio-api/internal/application/entrada"
	"github.com/mielsur/acopio-api/internal/application/salida"
	"github.com/mielsur/acopio-api/internal/application/tambor"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de cada contexto.
var _ entrada.TxRunner = (*TxRunner)(nil)
var _ tambor.TxRunner = (*TxRunner)(nil)
var _ salida.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la
// frontera atómica que el motor de reglas exige: commit de tambor, finalize
// de salida y anulación en cascada nunca se aplican a medias.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de entrada y lotes; Commit si todo
// ok, Rollback si algo falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entradaRepo repository.EntradaRepository,
	loteRepo repository.LoteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewEntradaRepository(tx), NewLoteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTambor inicia una transacción con repos de tambores y lotes.
func (r *TxRunner) RunTambor(ctx context.Context, fn func(
	tamborRepo repository.TamborRepository,
	loteRepo repository.LoteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewTamborRepository(tx), NewLoteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSalida inicia una transacción con repos de salidas y lotes.
func (r *TxRunner) RunSalida(ctx context.Context, fn func(
	salidaRepo repository.SalidaRepository,
	loteRepo repository.LoteRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSalidaRepository(tx), NewLoteRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
