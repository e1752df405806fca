package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// beginner lo implementan pgxpool.Pool y pgx.Tx: permite abrir una
// transacción desde el mismo Querier con el que se construyó el
// adaptador.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx ejecuta fn dentro de una transacción cuando el Querier lo
// permite y hace Commit o Rollback; si no, corre fn directo. Da
// atomicidad a cada lote de líneas sin acoplar colecciones entre sí:
// la política de orden y de fallo parcial entre colecciones vive en el
// asistente, no aquí.
func withTx(ctx context.Context, q Querier, fn func(q Querier) error) error {
	b, ok := q.(beginner)
	if !ok {
		return fn(q)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
