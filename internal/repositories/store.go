package repositories

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

// Store groups the domain repositories over one connection or transaction.
type Store interface {
	LLCs() LLCRepository
	Properties() PropertyRepository
	Tenants() TenantRepository
	Payments() PaymentRepository

	// WithTx runs fn inside a transaction. fn receives a Store bound to that
	// transaction; a returned error rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

type store struct {
	db Pool
}

func NewStore(db Pool) Store {
	return &store{db: db}
}

func (s *store) LLCs() LLCRepository { return NewLLCRepository(s.db) }

func (s *store) Properties() PropertyRepository { return NewPropertyRepository(s.db) }

func (s *store) Tenants() TenantRepository { return NewTenantRepository(s.db) }

func (s *store) Payments() PaymentRepository { return NewPaymentRepository(s.db) }

func (s *store) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	if err := fn(&store{db: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Warn("transaction rollback failed", "err", rbErr)
		}
		return err
	}

	return translateError(tx.Commit(ctx), "could not commit transaction")
}
