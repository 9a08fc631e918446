package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// UnitOfWork runs functions inside a MongoDB multi-document transaction. The
// redemption coordinator uses it to make its balance decrement and ledger
// append a single atomic unit.
type UnitOfWork struct {
	client *mongo.Client
}

// NewUnitOfWork creates a new Unit of Work instance
func NewUnitOfWork(client *mongo.Client) *UnitOfWork {
	return &UnitOfWork{
		client: client,
	}
}

// WithTransaction executes fn within a transaction. The context passed to fn
// carries the session, so repository calls made with it join the transaction.
// If fn returns an error the transaction is aborted; transient write
// conflicts between concurrent transactions on the same pool document are
// retried by the driver, re-running fn against the committed state.
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := uow.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})

	return err
}
