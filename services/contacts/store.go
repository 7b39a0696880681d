package contacts

import (
	"context"
	"database/sql"

	"contactdir/services/contacts/db"
	"contactdir/services/contacts/extract"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Store persists scraped contacts, deduplicated by email address.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// UpsertIgnore inserts every record whose email is not present yet. A
// record colliding on email is skipped without error and the stored row
// keeps its original name and ext.
func (s Store) UpsertIgnore(ctx context.Context, records []extract.Contact) error {
	ctx, span := tracer.Start(ctx, "UpsertIgnore")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, r := range records {
		err := txqry.CreateContact(ctx, db.CreateContactParams{
			Name:  r.Name,
			Ext:   r.Ext,
			Email: r.Email,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// List returns every stored contact in insertion order.
func (s Store) List(ctx context.Context) ([]db.Contact, error) {
	return s.qry.ListContacts(ctx)
}

func (s Store) Count(ctx context.Context) (int64, error) {
	return s.qry.CountContacts(ctx)
}
