package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"medintake/internal/domain"
)

// RecordStore persists doctor documents. Insert returns the identifier generated by the store.
type RecordStore interface {
	Insert(ctx context.Context, collection string, record domain.DoctorRecord) (string, error)
}

func NewPostgresRecordStore(db *pgxpool.Pool) RecordStore {
	return NewDoctorPostgres(db)
}

func NewMongoRecordStore(db *mongo.Database) RecordStore {
	return NewDoctorMongo(db)
}

func unsupportedCollection(collection string) error {
	return fmt.Errorf("unsupported collection %q", collection)
}
