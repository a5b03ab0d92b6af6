package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"medintake/internal/domain"
)

type doctorDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Record    domain.DoctorRecord `bson:",inline"`
	CreatedAt time.Time           `bson:"createdAt"`
}

type DoctorMongo struct {
	db *mongo.Database
}

func NewDoctorMongo(db *mongo.Database) *DoctorMongo {
	return &DoctorMongo{
		db: db,
	}
}

// Insert adds the record as a new document; the ObjectID is generated by the driver.
func (r *DoctorMongo) Insert(ctx context.Context, collection string, record domain.DoctorRecord) (string, error) {
	if collection != domain.DoctorsCollection {
		return "", unsupportedCollection(collection)
	}

	res, err := r.db.Collection(collection).InsertOne(ctx, doctorDocument{
		Record:    record,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("insert doctor document: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}

	return id.Hex(), nil
}
