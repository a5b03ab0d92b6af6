package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"medintake/internal/domain"
)

// queryRower is satisfied by *pgxpool.Pool and pgx.Tx.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DoctorPostgres struct {
	db queryRower
}

func NewDoctorPostgres(db queryRower) *DoctorPostgres {
	return &DoctorPostgres{
		db: db,
	}
}

func (r *DoctorPostgres) Insert(ctx context.Context, collection string, record domain.DoctorRecord) (string, error) {
	if collection != domain.DoctorsCollection {
		return "", unsupportedCollection(collection)
	}

	query := `
		INSERT INTO doctors (
			name,
			specialty,
			experience,
			languages,
			license,
			living_place,
			profile_picture,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		record.Name,
		record.Specialty,
		record.Experience,
		record.Languages,
		record.License,
		record.LivingPlace,
		record.ProfilePicture,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert doctor: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}
