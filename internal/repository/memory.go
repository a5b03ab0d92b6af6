package repository

import (
	"context"
	"strconv"
	"sync"

	"medintake/internal/domain"
)

type MemoryRecordStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[string][]domain.DoctorRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: make(map[string][]domain.DoctorRecord),
	}
}

func (r *MemoryRecordStore) Insert(ctx context.Context, collection string, record domain.DoctorRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.records[collection] = append(r.records[collection], record)

	return strconv.FormatInt(r.nextID, 10), nil
}

func (r *MemoryRecordStore) Records(collection string) []domain.DoctorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.DoctorRecord(nil), r.records[collection]...)
}
