package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"burokasa/internal/core"
)

// MemoryStore keeps the five collections in memory. It is the default
// backend for local runs and the test double for everything that consumes
// record collections.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[core.SourceKind][]core.RawRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[core.SourceKind][]core.RawRecord)}
}

func (s *MemoryStore) CaseFiles(ctx context.Context) ([]core.RawRecord, error) {
	return s.list(core.KindCaseFile), nil
}

func (s *MemoryStore) InstitutionFiles(ctx context.Context) ([]core.RawRecord, error) {
	return s.list(core.KindInstitutionFile), nil
}

func (s *MemoryStore) OfficeExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return s.list(core.KindOfficeExpense), nil
}

func (s *MemoryStore) InstitutionExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return s.list(core.KindInstitutionExpense), nil
}

func (s *MemoryStore) CaseExpenses(ctx context.Context) ([]core.RawRecord, error) {
	return s.list(core.KindCaseExpense), nil
}

func (s *MemoryStore) list(kind core.SourceKind) []core.RawRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RawRecord, len(s.collections[kind]))
	copy(out, s.collections[kind])
	return out
}

func (s *MemoryStore) Insert(_ context.Context, kind core.SourceKind, raw core.RawRecord) (string, error) {
	if _, ok := tables[kind]; !ok {
		return "", fmt.Errorf("unknown source kind: %s", kind)
	}

	rec := make(core.RawRecord, len(raw)+1)
	for k, v := range raw {
		rec[k] = v
	}
	id := uuid.NewString()
	rec["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[kind] = append(s.collections[kind], rec)
	return id, nil
}

func (s *MemoryStore) Delete(_ context.Context, kind core.SourceKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[kind]
	for i, rec := range records {
		if rid, _ := rec["id"].(string); rid == id {
			s.collections[kind] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete from %s: %w", kind, sql.ErrNoRows)
}

func (s *MemoryStore) Close() error { return nil }
