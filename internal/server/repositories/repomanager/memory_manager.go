package repomanager

import (
	"context"

	"github.com/dmitrijs2005/carnet/internal/server/repositories/records"
)

// MemoryRepositoryManager serves records from process memory. Nothing
// survives a restart.
type MemoryRepositoryManager struct {
	repo *records.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repo: records.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Records() records.Repository { return m.repo }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error {
	return m.repo.WithinTx(ctx, fn)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
