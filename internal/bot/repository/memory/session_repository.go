package memory

import (
	"context"
	"sync"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

// SessionRepository хранит режим каждого пользователя в памяти процесса.
// Отсутствие записи означает ModeIdle.
type SessionRepository struct {
	modes map[int64]models.Mode
	mu    sync.RWMutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		modes: make(map[int64]models.Mode),
	}
}

func (r *SessionRepository) GetMode(_ context.Context, userID int64) (models.Mode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mode, exists := r.modes[userID]
	if !exists {
		return models.ModeIdle, nil
	}

	return mode, nil
}

func (r *SessionRepository) SetMode(_ context.Context, userID int64, mode models.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mode == models.ModeIdle {
		delete(r.modes, userID)
		return nil
	}

	r.modes[userID] = mode

	return nil
}

func (r *SessionRepository) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.modes, userID)

	return nil
}

// Count возвращает число пользователей, находящихся не в ModeIdle.
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.modes)
}
