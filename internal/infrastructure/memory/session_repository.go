package memory

import (
	"context"
	"fmt"
	"sync"

	"productstudio/internal/domain"
)

// SessionRepository は、メモリ上でセッションを保持するSessionRepositoryの実装です
// プロセスの再起動でセッションは失われます
type SessionRepository struct {
	sessions map[string]*domain.Session
	mutex    sync.RWMutex
}

// NewSessionRepository は新しいSessionRepositoryインスタンスを作成します
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

// Save は、セッションを保存します
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if session == nil {
		return fmt.Errorf("セッションがnilです")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[session.ID()] = session
	return nil
}

// FindByID は、指定されたIDのセッションを取得します
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	return session, nil
}

// Delete は、指定されたIDのセッションを削除します
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.sessions[id]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	delete(r.sessions, id)
	return nil
}

// Count は、保持しているセッション数を返します
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.sessions), nil
}
