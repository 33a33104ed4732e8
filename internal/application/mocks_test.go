package application

import (
	"context"
	"fmt"
	"sync"

	"productstudio/internal/domain"
)

// MockImageGenerator は、呼び出し回数を記録するテスト用の画像生成クライアントです
type MockImageGenerator struct {
	mu       sync.Mutex
	image    *domain.EncodedImage
	err      error
	calls    int
	requests []ImageEditRequest
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, request ImageEditRequest) (*domain.EncodedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.requests = append(m.requests, request)
	return m.image, m.err
}

func (m *MockImageGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockImageGenerator) LastRequest() ImageEditRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ImageEditRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// BlockingImageGenerator は、release が閉じられるまで応答を返さないテスト用クライアントです
type BlockingImageGenerator struct {
	started chan struct{}
	release chan struct{}
	image   *domain.EncodedImage
}

func NewBlockingImageGenerator(img *domain.EncodedImage) *BlockingImageGenerator {
	return &BlockingImageGenerator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		image:   img,
	}
}

func (m *BlockingImageGenerator) GenerateImage(ctx context.Context, request ImageEditRequest) (*domain.EncodedImage, error) {
	m.started <- struct{}{}
	select {
	case <-m.release:
		return m.image, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// MockErrorReporter は、通知されたエラーを記録します
type MockErrorReporter struct {
	mu      sync.Mutex
	reports []error
}

func (m *MockErrorReporter) Report(ctx context.Context, err error, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, err)
}

func (m *MockErrorReporter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// MockSessionRepository は、テスト用のセッションリポジトリです
type MockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saveErr  error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[session.ID()] = session
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}

// MockPreviewRegistry は、登録と解放の回数を記録するテスト用レジストリです
type MockPreviewRegistry struct {
	mu       sync.Mutex
	next     int
	active   map[domain.PreviewHandle][]byte
	released []domain.PreviewHandle
}

func NewMockPreviewRegistry() *MockPreviewRegistry {
	return &MockPreviewRegistry{active: make(map[domain.PreviewHandle][]byte)}
}

func (m *MockPreviewRegistry) Register(ctx context.Context, data []byte, mimeType string) (domain.PreviewHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	handle := domain.PreviewHandle(fmt.Sprintf("preview-%d", m.next))
	m.active[handle] = data
	return handle, nil
}

func (m *MockPreviewRegistry) Open(ctx context.Context, handle domain.PreviewHandle) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.active[handle]
	if !ok {
		return nil, "", fmt.Errorf("プレビューが見つかりません: %s", handle)
	}
	return data, "image/jpeg", nil
}

func (m *MockPreviewRegistry) Release(ctx context.Context, handle domain.PreviewHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, handle)
	m.released = append(m.released, handle)
	return nil
}

func (m *MockPreviewRegistry) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *MockPreviewRegistry) Released() []domain.PreviewHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PreviewHandle, len(m.released))
	copy(out, m.released)
	return out
}
