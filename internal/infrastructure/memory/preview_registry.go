package memory

import (
	"context"
	"fmt"
	"sync"

	"productstudio/internal/domain"

	"github.com/google/uuid"
)

type previewEntry struct {
	data     []byte
	mimeType string
}

// PreviewRegistry は、アップロード画像のプレビューをメモリ上で管理するPreviewRegistryの実装です
type PreviewRegistry struct {
	entries map[domain.PreviewHandle]previewEntry
	mutex   sync.RWMutex
}

// NewPreviewRegistry は新しいPreviewRegistryインスタンスを作成します
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{
		entries: make(map[domain.PreviewHandle]previewEntry),
	}
}

// Register は、画像を登録してハンドルを返します
func (r *PreviewRegistry) Register(ctx context.Context, data []byte, mimeType string) (domain.PreviewHandle, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if len(data) == 0 {
		return "", fmt.Errorf("プレビューする画像が空です")
	}

	handle := domain.PreviewHandle(uuid.NewString())

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.entries[handle] = previewEntry{
		data:     data,
		mimeType: domain.NormalizeMIMEType(mimeType),
	}
	return handle, nil
}

// Open は、ハンドルに対応する画像を返します
func (r *PreviewRegistry) Open(ctx context.Context, handle domain.PreviewHandle) ([]byte, string, error) {
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.entries[handle]
	if !exists {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrPreviewNotFound, handle)
	}
	return entry.data, entry.mimeType, nil
}

// Release は、ハンドルを解放します。未登録のハンドルは無視します
func (r *PreviewRegistry) Release(ctx context.Context, handle domain.PreviewHandle) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.entries, handle)
	return nil
}

// Len は、解放されていないプレビューの数を返します
func (r *PreviewRegistry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.entries)
}
