package domain

import "context"

// SessionRepository は、セッションを保存・取得するためのインターフェースです
type SessionRepository interface {
	// Save は、セッションを保存します
	Save(ctx context.Context, session *Session) error

	// FindByID は、指定されたIDのセッションを取得します
	FindByID(ctx context.Context, id string) (*Session, error)

	// Delete は、指定されたIDのセッションを削除します
	Delete(ctx context.Context, id string) error

	// Count は、保持しているセッション数を返します
	Count(ctx context.Context) (int, error)
}

// PreviewRegistry は、アップロード画像のプレビュー用リソースを管理するインターフェースです
type PreviewRegistry interface {
	// Register は、画像を登録してハンドルを返します
	Register(ctx context.Context, data []byte, mimeType string) (PreviewHandle, error)

	// Open は、ハンドルに対応する画像を返します
	Open(ctx context.Context, handle PreviewHandle) ([]byte, string, error)

	// Release は、ハンドルを解放します。未登録のハンドルは無視します
	Release(ctx context.Context, handle PreviewHandle) error
}
