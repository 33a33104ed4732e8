package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"productstudio/internal/domain"

	"github.com/google/uuid"
)

// StudioOptions は、StudioApplicationServiceの動作設定です
type StudioOptions struct {
	DefaultCategory   domain.Category
	GenerationTimeout time.Duration // 0の場合は外部APIのタイムアウトに任せる
}

// GenerateResult は、生成操作の結果です
type GenerateResult struct {
	Snapshot domain.SessionSnapshot
	Outcome  domain.GenerationOutcome
	// Applied は、結果がセッションに反映されたかどうかを示します
	// 生成中にリセットされた場合はfalseになり、結果は破棄されます
	Applied bool
}

// StudioApplicationService は、セッションのアップロードから結果取得までの一連の処理を制御するアプリケーションサービスです
type StudioApplicationService struct {
	sessions     domain.SessionRepository
	previews     domain.PreviewRegistry
	orchestrator *GenerationOrchestrator
	validator    *domain.UploadValidator
	options      StudioOptions

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStudioApplicationService は新しいStudioApplicationServiceインスタンスを作成します
func NewStudioApplicationService(
	sessions domain.SessionRepository,
	previews domain.PreviewRegistry,
	orchestrator *GenerationOrchestrator,
	validator *domain.UploadValidator,
	options StudioOptions,
) (*StudioApplicationService, error) {
	if sessions == nil {
		return nil, fmt.Errorf("SessionRepositoryが指定されていません")
	}
	if previews == nil {
		return nil, fmt.Errorf("PreviewRegistryが指定されていません")
	}
	if orchestrator == nil {
		return nil, fmt.Errorf("GenerationOrchestratorが指定されていません")
	}
	if validator == nil {
		validator = domain.NewUploadValidator(domain.DefaultMaxUploadBytes)
	}
	if options.DefaultCategory == "" {
		options.DefaultCategory = domain.CategoryProduct
	}
	if options.GenerationTimeout < 0 {
		return nil, fmt.Errorf("生成タイムアウトは0以上である必要があります: %v", options.GenerationTimeout)
	}

	return &StudioApplicationService{
		sessions:     sessions,
		previews:     previews,
		orchestrator: orchestrator,
		validator:    validator,
		options:      options,
		locks:        make(map[string]*sync.Mutex),
	}, nil
}

// Validator はアップロード検証に使うUploadValidatorを返します
func (s *StudioApplicationService) Validator() *domain.UploadValidator {
	return s.validator
}

// StartSession は、新しいIDでセッションを作成します
// category が空の場合は既定のカテゴリを使用します
func (s *StudioApplicationService) StartSession(ctx context.Context, category domain.Category) (domain.SessionSnapshot, error) {
	return s.createSession(ctx, uuid.NewString(), category)
}

// EnsureSession は、指定IDのセッションを取得し、存在しなければ作成します
func (s *StudioApplicationService) EnsureSession(ctx context.Context, id string, category domain.Category) (domain.SessionSnapshot, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.sessions.FindByID(ctx, id)
	if err == nil {
		return sess.Snapshot(), nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return domain.SessionSnapshot{}, fmt.Errorf("セッションの取得に失敗: %w", err)
	}
	return s.saveNewSession(ctx, id, category)
}

func (s *StudioApplicationService) createSession(ctx context.Context, id string, category domain.Category) (domain.SessionSnapshot, error) {
	unlock := s.lock(id)
	defer unlock()
	return s.saveNewSession(ctx, id, category)
}

// saveNewSession はロックを保持した状態で呼び出します
func (s *StudioApplicationService) saveNewSession(ctx context.Context, id string, category domain.Category) (domain.SessionSnapshot, error) {
	if category == "" {
		category = s.options.DefaultCategory
	}
	if _, err := domain.ParseCategory(string(category)); err != nil {
		return domain.SessionSnapshot{}, err
	}

	sess := domain.NewSession(id, category)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("セッションの保存に失敗: %w", err)
	}

	log.Printf("セッションを作成しました: ID=%s, カテゴリ=%s", id, category)
	return sess.Snapshot(), nil
}

// Snapshot は、セッションの現在の状態を返します
func (s *StudioApplicationService) Snapshot(ctx context.Context, id string) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(*domain.Session) error { return nil })
}

// Upload は、ファイルを検証してセッションに登録します
func (s *StudioApplicationService) Upload(ctx context.Context, id string, info domain.FileInfo, data []byte) (domain.SessionSnapshot, error) {
	if int64(len(data)) > info.Size {
		info.Size = int64(len(data))
	}
	if err := s.validator.Validate(info); err != nil {
		log.Printf("アップロードの検証に失敗: セッション=%s, ファイル=%s, エラー=%v", id, info.Name, err)
		return domain.SessionSnapshot{}, err
	}

	return s.mutate(ctx, id, func(sess *domain.Session) error {
		// プレビューを登録する前に遷移できるかを確認する
		switch sess.Phase() {
		case domain.PhaseIdle:
		case domain.PhaseGenerating:
			return domain.ErrGenerationInFlight
		default:
			return fmt.Errorf("%w: %s ではアップロードできません", domain.ErrInvalidTransition, sess.Phase())
		}

		handle, err := s.previews.Register(ctx, data, info.MIMEType)
		if err != nil {
			return fmt.Errorf("プレビューの登録に失敗: %w", err)
		}

		img := domain.NewUploadedImage(data, info.MIMEType, info.Name, handle)
		if err := sess.Upload(img); err != nil {
			s.release(ctx, handle)
			return err
		}

		log.Printf("画像をアップロードしました: セッション=%s, ファイル=%s, %dバイト", id, info.Name, len(data))
		return nil
	})
}

// SetCategory は、カテゴリを切り替えます
func (s *StudioApplicationService) SetCategory(ctx context.Context, id string, category domain.Category) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		return sess.SetCategory(category)
	})
}

// SetGender は、ファッションプリセットの表示フィルターを切り替えます
func (s *StudioApplicationService) SetGender(ctx context.Context, id string, gender domain.Gender) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		return sess.SetGender(gender)
	})
}

// SelectPreset は、IDで指定したプリセットを選択します
func (s *StudioApplicationService) SelectPreset(ctx context.Context, id string, presetID string) (domain.SessionSnapshot, error) {
	preset, ok := domain.FindPreset(presetID)
	if !ok {
		return domain.SessionSnapshot{}, fmt.Errorf("%w: %s", domain.ErrPresetNotFound, presetID)
	}
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		return sess.SelectPreset(preset)
	})
}

// SetCustomText は、カスタム説明を設定します
func (s *StudioApplicationService) SetCustomText(ctx context.Context, id string, text string) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		return sess.SetCustomText(text)
	})
}

// SetView は、結果の表示モードを切り替えます
func (s *StudioApplicationService) SetView(ctx context.Context, id string, mode domain.ViewMode) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		return sess.SetView(mode)
	})
}

// ToggleView は、単体表示と比較表示を切り替えます
func (s *StudioApplicationService) ToggleView(ctx context.Context, id string) (domain.SessionSnapshot, error) {
	return s.mutate(ctx, id, func(sess *domain.Session) error {
		_, err := sess.ToggleView()
		return err
	})
}

// Generate は、画像を生成してセッションに反映します
// 外部APIの呼び出し中はセッションのロックを保持しません
func (s *StudioApplicationService) Generate(ctx context.Context, id string, customInstruction string) (GenerateResult, error) {
	var (
		token domain.AttemptToken
		req   domain.GenerationRequest
	)

	snapshot, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		var beginErr error
		token, req, beginErr = sess.BeginGeneration(customInstruction)
		return beginErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyPrompt) {
			return GenerateResult{
				Snapshot: snapshot,
				Outcome:  domain.FailureOutcome(domain.FailureEmptyPrompt, domain.ErrEmptyPrompt.Error()),
			}, err
		}
		return GenerateResult{Snapshot: snapshot}, err
	}

	genCtx := ctx
	if s.options.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.options.GenerationTimeout)
		defer cancel()
	}

	log.Printf("生成を開始: セッション=%s, 試行=%d", id, token)
	outcome := s.orchestrator.Execute(genCtx, req)

	applied := false
	snapshot, err = s.mutate(context.WithoutCancel(ctx), id, func(sess *domain.Session) error {
		applied = sess.Complete(token, outcome)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			log.Printf("生成中にセッションが削除されたため結果を破棄します: セッション=%s, 試行=%d", id, token)
			return GenerateResult{Outcome: outcome}, nil
		}
		return GenerateResult{Outcome: outcome}, err
	}

	if !applied {
		log.Printf("古い試行の結果を破棄しました: セッション=%s, 試行=%d", id, token)
	}

	return GenerateResult{
		Snapshot: snapshot,
		Outcome:  outcome,
		Applied:  applied,
	}, nil
}

// Reset は、セッションをIdleに戻してプレビューを解放します
func (s *StudioApplicationService) Reset(ctx context.Context, id string) (domain.SessionSnapshot, error) {
	var released domain.PreviewHandle
	snapshot, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		released = sess.Reset()
		return nil
	})
	if err != nil {
		return snapshot, err
	}

	if released != "" {
		s.release(ctx, released)
	}
	log.Printf("セッションをリセットしました: ID=%s", id)
	return snapshot, nil
}

// Result は、元画像と生成画像を返します
func (s *StudioApplicationService) Result(ctx context.Context, id string) (domain.ResultView, error) {
	var view domain.ResultView
	_, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		var resultErr error
		view, resultErr = sess.Result()
		return resultErr
	})
	return view, err
}

// Download は、ダウンロード用の生成画像を返します
func (s *StudioApplicationService) Download(ctx context.Context, id string) (domain.Download, error) {
	var dl domain.Download
	_, err := s.mutate(ctx, id, func(sess *domain.Session) error {
		var dlErr error
		dl, dlErr = sess.Download()
		return dlErr
	})
	return dl, err
}

// Preview は、プレビューハンドルに対応する画像を返します
func (s *StudioApplicationService) Preview(ctx context.Context, handle domain.PreviewHandle) ([]byte, string, error) {
	return s.previews.Open(ctx, handle)
}

// EndSession は、セッションを破棄してプレビューを解放します
func (s *StudioApplicationService) EndSession(ctx context.Context, id string) error {
	unlock := s.lock(id)
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		unlock()
		return err
	}

	released := sess.Reset()
	if err := s.sessions.Delete(ctx, id); err != nil {
		unlock()
		return fmt.Errorf("セッションの削除に失敗: %w", err)
	}
	// ロックを保持したまま登録を外す。待機中の呼び出しは lock 内で取り直す
	s.forgetLock(id)
	unlock()

	if released != "" {
		s.release(ctx, released)
	}
	log.Printf("セッションを終了しました: ID=%s", id)
	return nil
}

// mutate は、セッションのロックを取得して fn を実行し、保存したうえでスナップショットを返します
func (s *StudioApplicationService) mutate(ctx context.Context, id string, fn func(*domain.Session) error) (domain.SessionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.SessionSnapshot{}, err
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}

	fnErr := fn(sess)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return sess.Snapshot(), fmt.Errorf("セッションの保存に失敗: %w", err)
	}
	return sess.Snapshot(), fnErr
}

// lock は、セッションごとのロックを取得し、解放用の関数を返します
// 取得した時点で登録が外れていた場合は、登録されているロックで取り直します
func (s *StudioApplicationService) lock(id string) func() {
	for {
		s.mu.Lock()
		l, ok := s.locks[id]
		if !ok {
			l = &sync.Mutex{}
			s.locks[id] = l
		}
		s.mu.Unlock()

		l.Lock()

		s.mu.Lock()
		current := s.locks[id]
		s.mu.Unlock()
		if current == l {
			return l.Unlock
		}
		l.Unlock()
	}
}

// forgetLock は、セッションのロックの登録を外します。呼び出し側がロックを保持している必要があります
func (s *StudioApplicationService) forgetLock(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

func (s *StudioApplicationService) release(ctx context.Context, handle domain.PreviewHandle) {
	if err := s.previews.Release(context.WithoutCancel(ctx), handle); err != nil {
		log.Printf("プレビューの解放に失敗: %s, %v", handle, err)
	}
}
