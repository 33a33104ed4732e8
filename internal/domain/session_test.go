package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestImage() *UploadedImage {
	return NewUploadedImage([]byte("jpeg-bytes"), "image/jpeg", "photo.jpg", "preview-1")
}

func configuredSession(t *testing.T, category Category) *Session {
	t.Helper()
	s := NewSession("session-1", category)
	if err := s.Upload(newTestImage()); err != nil {
		t.Fatalf("Upload でエラーが発生しました: %v", err)
	}
	return s
}

func successImage() *EncodedImage {
	return &EncodedImage{Data: []byte("png-bytes"), MIMEType: "image/png"}
}

// comparableSnapshot は、更新日時を除いたスナップショットを返します
func comparableSnapshot(s *Session) SessionSnapshot {
	snap := s.Snapshot()
	snap.UpdatedAt = time.Time{}
	return snap
}

func TestNewSession(t *testing.T) {
	s := NewSession("session-1", CategoryProduct)

	if s.Phase() != PhaseIdle {
		t.Errorf("初期状態は Idle である必要があります: %s", s.Phase())
	}
	if s.Selection().ChosenPresetID() != "studio-white" {
		t.Errorf("初期選択は既定プリセットである必要があります: %s", s.Selection().ChosenPresetID())
	}
	if s.Attempt() != 0 {
		t.Errorf("初期トークンは0である必要があります: %d", s.Attempt())
	}
}

func TestSession_Upload(t *testing.T) {
	s := configuredSession(t, CategoryProduct)

	if s.Phase() != PhaseConfiguring {
		t.Errorf("アップロード後は Configuring である必要があります: %s", s.Phase())
	}
	if s.Image() == nil {
		t.Fatal("アップロード画像が保持されていません")
	}

	// 2回目のアップロードは拒否される
	if err := s.Upload(newTestImage()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ErrInvalidTransition が期待されましたが %v でした", err)
	}
}

func TestSession_UploadEmpty(t *testing.T) {
	s := NewSession("session-1", CategoryProduct)
	if err := s.Upload(nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("ErrNoImage が期待されましたが %v でした", err)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("失敗したアップロードで状態が変化しました: %s", s.Phase())
	}
}

func TestSession_SuccessScenario(t *testing.T) {
	s := configuredSession(t, CategoryProduct)

	token, req, err := s.BeginGeneration("")
	if err != nil {
		t.Fatalf("BeginGeneration でエラーが発生しました: %v", err)
	}
	if s.Phase() != PhaseGenerating {
		t.Errorf("生成開始後は Generating である必要があります: %s", s.Phase())
	}
	if req.Mode != ModeProductBackground {
		t.Errorf("商品カテゴリのモードは product_background である必要があります: %s", req.Mode)
	}
	if req.EffectivePrompt != mustPreset(t, "studio-white").PromptFragment {
		t.Errorf("有効プロンプトが studio-white のものではありません: %s", req.EffectivePrompt)
	}
	if req.Image != s.Image() {
		t.Error("リクエストにアップロード画像が含まれていません")
	}

	if !s.Complete(token, SuccessOutcome(successImage())) {
		t.Fatal("一致するトークンの結果が反映されませんでした")
	}
	if s.Phase() != PhaseSuccess {
		t.Errorf("成功後は Success である必要があります: %s", s.Phase())
	}

	view, err := s.Result()
	if err != nil {
		t.Fatalf("Result でエラーが発生しました: %v", err)
	}
	if string(view.Generated.Data) != "png-bytes" {
		t.Errorf("生成画像が正しくありません: %s", view.Generated.Data)
	}
}

func TestSession_ErrorThenReset(t *testing.T) {
	s := NewSession("session-1", CategoryProduct)
	if err := s.SetCategory(CategoryFashion); err != nil {
		t.Fatalf("SetCategory でエラーが発生しました: %v", err)
	}
	if err := s.SetGender(GenderMale); err != nil {
		t.Fatalf("SetGender でエラーが発生しました: %v", err)
	}
	if err := s.Upload(newTestImage()); err != nil {
		t.Fatalf("Upload でエラーが発生しました: %v", err)
	}
	if err := s.SelectPreset(mustPreset(t, "male-model-suit")); err != nil {
		t.Fatalf("SelectPreset でエラーが発生しました: %v", err)
	}

	token, req, err := s.BeginGeneration("")
	if err != nil {
		t.Fatalf("BeginGeneration でエラーが発生しました: %v", err)
	}
	if req.Mode != ModeModelTryOn {
		t.Errorf("ファッションカテゴリのモードは model_try_on である必要があります: %s", req.Mode)
	}

	s.Complete(token, FailureOutcome(FailureProviderError, GenericFailureMessage))
	if s.Phase() != PhaseError {
		t.Fatalf("失敗後は Error である必要があります: %s", s.Phase())
	}
	if s.Snapshot().ErrorMessage != GenericFailureMessage {
		t.Errorf("汎用エラーメッセージが設定されていません: %s", s.Snapshot().ErrorMessage)
	}

	released := s.Reset()
	if released != "preview-1" {
		t.Errorf("解放されるプレビューハンドルが正しくありません: %s", released)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("リセット後は Idle である必要があります: %s", s.Phase())
	}
	if s.Selection().Category() != CategoryFashion {
		t.Errorf("リセット後もカテゴリは fashion である必要があります: %s", s.Selection().Category())
	}
	if s.Outcome() != nil || s.Image() != nil {
		t.Error("リセット後に結果または画像が残っています")
	}
}

func TestSession_RetryFromError(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	token, _, _ := s.BeginGeneration("")
	s.Complete(token, FailureOutcome(FailureNoImageProduced, "no image produced"))

	// Error 状態でも選択を変更して再試行できる
	if err := s.SelectPreset(mustPreset(t, "beach-sunset")); err != nil {
		t.Fatalf("Error 状態で SelectPreset が拒否されました: %v", err)
	}
	if s.Phase() != PhaseError {
		t.Errorf("選択の変更で状態が変化しました: %s", s.Phase())
	}

	next, _, err := s.BeginGeneration("")
	if err != nil {
		t.Fatalf("再試行の BeginGeneration でエラーが発生しました: %v", err)
	}
	if next <= token {
		t.Errorf("トークンが単調増加していません: %d -> %d", token, next)
	}
}

func TestSession_EmptyPrompt(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	s.SetCustomText("テスト")
	s.SetCustomText("")

	_, _, err := s.BeginGeneration("")
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("ErrEmptyPrompt が期待されましたが %v でした", err)
	}
	if s.Phase() != PhaseConfiguring {
		t.Errorf("空のプロンプトでは Configuring に留まる必要があります: %s", s.Phase())
	}
	if s.Notice() != NoticeEmptyPrompt {
		t.Errorf("検証メッセージが設定されていません: %s", s.Notice())
	}
	if s.Attempt() != 0 {
		t.Errorf("空のプロンプトでトークンが進みました: %d", s.Attempt())
	}
}

func TestSession_GuardsWhileGenerating(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	if _, _, err := s.BeginGeneration(""); err != nil {
		t.Fatalf("BeginGeneration でエラーが発生しました: %v", err)
	}

	if _, _, err := s.BeginGeneration(""); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("生成中の再送信は ErrGenerationInFlight である必要があります: %v", err)
	}
	if err := s.SetCategory(CategoryFashion); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("生成中のカテゴリ変更は ErrGenerationInFlight である必要があります: %v", err)
	}
	if err := s.SetCustomText("海"); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("生成中のカスタム説明は ErrGenerationInFlight である必要があります: %v", err)
	}
}

func TestSession_GuardsInSuccess(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	token, _, _ := s.BeginGeneration("")
	s.Complete(token, SuccessOutcome(successImage()))

	if err := s.SelectPreset(mustPreset(t, "spa-water")); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Success 状態での選択変更は ErrInvalidTransition である必要があります: %v", err)
	}
	if _, _, err := s.BeginGeneration(""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Success 状態での生成は ErrInvalidTransition である必要があります: %v", err)
	}
}

func TestSession_StaleTokenDiscarded(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	token, _, _ := s.BeginGeneration("")

	s.Reset()

	if s.Complete(token, SuccessOutcome(successImage())) {
		t.Fatal("リセット後に古い試行の結果が反映されました")
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("古い結果で状態が変化しました: %s", s.Phase())
	}
	if s.Outcome() != nil {
		t.Error("古い結果が保持されています")
	}

	// 再アップロード後の新しい試行にも古いトークンは適用されない
	if err := s.Upload(newTestImage()); err != nil {
		t.Fatalf("Upload でエラーが発生しました: %v", err)
	}
	next, _, _ := s.BeginGeneration("")
	if next == token {
		t.Fatal("新しい試行のトークンが古いトークンと同じです")
	}
	if s.Complete(token, SuccessOutcome(successImage())) {
		t.Error("新しい試行中に古いトークンの結果が反映されました")
	}
	if !s.Complete(next, SuccessOutcome(successImage())) {
		t.Error("現在のトークンの結果が反映されませんでした")
	}
}

func TestSession_CompleteWithoutImageIsFailure(t *testing.T) {
	s := configuredSession(t, CategoryProduct)
	token, _, _ := s.BeginGeneration("")

	s.Complete(token, GenerationOutcome{Status: StatusSuccess})
	if s.Phase() != PhaseError {
		t.Errorf("画像のない成功結果は Error として扱う必要があります: %s", s.Phase())
	}
}

func TestSession_ResetIdempotent(t *testing.T) {
	s := configuredSession(t, CategoryFashion)
	s.SetCustomText("雪山")

	s.Reset()
	once := comparableSnapshot(s)
	s.Reset()
	twice := comparableSnapshot(s)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("2回目のリセットで状態が変化しました:\n1回目: %+v\n2回目: %+v", once, twice)
	}
	if twice.Phase != PhaseIdle || twice.Category != CategoryFashion || twice.PresetID != "model-studio" {
		t.Errorf("リセット後の状態が正しくありません: %+v", twice)
	}
}

func TestNewGenerationRequest(t *testing.T) {
	selection := NewSelection(CategoryFashion)

	req, err := NewGenerationRequest(newTestImage(), selection, "袖をまくる")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	preset, _ := DefaultPreset(CategoryFashion)
	if req.EffectivePrompt != preset.PromptFragment || req.Mode != ModeModelTryOn || req.CustomInstruction != "袖をまくる" {
		t.Errorf("リクエストが正しく組み立てられていません: %+v", req)
	}

	empty := NewSelection(CategoryProduct)
	empty.SetCustomText("一時的な説明")
	empty.SetCustomText("")
	if _, err := NewGenerationRequest(newTestImage(), empty, ""); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("ErrEmptyPrompt が期待されましたが %v でした", err)
	}
	if _, err := NewGenerationRequest(nil, selection, ""); !errors.Is(err, ErrNoImage) {
		t.Errorf("ErrNoImage が期待されましたが %v でした", err)
	}
}
