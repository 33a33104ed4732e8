package domain

import (
	"errors"
	"fmt"
	"time"
)

// Phase は、セッションの状態です
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfiguring
	PhaseGenerating
	PhaseSuccess
	PhaseError
)

// String はPhaseの名前を返します
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfiguring:
		return "configuring"
	case PhaseGenerating:
		return "generating"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// AttemptToken は、生成試行を区別する単調増加の識別子です
type AttemptToken uint64

// Notice は、利用者に表示する検証メッセージの種類です
type Notice string

const (
	NoticeNone        Notice = ""
	NoticeEmptyPrompt Notice = "empty_prompt"
)

// Session は、1人の利用者のアップロードから結果表示までの状態を保持します
// 書き込みは所有者1人だけが行う前提です
type Session struct {
	id        string
	phase     Phase
	image     *UploadedImage
	selection Selection
	outcome   *GenerationOutcome
	attempt   AttemptToken
	view      ViewMode
	notice    Notice
	createdAt time.Time
	updatedAt time.Time
}

// NewSession は、Idle状態の新しいセッションを作成します
func NewSession(id string, category Category) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		phase:     PhaseIdle,
		selection: NewSelection(category),
		view:      ViewSingle,
		createdAt: now,
		updatedAt: now,
	}
}

// ID はセッションIDを返します
func (s *Session) ID() string { return s.id }

// Phase は現在の状態を返します
func (s *Session) Phase() Phase { return s.phase }

// Image はアップロード画像を返します
func (s *Session) Image() *UploadedImage { return s.image }

// Selection は選択状態のコピーを返します
func (s *Session) Selection() Selection { return s.selection }

// Outcome は直近の生成結果を返します
func (s *Session) Outcome() *GenerationOutcome { return s.outcome }

// Attempt は現在の試行トークンを返します
func (s *Session) Attempt() AttemptToken { return s.attempt }

// Notice は検証メッセージの種類を返します
func (s *Session) Notice() Notice { return s.notice }

// UpdatedAt は最終更新日時を返します
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// Upload は、検証済み画像を受け取りConfiguringに遷移します
func (s *Session) Upload(img *UploadedImage) error {
	if img == nil || len(img.Data) == 0 {
		return ErrNoImage
	}
	if err := s.requirePhase(PhaseIdle); err != nil {
		return err
	}

	s.image = img
	s.selection.ResetToDefault()
	s.outcome = nil
	s.notice = NoticeNone
	s.view = ViewSingle
	s.phase = PhaseConfiguring
	s.touch()
	return nil
}

// SetCategory はカテゴリを切り替えます
func (s *Session) SetCategory(category Category) error {
	if err := s.guardSelectionChange(true); err != nil {
		return err
	}
	if err := s.selection.SetCategory(category); err != nil {
		return err
	}
	s.notice = NoticeNone
	s.touch()
	return nil
}

// SetGender はファッションプリセットの表示フィルターを切り替えます
func (s *Session) SetGender(gender Gender) error {
	if err := s.guardSelectionChange(true); err != nil {
		return err
	}
	if err := s.selection.SetGender(gender); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SelectPreset はプリセットを選択します
func (s *Session) SelectPreset(preset Preset) error {
	if err := s.guardSelectionChange(false); err != nil {
		return err
	}
	if err := s.selection.SelectPreset(preset); err != nil {
		return err
	}
	s.notice = NoticeNone
	s.touch()
	return nil
}

// SetCustomText はカスタム説明を設定します
func (s *Session) SetCustomText(text string) error {
	if err := s.guardSelectionChange(false); err != nil {
		return err
	}
	s.selection.SetCustomText(text)
	s.notice = NoticeNone
	s.touch()
	return nil
}

// BeginGeneration は、新しい試行を開始してGeneratingに遷移します
// 有効プロンプトが空の場合はConfiguringに留まりErrEmptyPromptを返します
func (s *Session) BeginGeneration(customInstruction string) (AttemptToken, GenerationRequest, error) {
	switch s.phase {
	case PhaseConfiguring, PhaseError:
	case PhaseGenerating:
		return 0, GenerationRequest{}, ErrGenerationInFlight
	case PhaseIdle:
		return 0, GenerationRequest{}, ErrNoImage
	default:
		return 0, GenerationRequest{}, fmt.Errorf("%w: %s から生成を開始できません", ErrInvalidTransition, s.phase)
	}

	req, err := NewGenerationRequest(s.image, s.selection, customInstruction)
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			s.phase = PhaseConfiguring
			s.notice = NoticeEmptyPrompt
			s.touch()
		}
		return 0, GenerationRequest{}, err
	}

	s.attempt++
	pending := PendingOutcome()
	s.outcome = &pending
	s.notice = NoticeNone
	s.view = ViewSingle
	s.phase = PhaseGenerating
	s.touch()
	return s.attempt, req, nil
}

// Complete は、試行トークンが現在の試行と一致する場合だけ結果を反映します
// 反映した場合はtrueを返します
func (s *Session) Complete(token AttemptToken, outcome GenerationOutcome) bool {
	if s.phase != PhaseGenerating || token != s.attempt {
		return false
	}

	result := outcome
	s.outcome = &result
	if outcome.IsSuccess() {
		s.phase = PhaseSuccess
	} else {
		if result.Status != StatusFailure {
			result.Status = StatusFailure
			result.Failure = FailureNoImageProduced
		}
		if result.ErrorMessage == "" {
			result.ErrorMessage = GenericFailureMessage
		}
		s.phase = PhaseError
	}
	s.touch()
	return true
}

// Reset は、どの状態からでもIdleに戻します
// 解放すべきプレビューハンドルを返します（なければ空文字）
func (s *Session) Reset() PreviewHandle {
	var released PreviewHandle
	if s.image != nil {
		released = s.image.PreviewHandle
	}

	if s.phase == PhaseGenerating {
		// 進行中の試行を放棄する
		s.attempt++
	}

	s.image = nil
	s.outcome = nil
	s.notice = NoticeNone
	s.view = ViewSingle
	s.selection.ResetToDefault()
	s.phase = PhaseIdle
	s.touch()
	return released
}

// guardSelectionChange は、選択の変更が許可されているかを判定します
func (s *Session) guardSelectionChange(allowIdle bool) error {
	switch s.phase {
	case PhaseConfiguring, PhaseError:
		return nil
	case PhaseIdle:
		if allowIdle {
			return nil
		}
		return ErrNoImage
	case PhaseGenerating:
		return ErrGenerationInFlight
	default:
		return fmt.Errorf("%w: %s では選択を変更できません", ErrInvalidTransition, s.phase)
	}
}

func (s *Session) requirePhase(want Phase) error {
	if s.phase == want {
		return nil
	}
	if s.phase == PhaseGenerating {
		return ErrGenerationInFlight
	}
	return fmt.Errorf("%w: %s (期待: %s)", ErrInvalidTransition, s.phase, want)
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

// SessionSnapshot は、表示層に渡すセッションの読み取り専用ビューです
type SessionSnapshot struct {
	ID              string
	Phase           Phase
	Category        Category
	Gender          Gender
	ChoiceKind      ChoiceKind
	PresetID        string
	CustomText      string
	EffectivePrompt string
	VisiblePresets  []Preset
	HasImage        bool
	ImageMIMEType   string
	ImageSize       int64
	ImageFilename   string
	PreviewHandle   PreviewHandle
	Attempt         AttemptToken
	View            ViewMode
	Notice          Notice
	Status          OutcomeStatus
	Failure         FailureKind
	ErrorMessage    string
	HasResult       bool
	ResultMIMEType  string
	UpdatedAt       time.Time
}

// Snapshot は、現在の状態のスナップショットを返します
func (s *Session) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		ID:              s.id,
		Phase:           s.phase,
		Category:        s.selection.Category(),
		Gender:          s.selection.Gender(),
		ChoiceKind:      s.selection.Choice().Kind(),
		PresetID:        s.selection.ChosenPresetID(),
		CustomText:      s.selection.CustomText(),
		EffectivePrompt: s.selection.EffectivePrompt(),
		VisiblePresets:  s.selection.VisiblePresets(),
		Attempt:         s.attempt,
		View:            s.view,
		Notice:          s.notice,
		UpdatedAt:       s.updatedAt,
	}

	if s.image != nil {
		snap.HasImage = true
		snap.ImageMIMEType = s.image.MIMEType
		snap.ImageSize = s.image.Size()
		snap.ImageFilename = s.image.Filename
		snap.PreviewHandle = s.image.PreviewHandle
	}

	if s.outcome != nil {
		snap.Status = s.outcome.Status
		snap.Failure = s.outcome.Failure
		snap.ErrorMessage = s.outcome.ErrorMessage
		if s.outcome.ResultImage != nil {
			snap.HasResult = true
			snap.ResultMIMEType = s.outcome.ResultImage.ContentType()
		}
	}

	return snap
}
