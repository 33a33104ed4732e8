package domain

import "fmt"

// DownloadFilename は、生成画像をダウンロードする際のファイル名です
const DownloadFilename = "product-ai-studio.png"

// ViewMode は、結果の表示方法です
type ViewMode string

const (
	// ViewSingle は生成画像のみを表示します
	ViewSingle ViewMode = "single"
	// ViewCompare は元画像と生成画像を並べて表示します
	ViewCompare ViewMode = "compare"
)

// ParseViewMode は、文字列をViewModeに変換します
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewSingle:
		return ViewSingle, nil
	case ViewCompare:
		return ViewCompare, nil
	}
	return "", fmt.Errorf("無効な表示モードです: %q", s)
}

// ResultView は、表示層に渡す結果画像の組です
type ResultView struct {
	Mode      ViewMode
	Original  *UploadedImage
	Generated *EncodedImage
}

// Download は、ダウンロード用の生成画像です
type Download struct {
	Filename string
	MIMEType string
	Data     []byte
}

// View は現在の表示モードを返します
func (s *Session) View() ViewMode { return s.view }

// SetView は表示モードを切り替えます。データは変更しません
func (s *Session) SetView(mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}
	if err := s.requireResult(); err != nil {
		return err
	}
	s.view = mode
	return nil
}

// ToggleView は単体表示と比較表示を切り替えます
func (s *Session) ToggleView() (ViewMode, error) {
	next := ViewCompare
	if s.view == ViewCompare {
		next = ViewSingle
	}
	if err := s.SetView(next); err != nil {
		return s.view, err
	}
	return next, nil
}

// Result は、元画像と生成画像を返します
func (s *Session) Result() (ResultView, error) {
	if err := s.requireResult(); err != nil {
		return ResultView{}, err
	}
	return ResultView{
		Mode:      s.view,
		Original:  s.image,
		Generated: s.outcome.ResultImage,
	}, nil
}

// Download は、生成画像を固定のファイル名で返します
func (s *Session) Download() (Download, error) {
	if err := s.requireResult(); err != nil {
		return Download{}, err
	}
	img := s.outcome.ResultImage
	return Download{
		Filename: DownloadFilename,
		MIMEType: img.ContentType(),
		Data:     img.Data,
	}, nil
}

func (s *Session) requireResult() error {
	if s.phase != PhaseSuccess || s.outcome == nil || s.outcome.ResultImage == nil {
		return ErrNoResult
	}
	return nil
}
