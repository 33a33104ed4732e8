package i18n

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"productstudio/internal/domain"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// SupportedLocales は、メッセージを用意している言語です
var SupportedLocales = []string{"ja", "en", "ar"}

var supportedTags = []language.Tag{language.Japanese, language.English, language.Arabic}

// supportedTag は、地域などを除いた言語がメッセージを持つ場合にそのタグを返します
func supportedTag(tag language.Tag) (language.Tag, bool) {
	base, _ := tag.Base()
	switch base.String() {
	case "ja":
		return language.Japanese, true
	case "en":
		return language.English, true
	case "ar":
		return language.Arabic, true
	}
	return language.Und, false
}

// Catalog は、言語ごとのメッセージカタログと言語マッチャーを保持します
type Catalog struct {
	builder  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// NewCatalog は、既定言語を指定して新しいCatalogを作成します
func NewCatalog(defaultLocale string) (*Catalog, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("既定言語の解析に失敗: %w", err)
	}

	fallbackTag, ok := supportedTag(fallback)
	if !ok {
		return nil, fmt.Errorf("サポートされていない既定言語です: %s", defaultLocale)
	}

	// 先頭の言語がマッチしなかった場合の既定値になる
	tags := []language.Tag{fallbackTag}
	for _, tag := range supportedTags {
		if tag != fallbackTag {
			tags = append(tags, tag)
		}
	}

	builder := catalog.NewBuilder(catalog.Fallback(fallbackTag))
	for tag, entries := range messages {
		for key, msg := range entries {
			if err := builder.SetString(tag, string(key), msg); err != nil {
				return nil, fmt.Errorf("メッセージの登録に失敗 (%s, %s): %w", tag, key, err)
			}
		}
	}

	return &Catalog{
		builder:  builder,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: fallbackTag,
	}, nil
}

// IsSupportedLocale は、指定された言語のメッセージが用意されているかを返します
func IsSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if strings.EqualFold(l, locale) {
			return true
		}
	}
	return false
}

// Localizer は、特定の言語でメッセージを組み立てます
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// For は、Accept-Language の値に最も近い言語のLocalizerを返します
// 空または解析できない場合は既定言語になります
func (c *Catalog) For(acceptLanguage string) *Localizer {
	tag := c.fallback
	if acceptLanguage != "" {
		desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err != nil {
			log.Printf("Accept-Languageの解析に失敗: %q, %v", acceptLanguage, err)
		} else if len(desired) > 0 {
			_, index, _ := c.matcher.Match(desired...)
			if index >= 0 && index < len(c.tags) {
				tag = c.tags[index]
			}
		}
	}
	return c.localizer(tag)
}

// Default は既定言語のLocalizerを返します
func (c *Catalog) Default() *Localizer {
	return c.localizer(c.fallback)
}

func (c *Catalog) localizer(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
		title:   cases.Title(tag),
	}
}

// Language は、Localizerの言語コードを返します
func (l *Localizer) Language() string {
	return l.tag.String()
}

// Message は、キーに対応するメッセージを返します
func (l *Localizer) Message(key Key, args ...interface{}) string {
	return l.printer.Sprintf(string(key), args...)
}

// Label は、見出し用に先頭を大文字化したメッセージを返します
func (l *Localizer) Label(key Key) string {
	return l.title.String(l.Message(key))
}

// Size は、バイト数を人が読みやすい形式にします
func (l *Localizer) Size(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// Error は、ドメインエラーを利用者向けのメッセージに変換します
// 外部APIの技術的な内容は含めません
func (l *Localizer) Error(err error) string {
	if err == nil {
		return ""
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		switch verr.Kind {
		case domain.UnsupportedType:
			mimeType := verr.MIMEType
			if mimeType == "" {
				mimeType = "unknown"
			}
			return l.Message(KeyUnsupportedType, mimeType)
		case domain.TooLarge:
			return l.Message(KeyTooLarge, l.Size(verr.Size), l.Size(verr.MaxBytes))
		}
	}

	switch {
	case errors.Is(err, domain.ErrNoImage):
		return l.Message(KeyNoImage)
	case errors.Is(err, domain.ErrEmptyPrompt):
		return l.Message(KeyEmptyPrompt)
	case errors.Is(err, domain.ErrNoImageProduced):
		return l.Message(KeyGenerationFailed)
	case errors.Is(err, domain.ErrGenerationInFlight):
		return l.Message(KeyInFlight)
	case errors.Is(err, domain.ErrInvalidTransition):
		return l.Message(KeyInvalidTransition)
	case errors.Is(err, domain.ErrNoResult):
		return l.Message(KeyNoResult)
	case errors.Is(err, domain.ErrSessionNotFound):
		return l.Message(KeySessionNotFound)
	case errors.Is(err, domain.ErrPresetCategoryMismatch):
		return l.Message(KeyPresetMismatch)
	case errors.Is(err, domain.ErrPresetNotFound):
		return l.Message(KeyPresetNotFound, detail(err, domain.ErrPresetNotFound))
	case errors.Is(err, domain.ErrInvalidCategory):
		return l.Message(KeyInvalidCategory, detail(err, domain.ErrInvalidCategory))
	case errors.Is(err, domain.ErrInvalidGender):
		return l.Message(KeyInvalidGender, detail(err, domain.ErrInvalidGender))
	}
	return l.Message(KeyInternal)
}

// Outcome は、生成結果の失敗理由を利用者向けのメッセージに変換します
// 画像が返らなかった場合と外部APIのエラーは同じ汎用メッセージになります
func (l *Localizer) Outcome(outcome domain.GenerationOutcome) string {
	switch outcome.Failure {
	case domain.FailureEmptyPrompt:
		return l.Message(KeyEmptyPrompt)
	case domain.FailureNoImageProduced, domain.FailureProviderError:
		return l.Message(KeyGenerationFailed)
	}
	if outcome.IsSuccess() {
		return l.Message(KeyGenerationDone)
	}
	return ""
}

// detail は、"センチネル: 詳細" 形式のエラーから詳細部分を取り出します
func detail(err, sentinel error) string {
	prefix := sentinel.Error() + ": "
	msg := err.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
