package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"
	"productstudio/internal/infrastructure/memory"
	infraSentry "productstudio/internal/infrastructure/sentry"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	input       string
	output      string
	category    string
	gender      string
	preset      string
	custom      string
	instruction string
	lang        string
}

func newGenerateCmd(app *App) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "画像ファイルから背景を差し替えた画像を1枚生成します",
		Example: `  productstudio generate -i bag.jpg --preset marble-luxury
  productstudio generate -i shirt.png -c fashion --preset male-model-suit -o out.png
  productstudio generate -i mug.webp --custom "朝の光が差し込む木製のカウンター"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "入力画像のパス (JPEG, PNG, WEBP, HEIC)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", domain.DownloadFilename, "出力ファイルのパス")
	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "カテゴリ (product, fashion)。省略時は設定の既定値")
	cmd.Flags().StringVarP(&opts.gender, "gender", "g", "", "モデルの性別 (female, male)")
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "背景プリセットのID。省略時はカテゴリの先頭")
	cmd.Flags().StringVar(&opts.custom, "custom", "", "背景・シーンの説明。指定するとプリセットより優先されます")
	cmd.Flags().StringVar(&opts.instruction, "instruction", "", "追加の指示文")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "メッセージの言語 (ja, en, ar)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runGenerate(parent context.Context, app *App, opts *generateOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	locale := cfg.Studio.DefaultLocale
	if opts.lang != "" {
		locale = opts.lang
	}
	catalog, err := i18n.NewCatalog(locale)
	if err != nil {
		return err
	}
	l := catalog.Default()

	category := domain.Category(cfg.Studio.DefaultCategory)
	if opts.category != "" {
		if category, err = domain.ParseCategory(opts.category); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("入力画像の読み込みに失敗: %w", err)
	}

	generator, err := app.NewGenerator(ctx, &cfg.Gemini)
	if err != nil {
		return err
	}

	studio, err := application.NewStudioApplicationService(
		memory.NewSessionRepository(),
		memory.NewPreviewRegistry(),
		application.NewGenerationOrchestrator(generator, infraSentry.NewLogReporter()),
		domain.NewUploadValidator(cfg.Studio.MaxUploadBytes),
		application.StudioOptions{
			DefaultCategory:   category,
			GenerationTimeout: cfg.Studio.GenerationTimeout,
		},
	)
	if err != nil {
		return err
	}

	snap, err := studio.StartSession(ctx, category)
	if err != nil {
		return err
	}
	id := snap.ID

	info := domain.FileInfo{
		Name:     filepath.Base(opts.input),
		MIMEType: detectMIMEType(opts.input, data),
		Size:     int64(len(data)),
	}
	if _, err := studio.Upload(ctx, id, info, data); err != nil {
		return fmt.Errorf("%s", l.Error(err))
	}

	if opts.gender != "" {
		gender, err := domain.ParseGender(opts.gender)
		if err != nil {
			return err
		}
		if _, err := studio.SetGender(ctx, id, gender); err != nil {
			return fmt.Errorf("%s", l.Error(err))
		}
	}
	if opts.preset != "" {
		if _, err := studio.SelectPreset(ctx, id, opts.preset); err != nil {
			return fmt.Errorf("%s", l.Error(err))
		}
	}
	if opts.custom != "" {
		if _, err := studio.SetCustomText(ctx, id, opts.custom); err != nil {
			return fmt.Errorf("%s", l.Error(err))
		}
	}

	snap, err = studio.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "🎨 %s (%s, %s)\n", l.Message(i18n.KeyGenerating), snap.Category.DisplayName(), describeChoice(snap))

	result, err := studio.Generate(ctx, id, opts.instruction)
	if err != nil {
		return fmt.Errorf("%s", l.Error(err))
	}
	if !result.Outcome.IsSuccess() {
		return fmt.Errorf("%s", l.Outcome(result.Outcome))
	}

	dl, err := studio.Download(ctx, id)
	if err != nil {
		return fmt.Errorf("%s", l.Error(err))
	}
	if err := os.WriteFile(opts.output, dl.Data, 0o644); err != nil {
		return fmt.Errorf("生成画像の保存に失敗: %w", err)
	}

	fmt.Fprintf(app.Out, "✅ %s %s (%s)\n", l.Message(i18n.KeyGenerationDone), opts.output, humanize.IBytes(uint64(len(dl.Data))))
	return studio.EndSession(ctx, id)
}

// detectMIMEType は、内容から画像形式を判定し、判定できない場合は拡張子を使います
func detectMIMEType(path string, data []byte) string {
	detected := domain.NormalizeMIMEType(http.DetectContentType(data))
	for _, allowed := range domain.DefaultAllowedTypes {
		if detected == allowed {
			return detected
		}
	}
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	switch filepath.Ext(path) {
	case ".heic", ".HEIC":
		return "image/heic"
	}
	return detected
}

func describeChoice(snap domain.SessionSnapshot) string {
	switch snap.ChoiceKind {
	case domain.ChoicePreset:
		if p, ok := domain.FindPreset(snap.PresetID); ok {
			return p.Icon + " " + p.DisplayName
		}
	case domain.ChoiceCustom:
		return "✏️ " + snap.CustomText
	}
	return "-"
}
