package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"productstudio/configs"
	"productstudio/internal/application"
	"productstudio/internal/infrastructure/config"
	"productstudio/internal/infrastructure/gemini"

	"github.com/spf13/cobra"
)

var version = "dev"

// App は、コマンドが使う入出力と依存関係をまとめたものです
type App struct {
	Out          io.Writer
	Err          io.Writer
	LoadConfig   func() (*configs.Config, error)
	NewGenerator func(ctx context.Context, cfg *config.GeminiConfig) (application.ImageGenerator, error)
}

// DefaultApp は、標準入出力と本番の依存関係を使うAppを返します
func DefaultApp() *App {
	return &App{
		Out:        os.Stdout,
		Err:        os.Stderr,
		LoadConfig: configs.LoadConfig,
		NewGenerator: func(ctx context.Context, cfg *config.GeminiConfig) (application.ImageGenerator, error) {
			return gemini.NewImageClient(ctx, cfg)
		},
	}
}

func main() {
	if err := newRootCmd(DefaultApp()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "productstudio",
		Short: "商品写真の背景差し替えとモデル着用画像を生成します",
		Long: `productstudio は、商品写真の背景をプリセットや説明文で差し替える画像生成ツールです。

サブコマンド:
  serve    Discord Bot と HTTP API を起動
  generate 画像ファイルから1枚生成して保存
  presets  背景プリセットの一覧を表示`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(app.Out)
	cmd.SetErr(app.Err)

	cmd.AddCommand(
		newServeCmd(app),
		newGenerateCmd(app),
		newPresetsCmd(app),
	)
	return cmd
}
