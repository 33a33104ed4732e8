package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"productstudio/configs"
	"productstudio/internal/application"
	"productstudio/internal/domain"
	discordInfra "productstudio/internal/infrastructure/discord"
	"productstudio/internal/infrastructure/i18n"
	"productstudio/internal/infrastructure/memory"
	infraSentry "productstudio/internal/infrastructure/sentry"
	"productstudio/internal/presentation/api"
	discordPres "productstudio/internal/presentation/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	requestLogging bool
}

func newServeCmd(app *App) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Discord Bot と HTTP API を起動します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.requestLogging, "access-log", true, "HTTPのアクセスログを出力する")
	return cmd
}

func runServe(parent context.Context, app *App, opts *serveOptions) error {
	log.Println("Product AI Studio を起動中...")

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return err
	}

	sentryEnabled, err := infraSentry.Init(cfg.Sentry, version)
	if err != nil {
		return err
	}
	defer infraSentry.Flush()

	var reporter application.ErrorReporter = infraSentry.NewLogReporter()
	if sentryEnabled {
		reporter = infraSentry.NewReporter()
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := app.NewGenerator(ctx, &cfg.Gemini)
	if err != nil {
		return err
	}

	studio, err := application.NewStudioApplicationService(
		memory.NewSessionRepository(),
		memory.NewPreviewRegistry(),
		application.NewGenerationOrchestrator(generator, reporter),
		domain.NewUploadValidator(cfg.Studio.MaxUploadBytes),
		application.StudioOptions{
			DefaultCategory:   domain.Category(cfg.Studio.DefaultCategory),
			GenerationTimeout: cfg.Studio.GenerationTimeout,
		},
	)
	if err != nil {
		return err
	}

	catalog, err := i18n.NewCatalog(cfg.Studio.DefaultLocale)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTP.Enabled {
		server := api.NewServer(studio, catalog, api.ServerOptions{
			SentryEnabled:  sentryEnabled,
			RequestLogging: opts.requestLogging,
		})
		g.Go(func() error {
			return server.Start(cfg.HTTP.Addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Discord.Enabled {
		session, err := startDiscord(cfg, studio, catalog)
		if err != nil {
			stop()
			g.Wait()
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			log.Println("Discordから切断しています...")
			return session.Close()
		})
	}

	log.Println("準備が完了しました。終了するには Ctrl+C を押してください")

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("正常に停止しました。")
	return nil
}

// startDiscord は、Discordに接続してハンドラーとスラッシュコマンドを登録します
func startDiscord(cfg *configs.Config, studio *application.StudioApplicationService, catalog *i18n.Catalog) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return nil, fmt.Errorf("Discordセッションの作成に失敗: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("Bot情報の取得に失敗: %w", err)
	}
	log.Printf("Bot情報: %s (ID: %s)", user.Username, user.ID)

	attachments := discordInfra.NewDiscordAttachmentRepository(session, cfg.Studio.MaxUploadBytes)
	handler := discordPres.NewDiscordHandler(
		session,
		studio,
		attachments,
		catalog,
		user.ID,
		domain.Category(cfg.Studio.DefaultCategory),
	)
	handler.SetupHandlers()

	// Discordに接続
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("Discordへの接続に失敗: %w", err)
	}

	if err := handler.SetupSlashCommands(); err != nil {
		session.Close()
		return nil, fmt.Errorf("スラッシュコマンドの設定に失敗: %w", err)
	}

	log.Println("Discordに接続しました。利用可能なスラッシュコマンド:")
	log.Println("  /studio  - 操作パネルを表示")
	log.Println("  /presets - 背景プリセットの一覧")
	log.Println("  /reset   - 最初からやり直す")
	return session, nil
}
