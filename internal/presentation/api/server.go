package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"productstudio/internal/application"
	"productstudio/internal/infrastructure/i18n"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const headerAcceptLanguage = "Accept-Language"

// CustomValidator は、go-playground/validator をechoのValidatorとして使います
type CustomValidator struct {
	validator *validator.Validate
}

// Validate は構造体のタグに従ってリクエストを検証します
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ServerOptions は、HTTPサーバーの動作設定です
type ServerOptions struct {
	// SentryEnabled がtrueの場合、sentryechoミドルウェアでパニックとエラーを送信します
	SentryEnabled bool
	// RequestLogging がtrueの場合、リクエストごとにアクセスログを出力します
	RequestLogging bool
}

// Server は、スタジオ操作をJSON APIとして公開するHTTPサーバーです
type Server struct {
	echo *echo.Echo
}

// SetupServer は、ルーティングとミドルウェアを設定したechoインスタンスを返します
func SetupServer(service *application.StudioApplicationService, catalog *i18n.Catalog, options ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v := validator.New()
	v.RegisterValidation("category", validateCategory)
	v.RegisterValidation("gender", validateGender)
	v.RegisterValidation("viewmode", validateViewMode)
	e.Validator = &CustomValidator{validator: v}

	e.Use(middleware.Recover())
	if options.RequestLogging {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, headerAcceptLanguage},
	}))
	if options.SentryEnabled {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	controller := StudioController{
		Service: service,
		Catalog: catalog,
		Sentry:  options.SentryEnabled,
	}
	controller.StudioRoutes(e.Group("/api"))

	return e
}

// NewServer は新しいServerインスタンスを作成します
func NewServer(service *application.StudioApplicationService, catalog *i18n.Catalog, options ServerOptions) *Server {
	return &Server{echo: SetupServer(service, catalog, options)}
}

// Handler は、テストや組み込み用にhttp.Handlerを返します
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start は、指定アドレスで待ち受けを開始します
// Shutdownで停止した場合はnilを返します
func (s *Server) Start(addr string) error {
	log.Printf("HTTPサーバーを起動します: %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown は、処理中のリクエストを待ってサーバーを停止します
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("HTTPサーバーを停止します")
	return s.echo.Shutdown(ctx)
}

// captureError は、5xxとなったエラーをSentryへ送信します
func captureError(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
