package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"productstudio/internal/application"
	"productstudio/internal/domain"
	"productstudio/internal/infrastructure/i18n"

	"github.com/labstack/echo/v4"
)

// StudioController は、セッション操作のHTTPハンドラーをまとめます
type StudioController struct {
	Service *application.StudioApplicationService
	Catalog *i18n.Catalog
	Sentry  bool
}

func (controller *StudioController) StudioRoutes(g *echo.Group) {
	g.GET("/presets", controller.ListPresets)
	g.GET("/previews/:handle", controller.GetPreview)

	g.POST("/sessions", controller.CreateSession)
	sessions := g.Group("/sessions/:id")
	sessions.GET("", controller.GetSession)
	sessions.DELETE("", controller.DeleteSession)
	sessions.POST("/image", controller.UploadImage)
	sessions.PUT("/category", controller.SetCategory)
	sessions.PUT("/gender", controller.SetGender)
	sessions.PUT("/preset", controller.SelectPreset)
	sessions.PUT("/custom", controller.SetCustomText)
	sessions.POST("/generate", controller.Generate)
	sessions.POST("/reset", controller.Reset)
	sessions.PUT("/view", controller.SetView)
	sessions.POST("/view/toggle", controller.ToggleView)
	sessions.GET("/result", controller.GetResult)
	sessions.GET("/download", controller.Download)
}

func (controller *StudioController) localizer(c echo.Context) *i18n.Localizer {
	return controller.Catalog.For(c.Request().Header.Get(headerAcceptLanguage))
}

func (controller *StudioController) ListPresets(c echo.Context) error {
	l := controller.localizer(c)

	category := c.QueryParam("category")
	gender := c.QueryParam("gender")

	if category == "" {
		return c.JSON(http.StatusOK, PresetListResponse{Presets: toPresetResponses(domain.AllPresets())})
	}

	cat, err := domain.ParseCategory(category)
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}

	var g domain.Gender
	if gender != "" {
		if g, err = domain.ParseGender(gender); err != nil {
			return controller.respondError(c, l, err, nil)
		}
	}

	return c.JSON(http.StatusOK, PresetListResponse{Presets: toPresetResponses(domain.PresetsFor(cat, g))})
}

func (controller *StudioController) CreateSession(c echo.Context) error {
	l := controller.localizer(c)

	var req CreateSessionIn
	if err := c.Bind(&req); err != nil {
		log.Printf("リクエストの解析に失敗: %v", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: l.Message(i18n.KeyInvalidRequest), Code: "invalid_request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
	}

	snap, err := controller.Service.StartSession(c.Request().Context(), domain.Category(req.Category))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(snap, l))
}

func (controller *StudioController) GetSession(c echo.Context) error {
	l := controller.localizer(c)
	snap, err := controller.Service.Snapshot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap, l))
}

func (controller *StudioController) DeleteSession(c echo.Context) error {
	l := controller.localizer(c)
	if err := controller.Service.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.NoContent(http.StatusNoContent)
}

func (controller *StudioController) UploadImage(c echo.Context) error {
	l := controller.localizer(c)
	ctx := c.Request().Context()
	id := c.Param("id")

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: l.Message(i18n.KeyNoImage), Code: "no_image"})
	}

	info := domain.FileInfo{
		Name:     file.Filename,
		MIMEType: file.Header.Get(echo.HeaderContentType),
		Size:     file.Size,
	}
	// 内容を読み込む前にメタデータだけで弾く
	if err := controller.Service.Validator().Validate(info); err != nil {
		return controller.respondError(c, l, err, nil)
	}

	src, err := file.Open()
	if err != nil {
		return controller.respondError(c, l, fmt.Errorf("アップロードファイルを開けません: %w", err), nil)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, controller.Service.Validator().MaxBytes+1))
	if err != nil {
		return controller.respondError(c, l, fmt.Errorf("アップロードファイルの読み込みに失敗: %w", err), nil)
	}

	snap, err := controller.Service.Upload(ctx, id, info, data)
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap, l))
}

func (controller *StudioController) SetCategory(c echo.Context) error {
	var req SetCategoryIn
	return controller.update(c, &req, func(ctx context.Context, id string) (domain.SessionSnapshot, error) {
		return controller.Service.SetCategory(ctx, id, domain.Category(req.Category))
	})
}

func (controller *StudioController) SetGender(c echo.Context) error {
	var req SetGenderIn
	return controller.update(c, &req, func(ctx context.Context, id string) (domain.SessionSnapshot, error) {
		return controller.Service.SetGender(ctx, id, domain.Gender(req.Gender))
	})
}

func (controller *StudioController) SelectPreset(c echo.Context) error {
	var req SelectPresetIn
	return controller.update(c, &req, func(ctx context.Context, id string) (domain.SessionSnapshot, error) {
		return controller.Service.SelectPreset(ctx, id, req.PresetID)
	})
}

func (controller *StudioController) SetCustomText(c echo.Context) error {
	var req SetCustomTextIn
	return controller.update(c, &req, func(ctx context.Context, id string) (domain.SessionSnapshot, error) {
		return controller.Service.SetCustomText(ctx, id, req.Text)
	})
}

func (controller *StudioController) SetView(c echo.Context) error {
	var req SetViewIn
	return controller.update(c, &req, func(ctx context.Context, id string) (domain.SessionSnapshot, error) {
		return controller.Service.SetView(ctx, id, domain.ViewMode(req.Mode))
	})
}

func (controller *StudioController) ToggleView(c echo.Context) error {
	l := controller.localizer(c)
	snap, err := controller.Service.ToggleView(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, &snap)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap, l))
}

func (controller *StudioController) Generate(c echo.Context) error {
	l := controller.localizer(c)

	var req GenerateIn
	if err := c.Bind(&req); err != nil {
		log.Printf("リクエストの解析に失敗: %v", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: l.Message(i18n.KeyInvalidRequest), Code: "invalid_request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
	}

	result, err := controller.Service.Generate(c.Request().Context(), c.Param("id"), req.Instruction)
	if err != nil {
		return controller.respondError(c, l, err, &result.Snapshot)
	}

	// 生成の失敗はセッションのErrorフェーズとして200で返す
	message := l.Outcome(result.Outcome)
	if !result.Applied {
		message = l.Message(i18n.KeyResetDone)
	}
	return c.JSON(http.StatusOK, GenerateResponse{
		Session: toSessionResponse(result.Snapshot, l),
		Applied: result.Applied,
		Message: message,
	})
}

func (controller *StudioController) Reset(c echo.Context) error {
	l := controller.localizer(c)
	snap, err := controller.Service.Reset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap, l))
}

func (controller *StudioController) GetResult(c echo.Context) error {
	l := controller.localizer(c)
	view, err := controller.Service.Result(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}

	resp := ResultResponse{
		Mode:      string(view.Mode),
		Generated: view.Generated.DataURL(),
		Filename:  domain.DownloadFilename,
	}
	if view.Mode == domain.ViewCompare && view.Original != nil {
		original := domain.EncodedImage{Data: view.Original.Data, MIMEType: view.Original.MIMEType}
		resp.Original = original.DataURL()
	}
	return c.JSON(http.StatusOK, resp)
}

func (controller *StudioController) Download(c echo.Context) error {
	l := controller.localizer(c)
	dl, err := controller.Service.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", dl.Filename))
	return c.Blob(http.StatusOK, dl.MIMEType, dl.Data)
}

func (controller *StudioController) GetPreview(c echo.Context) error {
	l := controller.localizer(c)
	data, mimeType, err := controller.Service.Preview(c.Request().Context(), domain.PreviewHandle(c.Param("handle")))
	if err != nil {
		return controller.respondError(c, l, err, nil)
	}
	return c.Blob(http.StatusOK, mimeType, data)
}

// update は、JSONボディを検証してからセッションを更新する共通処理です
func (controller *StudioController) update(c echo.Context, req interface{}, apply func(context.Context, string) (domain.SessionSnapshot, error)) error {
	l := controller.localizer(c)

	if err := c.Bind(req); err != nil {
		log.Printf("リクエストの解析に失敗: %v", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: l.Message(i18n.KeyInvalidRequest), Code: "invalid_request"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
	}

	snap, err := apply(c.Request().Context(), c.Param("id"))
	if err != nil {
		return controller.respondError(c, l, err, &snap)
	}
	return c.JSON(http.StatusOK, toSessionResponse(snap, l))
}

// respondError は、ドメインエラーをステータスコードと翻訳済みメッセージに変換して返します
func (controller *StudioController) respondError(c echo.Context, l *i18n.Localizer, err error, snap *domain.SessionSnapshot) error {
	status, code := statusFor(err)

	resp := ErrorResponse{Error: l.Error(err), Code: code}
	if snap != nil && snap.ID != "" {
		s := toSessionResponse(*snap, l)
		resp.Session = &s
	}

	if status >= http.StatusInternalServerError {
		log.Printf("リクエストの処理に失敗: %s %s, %v", c.Request().Method, c.Path(), err)
		if controller.Sentry {
			captureError(c, err)
		}
	}
	return c.JSON(status, resp)
}

// statusFor は、エラーに対応するHTTPステータスとエラーコードを返します
func statusFor(err error) (int, string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		switch verr.Kind {
		case domain.TooLarge:
			return http.StatusRequestEntityTooLarge, "too_large"
		case domain.UnsupportedType:
			return http.StatusUnsupportedMediaType, "unsupported_type"
		}
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrPreviewNotFound):
		return http.StatusNotFound, "preview_not_found"
	case errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest, "empty_prompt"
	case errors.Is(err, domain.ErrPresetCategoryMismatch):
		return http.StatusBadRequest, "preset_category_mismatch"
	case errors.Is(err, domain.ErrPresetNotFound):
		return http.StatusBadRequest, "preset_not_found"
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid_category"
	case errors.Is(err, domain.ErrInvalidGender):
		return http.StatusBadRequest, "invalid_gender"
	case errors.Is(err, domain.ErrGenerationInFlight):
		return http.StatusConflict, "generation_in_flight"
	case errors.Is(err, domain.ErrNoImage):
		return http.StatusConflict, "no_image"
	case errors.Is(err, domain.ErrNoResult):
		return http.StatusConflict, "no_result"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal"
}
