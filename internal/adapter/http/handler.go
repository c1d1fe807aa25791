// Package http exposes the studio API over fiber: document operations,
// preview state, exports, the cover letter, panels, and the account proxy.
package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/adapter/backend"
	"cv-builder/internal/domain"
	"cv-builder/internal/fit"
	"cv-builder/internal/letter"
	"cv-builder/internal/model"
	"cv-builder/internal/panel"
	"cv-builder/internal/render"
	"cv-builder/internal/state"
	"cv-builder/internal/store/localstore"
	"cv-builder/internal/telemetry"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"
)

// JobsLister reads export-job history.
type JobsLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.ExportJob, error)
}

// Handler wires the studio's components behind the HTTP surface.
type Handler struct {
	store     *state.Store
	previewer *fit.Previewer
	processor *usecase.Processor
	jobs      JobsLister
	local     *localstore.Store
	backend   *backend.Client
	panels    *panel.Group

	geminiModel    string
	geminiFallback string
}

func NewHandler(
	store *state.Store,
	previewer *fit.Previewer,
	processor *usecase.Processor,
	jobs JobsLister,
	local *localstore.Store,
	bk *backend.Client,
	panels *panel.Group,
	geminiModel, geminiFallback string,
) *Handler {
	return &Handler{
		store:          store,
		previewer:      previewer,
		processor:      processor,
		jobs:           jobs,
		local:          local,
		backend:        bk,
		panels:         panels,
		geminiModel:    geminiModel,
		geminiFallback: geminiFallback,
	}
}

// Register mounts all routes on app.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/document", h.GetDocument)
	api.Get("/document/pair/:lang", h.GetDocumentPair)
	api.Put("/document/personal", h.PutPersonal)
	api.Put("/document/summary", h.PutSummary)
	api.Put("/document/template", h.PutTemplate)
	api.Put("/document/language", h.PutLanguage)
	api.Put("/document/data", h.PutData)
	api.Post("/document/reset", h.ResetDocument)
	api.Post("/document/import", h.ImportSnapshot)

	api.Put("/sections/visibility", h.PutSectionVisibility)
	api.Put("/sections/order", h.PutSectionOrder)

	api.Get("/templates", h.ListTemplates)

	api.Get("/preview", h.GetPreview)
	api.Post("/preview/reload", h.ReloadPreview)

	api.Get("/export/:kind", h.Export)
	api.Get("/exports", h.ListExports)

	api.Get("/letter", h.GetLetter)
	api.Put("/letter", h.PutLetter)
	api.Post("/letter/draft", h.DraftLetter)
	api.Get("/letter/pdf", h.ExportLetter)

	api.Post("/auth/login", h.Login)
	api.Post("/auth/logout", h.Logout)
	api.Get("/user/apikey", h.GetKeyStatus)
	api.Put("/user/apikey", h.PutKey)
	api.Post("/payments", h.RegisterPayment)

	api.Get("/panels", h.GetPanels)
	api.Post("/panels/:name/:action", h.PanelAction)
}

// fail writes the error envelope shared by every endpoint.
func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"code": code, "message": msg},
	})
}

// --- Document ---

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	doc, version := h.store.Snapshot()
	return c.JSON(fiber.Map{"document": doc, "version": version})
}

func (h *Handler) GetDocumentPair(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if lang != "es" && lang != "en" {
		return fail(c, fiber.StatusBadRequest, "bad_language", "language must be es or en")
	}
	return c.JSON(fiber.Map{"document": h.store.Pair(lang)})
}

func (h *Handler) dispatch(c *fiber.Ctx, op state.Op) error {
	if err := h.store.Dispatch(op); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid_operation", err.Error())
	}
	_, version := h.store.Snapshot()
	return c.JSON(fiber.Map{"version": version})
}

func (h *Handler) PutPersonal(c *fiber.Ctx) error {
	var data model.PersonalData
	if err := c.BodyParser(&data); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid personal data payload")
	}
	return h.dispatch(c, state.SetPersonalData{Data: data})
}

func (h *Handler) PutSummary(c *fiber.Ctx) error {
	var req struct {
		Summary string `json:"summary"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid summary payload")
	}
	return h.dispatch(c, state.SetSummary{Summary: req.Summary})
}

func (h *Handler) PutTemplate(c *fiber.Ctx) error {
	var req struct {
		Template string `json:"template"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid template payload")
	}
	if !knownTemplate(req.Template) {
		return fail(c, fiber.StatusBadRequest, "unknown_template",
			fmt.Sprintf("template %q is not available", req.Template))
	}
	return h.dispatch(c, state.SetTemplate{Template: req.Template})
}

func (h *Handler) PutLanguage(c *fiber.Ctx) error {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid language payload")
	}
	return h.dispatch(c, state.SetLanguage{Language: req.Language})
}

func (h *Handler) PutData(c *fiber.Ctx) error {
	var data model.CVData
	if err := c.BodyParser(&data); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid cv data payload")
	}
	return h.dispatch(c, state.ReplaceCVData{Data: data})
}

func (h *Handler) ResetDocument(c *fiber.Ctx) error {
	if err := h.local.SaveLetter(""); err != nil {
		telemetry.Warn("clearing letter failed", map[string]any{"error": err.Error()})
	}
	return h.dispatch(c, state.Reset{})
}

// ImportSnapshot validates and applies a full snapshot. Validation failures
// leave the current document untouched.
func (h *Handler) ImportSnapshot(c *fiber.Ctx) error {
	doc, err := model.ImportSnapshot(c.Body())
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid_snapshot", err.Error())
	}
	return h.dispatch(c, state.ReplaceDocument{Doc: doc})
}

// --- Sections ---

func (h *Handler) PutSectionVisibility(c *fiber.Ctx) error {
	var req struct {
		Section string `json:"section"`
		Visible bool   `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid visibility payload")
	}
	return h.dispatch(c, state.SetSectionVisible{Section: req.Section, Visible: req.Visible})
}

func (h *Handler) PutSectionOrder(c *fiber.Ctx) error {
	var req struct {
		Section  string `json:"section"`
		Position int    `json:"position"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid order payload")
	}
	return h.dispatch(c, state.ReorderSection{Section: req.Section, Position: req.Position})
}

func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": render.TemplateNames})
}

// --- Preview ---

func (h *Handler) GetPreview(c *fiber.Ctx) error {
	res, ok := h.previewer.Result()
	if !ok {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "pending"})
	}
	if res.Err != nil {
		return c.JSON(fiber.Map{
			"status":  "error",
			"version": res.Version,
			"error":   res.Err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ready",
		"html":     res.HTML,
		"heightPx": res.HeightPx,
		"extended": res.Extended,
		"version":  res.Version,
	})
}

func (h *Handler) ReloadPreview(c *fiber.Ctx) error {
	h.previewer.Reload()
	return c.SendStatus(fiber.StatusAccepted)
}

// --- Export ---

func (h *Handler) Export(c *fiber.Ctx) error {
	kind, err := exportKind(c.Params("kind"), c.Query("strategy", "raster"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unknown_kind", err.Error())
	}
	doc, _ := h.store.Snapshot()

	job, blob, err := h.processor.Export(c.Context(), doc, kind, c.Query("userId"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "export_failed", err.Error())
	}

	name := fmt.Sprintf("cv-%s.%s", time.Now().Format("20060102"), artifactExt(kind))
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderContentType, contentType(kind))
	c.Set("X-Export-Job", job.ID.String())
	return c.Send(blob)
}

func (h *Handler) ListExports(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListRecent(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "history_failed", err.Error())
	}
	if jobs == nil {
		jobs = []domain.ExportJob{}
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

func exportKind(kind, strategy string) (string, error) {
	switch kind {
	case "png":
		return domain.KindPNG, nil
	case "json":
		return domain.KindSnapshot, nil
	case "pdf":
		switch strategy {
		case "raster":
			return domain.KindPDFRaster, nil
		case "native":
			return domain.KindPDFNative, nil
		}
		return "", fmt.Errorf("unknown pdf strategy %q", strategy)
	}
	return "", fmt.Errorf("unknown export kind %q", kind)
}

func contentType(kind string) string {
	switch kind {
	case domain.KindPNG:
		return "image/png"
	case domain.KindSnapshot:
		return "application/json"
	default:
		return "application/pdf"
	}
}

func artifactExt(kind string) string {
	switch kind {
	case domain.KindPNG:
		return "png"
	case domain.KindSnapshot:
		return "json"
	default:
		return "pdf"
	}
}

// --- Cover letter ---

func (h *Handler) GetLetter(c *fiber.Ctx) error {
	body, err := h.local.LoadLetter()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "letter_load_failed", err.Error())
	}
	return c.JSON(fiber.Map{"body": body})
}

func (h *Handler) PutLetter(c *fiber.Ctx) error {
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid letter payload")
	}
	if err := h.local.SaveLetter(req.Body); err != nil {
		return fail(c, fiber.StatusInternalServerError, "letter_save_failed", err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DraftLetter generates a letter body through the user's Gemini key. Key
// problems map to distinct codes so the UI can route the user to the right
// recovery flow.
func (h *Handler) DraftLetter(c *fiber.Ctx) error {
	var in letter.Input
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid draft payload")
	}

	status, err := h.backend.FetchKeyStatus(c.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthenticated) {
			return fail(c, fiber.StatusUnauthorized, "not_logged_in", "log in before drafting")
		}
		return fail(c, fiber.StatusBadGateway, "backend_unavailable", err.Error())
	}
	if status.Key == "" {
		return fail(c, fiber.StatusPreconditionFailed, "key_missing", "no generation API key registered")
	}

	doc, _ := h.store.Snapshot()
	composer := letter.NewComposer(ai.NewClient(status.Key, h.geminiModel, h.geminiFallback))
	body, err := composer.Draft(c.Context(), doc.CVData.PersonalData, in, doc.Language)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrKeyMissing):
			return fail(c, fiber.StatusPreconditionFailed, "key_missing", err.Error())
		case errors.Is(err, ai.ErrKeyInvalid):
			return fail(c, fiber.StatusUnauthorized, "key_invalid", err.Error())
		default:
			return fail(c, fiber.StatusBadGateway, "generation_failed", err.Error())
		}
	}
	if err := h.local.SaveLetter(body); err != nil {
		telemetry.Warn("persisting drafted letter failed", map[string]any{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"body": body})
}

func (h *Handler) ExportLetter(c *fiber.Ctx) error {
	body, err := h.local.LoadLetter()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "letter_load_failed", err.Error())
	}
	if body == "" {
		return fail(c, fiber.StatusBadRequest, "letter_empty", "write or draft a letter first")
	}
	doc, _ := h.store.Snapshot()
	job, blob, err := h.processor.ExportLetter(c.Context(), doc, body)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "export_failed", err.Error())
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cover-letter.pdf"`)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set("X-Export-Job", job.ID.String())
	return c.Send(blob)
}

// --- Account ---

func (h *Handler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid login payload")
	}
	user, err := h.backend.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "login_failed", err.Error())
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	h.backend.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetKeyStatus(c *fiber.Ctx) error {
	status, err := h.backend.FetchKeyStatus(c.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthenticated) {
			return fail(c, fiber.StatusUnauthorized, "not_logged_in", "log in first")
		}
		return fail(c, fiber.StatusBadGateway, "backend_unavailable", err.Error())
	}
	// Only presence is reported; the key itself stays server-side.
	return c.JSON(fiber.Map{"hasKey": status.HasKey})
}

func (h *Handler) PutKey(c *fiber.Ctx) error {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid key payload")
	}
	if req.APIKey == "" {
		return fail(c, fiber.StatusBadRequest, "key_empty", "apiKey is required")
	}
	if err := h.backend.StoreKey(c.Context(), req.APIKey); err != nil {
		if errors.Is(err, backend.ErrUnauthenticated) {
			return fail(c, fiber.StatusUnauthorized, "not_logged_in", "log in first")
		}
		return fail(c, fiber.StatusBadGateway, "backend_unavailable", err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterPayment is fire-and-forget: the response never depends on the
// backend call's outcome.
func (h *Handler) RegisterPayment(c *fiber.Ctx) error {
	var req struct {
		SaleID string `json:"saleId"`
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "bad_payload", "invalid payment payload")
	}
	go h.backend.RegisterPayment(context.Background(), req.SaleID, req.UserID)
	return c.SendStatus(fiber.StatusAccepted)
}

// --- Panels ---

func (h *Handler) GetPanels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"panels": h.panels.Snapshot()})
}

func (h *Handler) PanelAction(c *fiber.Ctx) error {
	name := c.Params("name")
	var err error
	switch c.Params("action") {
	case "request":
		err = h.panels.Request(name)
	case "dismiss":
		err = h.panels.Dismiss(name)
	case "toggle":
		err = h.panels.Toggle(name)
	case "transition-end":
		h.panels.TransitionEnd(name)
	default:
		return fail(c, fiber.StatusBadRequest, "unknown_action", "unknown panel action")
	}
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unknown_panel", err.Error())
	}
	return c.JSON(fiber.Map{"panels": h.panels.Snapshot()})
}

func knownTemplate(name string) bool {
	for _, t := range render.TemplateNames {
		if t == name {
			return true
		}
	}
	return false
}
