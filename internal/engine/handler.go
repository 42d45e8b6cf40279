package engine

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skyeops/atlas/internal/pageconfig"
)

// Handler exposes the engine over HTTP.
type Handler struct {
	engine *Engine
}

func NewHandler(e *Engine) *Handler {
	return &Handler{engine: e}
}

// pageTemplate is the server-rendered shell. The first batch of
// sections is inlined as JSON so the client can paint immediately and
// fetch the rest progressively.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<div id="app" data-page="{{.PageName}}"></div>
{{if .Placeholder}}
<p class="placeholder">This page is under construction.</p>
{{else}}
<script id="bootstrap" type="application/json">{{.Bootstrap}}</script>
{{end}}
</body>
</html>
`))

type pageView struct {
	Title       string
	PageName    string
	Placeholder bool
	Bootstrap   template.JS
}

// Page handles GET /main/:page. It renders the shell with the first
// sections inlined; pages with no sections render a placeholder.
func (h *Handler) Page(c *fiber.Ctx) error {
	page, appErr := h.page(c)
	if appErr != nil {
		return appErr
	}

	view := pageView{Title: page.Name, PageName: page.Name}
	if len(page.Sections) == 0 {
		view.Placeholder = true
	} else {
		batch := h.engine.InitialBatch(c.Context(), page)
		bootstrap := map[string]any{
			"sections":           batch.Sections,
			"section_order":      batch.SectionOrder,
			"next_section_index": batch.NextIndex,
			"has_more":           batch.HasMore,
			"total_count":        batch.TotalCount,
		}
		raw, err := json.Marshal(bootstrap)
		if err != nil {
			return NewAppError("INTERNAL_ERROR", 500, "Failed to render page")
		}
		view.Bootstrap = template.JS(raw)
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return NewAppError("INTERNAL_ERROR", 500, "Failed to render page")
	}
	return c.SendString(buf.String())
}

// LoadMore handles POST /main/:page/load-more.
func (h *Handler) LoadMore(c *fiber.Ctx) error {
	page, appErr := h.page(c)
	if appErr != nil {
		return appErr
	}

	var body struct {
		StartIndex int `json:"start_index"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InputError("Invalid request body")
	}

	batch := h.engine.LoadBatch(c.Context(), page, body.StartIndex, h.engine.cfg.BatchSize)
	return c.JSON(batch)
}

// Search handles POST /main/:page/search.
func (h *Handler) Search(c *fiber.Ctx) error {
	page, appErr := h.page(c)
	if appErr != nil {
		return appErr
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&body); err != nil {
		return InputError("Invalid request body")
	}
	query := strings.TrimSpace(body.Query)
	if query == "" {
		return InputError("Search query is required")
	}

	return c.JSON(h.engine.Search(c.Context(), page, query))
}

// SectionData handles GET /main/:page/:section/data?page=N.
func (h *Handler) SectionData(c *fiber.Ctx) error {
	section, appErr := h.section(c)
	if appErr != nil {
		return appErr
	}

	pageNum := c.QueryInt("page", 1)
	result, appErr := h.engine.FullData(c.Context(), section, pageNum)
	if appErr != nil {
		return appErr
	}
	return c.JSON(result)
}

// Fields handles GET /main/:page/:section/fields.
func (h *Handler) Fields(c *fiber.Ctx) error {
	section, appErr := h.section(c)
	if appErr != nil {
		return appErr
	}

	fields, model, appErr := h.engine.FormFields(c.Context(), section)
	if appErr != nil {
		return appErr
	}
	return c.JSON(fiber.Map{"fields": fields, "model_name": model})
}

// Add handles POST /main/:page/:section/add.
func (h *Handler) Add(c *fiber.Ctx) error {
	section, appErr := h.section(c)
	if appErr != nil {
		return appErr
	}

	payload, appErr := parsePayload(c)
	if appErr != nil {
		return appErr
	}

	result, appErr := h.engine.Create(c.Context(), section, payload)
	if appErr != nil {
		return appErr
	}
	return c.JSON(result)
}

// Edit handles /main/:page/:section/:id/edit. GET returns the record,
// POST applies an update; anything else is rejected.
func (h *Handler) Edit(c *fiber.Ctx) error {
	section, appErr := h.section(c)
	if appErr != nil {
		return appErr
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return NotFoundError("record", c.Params("id"))
	}

	switch c.Method() {
	case fiber.MethodGet:
		row, appErr := h.engine.GetRecord(c.Context(), section, id)
		if appErr != nil {
			return appErr
		}
		return c.JSON(fiber.Map{"data": row})
	case fiber.MethodPost:
		payload, appErr := parsePayload(c)
		if appErr != nil {
			return appErr
		}
		result, appErr := h.engine.Update(c.Context(), section, id, payload)
		if appErr != nil {
			return appErr
		}
		return c.JSON(result)
	default:
		return MethodNotAllowedError()
	}
}

// FKOptions handles GET /main/:page/:section/fk/:field.
func (h *Handler) FKOptions(c *fiber.Ctx) error {
	section, appErr := h.section(c)
	if appErr != nil {
		return appErr
	}

	field, appErr := pathParam(c, "field")
	if appErr != nil {
		return appErr
	}

	options, emptyLabel, appErr := h.engine.FKOptions(c.Context(), section, field)
	if appErr != nil {
		return appErr
	}
	return c.JSON(fiber.Map{"options": options, "empty_label": emptyLabel})
}

// --- route parameter helpers ---

func (h *Handler) page(c *fiber.Ctx) (*pageconfig.Page, *AppError) {
	name, appErr := pathParam(c, "page")
	if appErr != nil {
		return nil, appErr
	}
	page, err := h.engine.pages.Get(name)
	if err != nil {
		return nil, NotFoundError("page", name)
	}
	return page, nil
}

func (h *Handler) section(c *fiber.Ctx) (*pageconfig.Section, *AppError) {
	page, appErr := h.page(c)
	if appErr != nil {
		return nil, appErr
	}
	name, appErr := pathParam(c, "section")
	if appErr != nil {
		return nil, appErr
	}
	section := page.Section(name)
	if section == nil {
		return nil, NotFoundError("section", name)
	}
	return section, nil
}

// pathParam unescapes a route parameter. Section and page names carry
// spaces, which arrive percent-encoded.
func pathParam(c *fiber.Ctx, name string) (string, *AppError) {
	raw := c.Params(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", InputError(fmt.Sprintf("Invalid %s parameter", name))
	}
	return value, nil
}

func parsePayload(c *fiber.Ctx) (map[string]any, *AppError) {
	payload := map[string]any{}
	if len(c.Body()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return nil, InputError("Invalid request body")
	}
	return payload, nil
}
