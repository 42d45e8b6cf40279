package engine

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*fiber.App, *Engine) {
	t.Helper()
	e := newTestEngine(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(zap.NewNop()),
	})
	RegisterRoutes(app, NewHandler(e))
	return app, e
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var parsed map[string]any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("invalid JSON response %q: %v", raw, err)
		}
	} else {
		parsed = map[string]any{"_body": string(raw)}
	}
	return resp, parsed
}

func TestPageRendersShell(t *testing.T) {
	app, e := newTestApp(t)
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")

	resp, body := doRequest(t, app, "GET", "/main/Catalog", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}

	html := body["_body"].(string)
	if !strings.Contains(html, "next_section_index") {
		t.Error("bootstrap JSON missing next_section_index")
	}
	if !strings.Contains(html, "Acme") {
		t.Error("initial sections not inlined")
	}
}

func TestPageUnknown(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, "GET", "/main/Nope", "")
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if body["error"] != "page 'Nope' not found" {
		t.Errorf("error envelope = %v", body)
	}
}

func TestLoadMoreEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, "POST", "/main/Catalog/load-more", `{"start_index": 0}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	sections, ok := body["sections"].(map[string]any)
	if !ok || len(sections) != 2 {
		t.Errorf("sections = %v", body["sections"])
	}
	if body["has_more"] != false {
		t.Errorf("has_more = %v", body["has_more"])
	}
	if body["next_index"] != float64(2) {
		t.Errorf("next_index = %v", body["next_index"])
	}
}

func TestSearchEndpointRejectsEmptyQuery(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, "POST", "/main/Catalog/search", `{"query": "   "}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "Search query is required" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestSearchEndpoint(t *testing.T) {
	app, e := newTestApp(t)
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")

	resp, body := doRequest(t, app, "POST", "/main/Catalog/search", `{"query": "acme"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["sections_found"] != float64(1) {
		t.Errorf("sections_found = %v", body["sections_found"])
	}
}

func TestSectionDataEndpoint(t *testing.T) {
	app, e := newTestApp(t)
	for i := 0; i < 3; i++ {
		mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "V")
	}

	resp, body := doRequest(t, app, "GET", "/main/Catalog/Venture/data?page=2", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	pagination := body["pagination"].(map[string]any)
	if pagination["current_page"] != float64(2) || pagination["total_count"] != float64(3) {
		t.Errorf("pagination = %v", pagination)
	}
}

func TestSectionNameWithSpaces(t *testing.T) {
	app, e := newTestApp(t)

	page, _ := e.pages.Get("Catalog")
	page.Sections = append(page.Sections, pageconfigSectionForTest())

	resp, _ := doRequest(t, app, "GET", "/main/Catalog/Spaced%20Out/data", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200 for escaped section name", resp.StatusCode)
	}
}

func TestFieldsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, "GET", "/main/Catalog/Products/fields", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["model_name"] != "Products" {
		t.Errorf("model_name = %v", body["model_name"])
	}
	if _, ok := body["fields"].([]any); !ok {
		t.Errorf("fields = %v", body["fields"])
	}
}

func TestAddAndEditEndpoints(t *testing.T) {
	app, e := newTestApp(t)
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")

	resp, body := doRequest(t, app, "POST", "/main/Catalog/Products/add",
		`{"product_name": "Widget", "venture": "1"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("add status = %d: %v", resp.StatusCode, body)
	}
	if body["display_value"] != "Widget" || body["id"] != float64(1) {
		t.Errorf("add response = %v", body)
	}

	resp, body = doRequest(t, app, "GET", "/main/Catalog/Products/1/edit", "")
	if resp.StatusCode != 200 {
		t.Fatalf("edit GET status = %d", resp.StatusCode)
	}
	data := body["data"].(map[string]any)
	if data["venture"] != "Acme" {
		t.Errorf("edit data = %v", data)
	}

	resp, body = doRequest(t, app, "POST", "/main/Catalog/Products/1/edit",
		`{"product_name": "Gadget"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("edit POST status = %d", resp.StatusCode)
	}
	if body["display_value"] != "Gadget" {
		t.Errorf("edit response = %v", body)
	}

	resp, _ = doRequest(t, app, "PUT", "/main/Catalog/Products/1/edit", "{}")
	if resp.StatusCode != 405 {
		t.Errorf("PUT status = %d, want 405", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, "GET", "/main/Catalog/Products/notanumber/edit", "")
	if resp.StatusCode != 404 {
		t.Errorf("bad id status = %d, want 404", resp.StatusCode)
	}
}

func TestAddValidationEnvelope(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, "POST", "/main/Catalog/Products/add", `{}`)
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "Validation failed" {
		t.Errorf("error = %v", body["error"])
	}
	fields := body["fields"].(map[string]any)
	if fields["product_name"] != "This field is required." {
		t.Errorf("fields = %v", fields)
	}
}

func TestFKOptionsEndpoint(t *testing.T) {
	app, e := newTestApp(t)
	mustExec(t, e, "INSERT INTO venture (venture_name) VALUES (?1)", "Acme")

	resp, body := doRequest(t, app, "GET", "/main/Catalog/Products/fk/venture", "")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["empty_label"] != "Select Venture" {
		t.Errorf("empty_label = %v", body["empty_label"])
	}
	options := body["options"].([]any)
	if len(options) != 1 {
		t.Fatalf("options = %v", options)
	}
	first := options[0].(map[string]any)
	if first["label"] != "Acme" || first["value"] != float64(1) {
		t.Errorf("option = %v", first)
	}
}
