package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"backoffice/internal/async"
	"backoffice/internal/config"
	"backoffice/internal/handlers"
	"backoffice/internal/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/shopware"
	"backoffice/pkg/zalando"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiUser   = "api"
	apiKey    = "secret"
	machineID = "m-1"
	zalToken  = "zal-token"
)

func upstreamOrder(id int, groupKey string) map[string]any {
	return map[string]any{
		"id":            id,
		"number":        fmt.Sprintf("2000%d", id),
		"customer":      map[string]any{"groupKey": groupKey},
		"billing":       map[string]any{"id": id, "firstName": "Ada", "lastName": "Lovelace", "country": map[string]any{"isoName": "Germany"}},
		"shipping":      map[string]any{"id": id, "country": map[string]any{"isoName": "Germany"}},
		"payment":       map[string]any{"description": "Zalando"},
		"dispatch":      map[string]any{"customerGroupId": 1},
		"orderStatus":   map[string]any{"position": 0},
		"paymentStatus": map[string]any{"position": 1},
		"invoiceAmount": 19.99,
		"changed":       fmt.Sprintf("2024-03-0%dT10:00:00+0100", id),
		"orderTime":     "2024-03-01T09:30:00+0100",
	}
}

// fakeUpstream serves both the commerce platform (under /api) and the
// marketplace (under /zalando) and records the submissions it receives.
type fakeUpstream struct {
	*httptest.Server

	mu          sync.Mutex
	submissions []json.RawMessage
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}

	shop := http.NewServeMux()
	writeData := func(w http.ResponseWriter, v any) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": v, "success": true})
	}
	shop.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 1}, {"id": 2}})
	})
	shop.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/api/orders/") {
		case "1":
			writeData(w, upstreamOrder(1, "EK"))
		case "2":
			writeData(w, upstreamOrder(2, "EK"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	shop.HandleFunc("/api/customerGroups", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 1, "key": "EK", "name": "Shopkunden"}})
	})
	shop.HandleFunc("/api/customerGroups/1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{"id": 1, "key": "EK", "name": "Shopkunden"})
	})
	shop.HandleFunc("/api/paymentMethods", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 1, "description": "Zalando"}})
	})
	shop.HandleFunc("/api/ShopmasterDocumentType", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 1, "key": "invoice", "name": "Rechnung"}})
	})
	shop.HandleFunc("/api/ShopmasterDocument", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "headers%%PDF-1.4 order %s", r.URL.Query().Get("orderId"))
	})
	shop.HandleFunc("/api/articles", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 42, "name": "Linen Shirt", "description": "Breezy"}})
	})
	shop.HandleFunc("/api/variants_adv", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{{"id": 4201, "articleId": 42}})
	})
	shop.HandleFunc("/api/zalando_auth/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"` + zalToken + `"}`))
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		if !ok || user != apiUser || key != apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		shop.ServeHTTP(w, r)
	})
	mux.HandleFunc("/zalando/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+zalToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch strings.TrimPrefix(r.URL.Path, "/zalando/"+machineID+"/") {
		case "outlines":
			_, _ = w.Write([]byte(`{"items":[{"label":"shirt"}]}`))
		case "product-submissions":
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.submissions = append(f.submissions, body)
			f.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

type testApp struct {
	app    *fiber.App
	auth   *services.AuthService
	boards *services.BoardService
}

// setupApp wires the full handler stack against the fake upstream. An empty
// upstreamURL leaves both upstreams unconfigured; an empty jwtSecret leaves
// the API unauthenticated.
func setupApp(t *testing.T, upstreamURL, jwtSecret string) *testApp {
	t.Helper()

	db, err := repositories.OpenDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	settingsRepo := repositories.NewGORMSettingsRepository(db)

	shopCfg := shopware.Config{User: apiUser, Key: apiKey, Timeout: 5 * time.Second}
	zalCfg := zalando.Config{MachineID: machineID, Timeout: 5 * time.Second}
	if upstreamURL != "" {
		shopCfg.Host = upstreamURL + "/api"
		zalCfg.Host = upstreamURL + "/zalando"
	}
	shop := shopware.NewClient(shopCfg, nil, nil)
	zal := zalando.NewClient(zalCfg, shop, nil, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	authService := services.NewAuthService([]config.Operator{{Name: "alice", PasswordHash: string(hash)}}, jwtSecret, nil)

	orderService := services.NewOrderService(shop, nil)
	documentService := services.NewDocumentService(shop, orderService, settingsRepo, nil)
	productService := services.NewProductService(shop, zal, nil, nil, nil)
	boardService := services.NewBoardService(context.Background(), orderService, nil, nil)
	t.Cleanup(boardService.CloseAll)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, nil).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService, nil))
	handlers.NewOrderHandler(orderService, nil).RegisterRoutes(protected)
	handlers.NewDocumentHandler(documentService, nil).RegisterRoutes(protected)
	handlers.NewProductHandler(productService, nil).RegisterRoutes(protected)
	handlers.NewBoardHandler(boardService, nil).RegisterRoutes(protected)

	return &testApp{app: app, auth: authService, boards: boardService}
}

func do(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type envelope[T any] struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Data    T                 `json:"data"`
}

func TestOrderEndpoints(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "")

	resp := do(t, ta.app, http.MethodGet, "/api/orders", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[envelope[[]map[string]any]](t, resp)
	assert.Len(t, list.Data, 2)

	resp = do(t, ta.app, http.MethodGet, "/api/orders/1/detail", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[envelope[services.OrderDetail]](t, resp)
	assert.Equal(t, 1, detail.Data.Order.ID)
	require.NotNil(t, detail.Data.CustomerGroup)
	assert.Equal(t, "Shopkunden", detail.Data.CustomerGroup.Name)
	assert.Equal(t, "open", detail.Data.OrderSeverity.Label)
	require.Len(t, detail.Data.Sections, 3)

	resp = do(t, ta.app, http.MethodGet, "/api/orders/99", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, ta.app, http.MethodGet, "/api/documentTypes", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpstreamNotConfigured(t *testing.T) {
	ta := setupApp(t, "", "")

	resp := do(t, ta.app, http.MethodGet, "/api/payments", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUpstreamUnreachable(t *testing.T) {
	up := newFakeUpstream(t)
	url := up.URL
	up.Close()
	ta := setupApp(t, url, "")

	resp := do(t, ta.app, http.MethodGet, "/api/payments", nil, "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPrintRequiresSettings(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "")

	resp := do(t, ta.app, http.MethodPost, "/api/print", fiber.Map{"orderIds": []int{1}}, "")
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	body := decode[envelope[any]](t, resp)
	assert.Equal(t, services.DocumentSettingsHint, body.Message)
}

func TestSettingsAndPrint(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "")

	resp := do(t, ta.app, http.MethodGet, "/api/settings/documents/defaults", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defaults := decode[envelope[[]map[string]any]](t, resp)
	require.Len(t, defaults.Data, 1)
	assert.Equal(t, "Shopkunden", defaults.Data[0]["customer"])

	resp = do(t, ta.app, http.MethodPut, "/api/settings/documents", defaults.Data, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPut, "/api/settings/documents", []fiber.Map{{"customer": "Shopkunden"}}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	invalid := decode[envelope[any]](t, resp)
	assert.Contains(t, invalid.Errors, "document.label")

	resp = do(t, ta.app, http.MethodGet, "/api/settings/documents", nil, "")
	saved := decode[envelope[[]map[string]any]](t, resp)
	assert.Len(t, saved.Data, 1)

	resp = do(t, ta.app, http.MethodPost, "/api/print", fiber.Map{"orderIds": []any{1, "2"}}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(page), "<iframe"))

	resp = do(t, ta.app, http.MethodPost, "/api/document", fiber.Map{"type": 1, "orderId": 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "headers%PDF-1.4 order 2", string(doc))
}

func submissionDraft() fiber.Map {
	return fiber.Map{
		"articleType":   "shirt",
		"brandCode":     "ACM",
		"targetGenders": []string{"female"},
		"targetAge":     []string{"adult"},
		"articleId":     "42",
		"name":          "Linen Shirt",
		"size":          "clothing",
		"variantId":     "4201",
		"colorCode":     "010",
		"url":           []string{"https://img.example/1.jpg"},
		"sizes":         []fiber.Map{{"ean": "4006381333931", "sizeId": "4201-S", "variantSize": "S"}},
	}
}

func TestProductSubmission(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "")

	resp := do(t, ta.app, http.MethodGet, "/api/zalando/prefill?articleId=42", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prefill := decode[envelope[map[string]string]](t, resp)
	assert.Equal(t, "4201", prefill.Data["variantId"])

	resp = do(t, ta.app, http.MethodGet, "/api/zalando/outlines", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	invalid := submissionDraft()
	delete(invalid, "name")
	resp = do(t, ta.app, http.MethodPost, "/api/zalando/submission", invalid, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, up.submissions)

	resp = do(t, ta.app, http.MethodPost, "/api/zalando/submission", submissionDraft(), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	result := decode[envelope[services.SubmissionResult]](t, resp)
	assert.Equal(t, services.SubmissionAccepted, result.Data.Outcome)

	up.mu.Lock()
	defer up.mu.Unlock()
	require.Len(t, up.submissions, 1)
	assert.Contains(t, string(up.submissions[0]), `"merchant_product_model_id":"42"`)
}

func TestBoardSession(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "")

	resp := do(t, ta.app, http.MethodPost, "/api/board", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	opened := decode[envelope[services.BoardView]](t, resp)
	id := opened.Data.ID
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		resp := do(t, ta.app, http.MethodGet, "/api/board/"+id, nil, "")
		return decode[envelope[services.BoardView]](t, resp).Data.Status == async.Success
	}, 5*time.Second, 20*time.Millisecond)

	resp = do(t, ta.app, http.MethodPost, "/api/board/"+id+"/sort", fiber.Map{"sort": "asc"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[envelope[services.BoardView]](t, resp).Data
	require.Len(t, view.Rows, 2)
	assert.Equal(t, 1, view.Rows[0].ID)
	assert.Equal(t, "Shopkunden", view.Rows[0].Dispatch.CustomerGroupName)

	resp = do(t, ta.app, http.MethodPost, "/api/board/"+id+"/category", fiber.Map{"field": "country", "values": []string{"france"}}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[envelope[services.BoardView]](t, resp).Data.Count)

	resp = do(t, ta.app, http.MethodPost, "/api/board/"+id+"/category", fiber.Map{"field": "colour", "values": []string{"red"}}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPost, "/api/board/"+id+"/page", fiber.Map{"page": -1, "rowsPerPage": 10}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPost, "/api/board/"+id+"/page", fiber.Map{"page": 1 << 62, "rowsPerPage": 3}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[envelope[services.BoardView]](t, resp).Data.Rows)

	resp = do(t, ta.app, http.MethodGet, "/api/board/"+id, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[envelope[services.BoardView]](t, resp).Data
	assert.Empty(t, view.Rows)
	assert.Equal(t, 1<<62, view.Page)

	resp = do(t, ta.app, http.MethodDelete, "/api/board/"+id, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, ta.app, http.MethodGet, "/api/board/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthLoginGuardsAPI(t *testing.T) {
	up := newFakeUpstream(t)
	ta := setupApp(t, up.URL, "test_jwt_secret")

	resp := do(t, ta.app, http.MethodGet, "/api/payments", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, ta.app, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login["token"])

	claims, err := ta.auth.ValidateToken(login["token"])
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["sub"])

	resp = do(t, ta.app, http.MethodGet, "/api/payments", nil, login["token"])
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginDisabled(t *testing.T) {
	ta := setupApp(t, "", "")

	resp := do(t, ta.app, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "s3cret"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
