package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/config"
	"github.com/hermes-oms/hermes/models"
	"github.com/hermes-oms/hermes/services"
	"github.com/hermes-oms/hermes/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testApp bundles a fully assembled router with its backing database
type testApp struct {
	router   *gin.Engine
	db       *gorm.DB
	geocoder *services.MockGeocoder
	cookies  []*http.Cookie
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	testutil.RequireTestEnvironment(t)
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	cfg := &config.Config{
		DatabaseURL:   "sqlite::memory:",
		Port:          "8080",
		GoEnv:         "test",
		SessionSecret: "integration-test-secret",
	}
	geocoder := services.NewMockGeocoder()

	return &testApp{
		router:   SetupRouter(cfg, db, geocoder),
		db:       db,
		geocoder: geocoder,
	}
}

func (app *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	for _, cookie := range app.cookies {
		req.AddCookie(cookie)
	}
	app.router.ServeHTTP(w, req)
	return w
}

func (app *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range app.cookies {
		req.AddCookie(cookie)
	}
	app.router.ServeHTTP(w, req)
	return w
}

// login creates a user and establishes a session for all later requests
func (app *testApp) login(t *testing.T) {
	t.Helper()
	user := models.User{Username: "Bugs Bunny", Email: "bugs@example.com"}
	require.NoError(t, user.SetPassword("p@ssw0rd"))
	require.NoError(t, app.db.Create(&user).Error)

	w := app.postForm("/login", url.Values{
		"username": {"Bugs Bunny"},
		"password": {"p@ssw0rd"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	app.cookies = w.Result().Cookies()
	require.NotEmpty(t, app.cookies)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	require.Equal(t, true, response["success"], "body: %s", w.Body.String())
	return response["data"]
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/", "/index", "/clients/", "/client/1", "/sites/", "/parts/", "/orders/", "/order/new"} {
		w := app.get(path)
		assert.Equal(t, http.StatusSeeOther, w.Code, "path %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "path %s", path)
	}
}

func TestClientLifecycle(t *testing.T) {
	app := setupApp(t)
	app.login(t)

	// Create "Acme" with the id the new-sentinel view hands out
	w := app.get("/client/new")
	require.Equal(t, http.StatusOK, w.Code)
	blank := decodeData(t, w).(map[string]interface{})
	assert.Equal(t, float64(1), blank["cid"])

	w = app.postForm("/client/1", url.Values{
		"cid":         {"1"},
		"name":        {"Acme"},
		"description": {"Print supplies"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Appears in the list
	w = app.get("/clients/")
	list := decodeData(t, w).([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].(map[string]interface{})["name"])

	// Soft-delete it
	w = app.postForm("/delete_clients/", url.Values{"client_1": {"on"}})
	require.Equal(t, http.StatusOK, w.Code)

	// The list excludes it, the detail fetch still returns it tombstoned
	w = app.get("/clients/")
	assert.Empty(t, decodeData(t, w).([]interface{}))

	w = app.get("/client/1")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeData(t, w).(map[string]interface{})
	assert.Equal(t, "Acme", detail["name"])
	assert.Equal(t, true, detail["deleted"])
}

func TestOrderEndToEnd(t *testing.T) {
	app := setupApp(t)
	app.login(t)
	app.geocoder.Coordinates["100 Maple Road"] = [2]float64{40.1, -75.2}

	// Seed the catalog through the same surface a user would
	w := app.postForm("/client/1", url.Values{
		"cid": {"1"}, "name": {"Acme"}, "description": {"Print supplies"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.postForm("/site/1", url.Values{
		"sid": {"1"}, "address": {"100 Maple Road"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.postForm("/part/1", url.Values{
		"pid": {"1"}, "name": {"A4 paper"}, "units": {"ream"}, "stock": {"10"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = app.postForm("/part/2", url.Values{
		"pid": {"2"}, "name": {"toner"}, "units": {"cartridge"}, "stock": {"10"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Geocoding ran once, for the site creation
	assert.Equal(t, []string{"100 Maple Road"}, app.geocoder.Calls)

	// Place an order with one real line and one zero-quantity pair
	w = app.postForm("/order/1", url.Values{
		"oid":        {"1"},
		"client":     {"1"},
		"site":       {"1"},
		"due":        {"2025-01-01"},
		"status":     {models.StatusPlaced},
		"quantity_1": {"2"},
		"price_1":    {"5.00"},
		"quantity_2": {"0"},
		"price_2":    {"9.00"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var lines []models.OrderToPart
	require.NoError(t, app.db.Where("oid = ?", 1).Find(&lines).Error)
	require.Len(t, lines, 1, "zero-quantity pair must not materialize a line")
	assert.Equal(t, uint(1), lines[0].PartID)
	assert.Equal(t, 2, lines[0].Quantity)

	// The order view resolves its labels
	w = app.get("/orders/")
	orders := decodeData(t, w).([]interface{})
	require.Len(t, orders, 1)
	view := orders[0].(map[string]interface{})
	assert.Equal(t, "Acme", view["client"])
	assert.Equal(t, "100 Maple Road", view["site"])

	// Dashboard reflects the placed order; nothing needs restocking yet
	w = app.get("/")
	dashboard := decodeData(t, w).(map[string]interface{})
	counts := dashboard["status_counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts[models.StatusPlaced])
	assert.Empty(t, dashboard["restock"])

	// Raise the ordered quantity past the stock and check the shortfall
	w = app.postForm("/order/1", url.Values{
		"oid":        {"1"},
		"client":     {"1"},
		"site":       {"1"},
		"due":        {"2025-01-01"},
		"status":     {models.StatusPlaced},
		"quantity_1": {"13"},
		"price_1":    {"5.00"},
		"quantity_2": {"0"},
		"price_2":    {"0"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get("/")
	dashboard = decodeData(t, w).(map[string]interface{})
	restock := dashboard["restock"].([]interface{})
	require.Len(t, restock, 1)
	entry := restock[0].(map[string]interface{})
	assert.Equal(t, float64(1), entry["pid"])
	assert.Equal(t, float64(3), entry["shortfall"])

	// Delete the order: its line goes with it, the parts stay
	w = app.postForm("/delete_orders/", url.Values{"order_1": {"on"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get("/orders/")
	assert.Empty(t, decodeData(t, w).([]interface{}))

	var line models.OrderToPart
	require.NoError(t, app.db.Where("oid = ?", 1).First(&line).Error)
	assert.True(t, line.Deleted)

	w = app.get("/parts/")
	assert.Len(t, decodeData(t, w).([]interface{}), 2)
}

func TestLogoutLocksTheAppAgain(t *testing.T) {
	app := setupApp(t)
	app.login(t)

	w := app.get("/clients/")
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get("/logout")
	require.Equal(t, http.StatusSeeOther, w.Code)
	app.cookies = w.Result().Cookies()

	w = app.get("/clients/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
