package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Darshit9241/billing-webiste-sub000/database"
	"github.com/Darshit9241/billing-webiste-sub000/models"
)

func newIdempotencyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func idempotentApp(db *gorm.DB, calls *int32, fail bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Idempotency(db))
	app.Post("/orders", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(calls, 1)
		if fail {
			return fiber.NewError(fiber.StatusBadGateway, "store unavailable")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})
	return app
}

func post(t *testing.T, app *fiber.App, key, body string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), resp.Header.Get("Idempotent-Replayed")
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	var calls int32
	app := idempotentApp(newIdempotencyDB(t), &calls, false)

	status, body, replayed := post(t, app, "k1", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Empty(t, replayed)

	status, body, replayed = post(t, app, "k1", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Equal(t, "true", replayed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyRejectsDifferentRequest(t *testing.T) {
	var calls int32
	app := idempotentApp(newIdempotencyDB(t), &calls, false)

	status, _, _ := post(t, app, "k1", `{"a":1}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, _, _ = post(t, app, "k1", `{"a":2}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyWithoutKeyAlwaysRuns(t *testing.T) {
	var calls int32
	app := idempotentApp(newIdempotencyDB(t), &calls, false)

	post(t, app, "", `{}`)
	post(t, app, "", `{}`)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	status, _, _ := post(t, app, strings.Repeat("x", 200), `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestIdempotencyReleasesKeyOnError(t *testing.T) {
	var calls int32
	db := newIdempotencyDB(t)
	app := idempotentApp(db, &calls, true)

	status, _, _ := post(t, app, "k1", `{}`)
	assert.Equal(t, fiber.StatusBadGateway, status)

	var count int64
	require.NoError(t, db.Model(&models.IdempotencyKey{}).Count(&count).Error)
	assert.Zero(t, count)

	status, _, _ = post(t, app, "k1", `{}`)
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyReleasesKeyOnPanic(t *testing.T) {
	db := newIdempotencyDB(t)
	var calls int32
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(recover.New())
	app.Use(Idempotency(db))
	app.Post("/orders", func(c *fiber.Ctx) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("decimal overflow")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})

	status, _, _ := post(t, app, "k1", `{}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	var count int64
	require.NoError(t, db.Model(&models.IdempotencyKey{}).Count(&count).Error)
	assert.Zero(t, count)

	status, _, _ = post(t, app, "k1", `{}`)
	assert.Equal(t, fiber.StatusCreated, status)
}
