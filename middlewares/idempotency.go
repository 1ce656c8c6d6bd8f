package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Darshit9241/billing-webiste-sub000/models"
)

const maxIdempotencyKeyLen = 128

// Idempotency replays the stored first response for a mutating request that
// repeats an Idempotency-Key. A key reused with a different request is a 409.
func Idempotency(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		caller := CallerID(c)
		path := c.OriginalURL()
		reqHash := requestHash(method, path, c.Body(), caller)
		ctx := c.UserContext()

		// ---- Phase 1: read or create the pending record
		var (
			existing models.IdempotencyKey
			created  bool
			replayed bool
		)
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("key = ?", key).First(&existing).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
					Caller:      caller,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// unique race: another request created it first
					if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing, created = rec, true
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus != 0 {
				replayed = true
				return nil
			}
			if !created {
				return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
			}
			return nil
		})
		if err != nil {
			return err
		}
		if replayed {
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		// ---- Phase 2: run the handler once. Failed or panicking requests are
		// not recorded so the client can retry with the same key.
		succeeded := false
		defer func() {
			if !succeeded {
				releaseKey(db, key)
			}
		}()
		if err := c.Next(); err != nil {
			return err
		}
		succeeded = true

		// ---- Phase 3: store the response (best effort, detached from a
		// request deadline that may have passed)
		now := time.Now().UTC()
		status := c.Response().StatusCode()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)

		if err := db.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error; err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
		}
		return nil
	}
}

// releaseKey drops a pending record. It runs without the request context,
// which may already be cancelled.
func releaseKey(db *gorm.DB, key string) {
	if err := db.Where("key = ? AND response_status = 0", key).
		Delete(&models.IdempotencyKey{}).Error; err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
	}
}

// requestHash is sha256 of method|path|body|caller.
func requestHash(method, path string, body []byte, caller string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(caller))
	return hex.EncodeToString(h.Sum(nil))
}
