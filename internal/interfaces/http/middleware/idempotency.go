package middleware

import (
	"net/http"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader is the header clients use to deduplicate retried mutations
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects mutating requests whose Idempotency-Key has already been
// accepted within the TTL. The key is marked before the handler runs, so a
// client retrying a timed-out request gets a conflict instead of a second
// posting or allocation.
//
// Requests without the header pass through unchanged.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		isNew, err := store.MarkProcessed(c.Request.Context(), c.Request.Method+":"+c.FullPath()+":"+key, ttl)
		if err != nil {
			// Store failure must not block the ledger, the request proceeds
			c.Next()
			return
		}
		if !isNew {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"Request with this Idempotency-Key was already accepted",
				requestID,
			))
			return
		}

		c.Next()
	}
}
