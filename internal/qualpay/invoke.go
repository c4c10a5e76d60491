package qualpay

import (
	"context"
	"fmt"

	"oakmart-be/internal/logger"

	"go.uber.org/zap"
)

// invoke runs a single remote attempt. Before the thunk runs it verifies
// the merchant configuration; on any failure it logs the error together
// with the acting customer context and returns it as "qualpay error: ...".
// No failure escapes unformatted and there are never retries.
func invoke[T any](ctx context.Context, c *Client, operation string, fn func(merchantID int64) (T, error)) (T, error) {
	var zero T

	merchantID, err := c.merchantID()
	if err != nil {
		logger.FromCtx(ctx).Error("qualpay call rejected",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return zero, fmt.Errorf("qualpay error: %w", err)
	}

	result, err := fn(merchantID)
	if err != nil {
		logger.FromCtx(ctx).Error("qualpay call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return zero, fmt.Errorf("qualpay error: %s", err.Error())
	}

	return result, nil
}

// remoteError formats a provider-rejected platform response.
func remoteError(code int, message string) error {
	return fmt.Errorf("error code - %d. %s", code, message)
}

// pgError formats a provider-rejected pg response.
func pgError(rcode, rmsg string) error {
	return fmt.Errorf("error code - %s. %s", rcode, rmsg)
}
