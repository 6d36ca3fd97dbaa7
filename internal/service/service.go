package service

import (
	"context"
	"errors"
	"time"

	"github.com/solune/storefront/pkg/database"
	apperrors "github.com/solune/storefront/pkg/errors"
)

// Per-operation store deadlines. Reads are short; writes leave room for the
// transactional review upsert under load.
const (
	readTimeout  = 5 * time.Second
	writeTimeout = 15 * time.Second
)

func readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, readTimeout)
}

func writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, writeTimeout)
}

// isNotFound reports whether err is the repository not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// storeErr maps low-level store failures onto the retryable taxonomy: a blown
// deadline surfaces as TIMEOUT (504), a connection-class failure as
// DB_CONNECTION_ERROR (503). Anything else passes through unchanged.
func storeErr(err error, operation string) error {
	if appErr := apperrors.FromContextErr(err, operation); appErr != nil {
		return appErr
	}
	if database.IsConnectionError(err) {
		return apperrors.DBConnection(err)
	}
	return err
}
