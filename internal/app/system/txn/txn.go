// Package txn runs multi-step store mutations inside a MongoDB transaction.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrUnsupported is returned by Run when the server cannot run transactions
// and sequential fallback has not been enabled.
var ErrUnsupported = errors.New("txn: transactions are not supported by the connected MongoDB deployment")

var allowFallback atomic.Bool

// AllowSequentialFallback controls what Run does on a deployment without
// transaction support (a standalone mongod). When enabled, the steps run
// sequentially without atomicity and a warning is logged. Intended for local
// development only.
func AllowSequentialFallback(allow bool) {
	allowFallback.Store(allow)
}

// Run executes fn inside a transaction on db's client. fn must use the ctx it
// is given so its operations join the session. fn may be retried on transient
// transaction errors, so it must not have side effects outside the database.
//
// The session is always ended before Run returns.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return fallback(ctx, log, err, fn)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fallback(ctx, log, err, fn)
	}
	return err
}

func fallback(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if !allowFallback.Load() {
		return fmt.Errorf("%w: %v", ErrUnsupported, cause)
	}
	if log != nil {
		log.Warn("transactions unsupported; running steps without atomicity", zap.Error(cause))
	}
	return fn(ctx)
}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: transaction numbers outside a replica set
			51,  // legacy IllegalOperation
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	// Some deployments (and proxies) only describe the problem in text.
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, kw := range []string{"transaction", "replica set", "session", "not supported", "illegal operation"} {
		if strings.Contains(msg, kw) {
			hits++
		}
	}
	return hits >= 2
}
