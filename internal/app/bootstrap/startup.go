// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/dalemusser/internportal/internal/app/system/txn"
	"github.com/dalemusser/internportal/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Startup runs once after the database is ready and before the server
// begins accepting requests.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	txn.AllowSequentialFallback(appCfg.AllowNonTransactional)
	if appCfg.AllowNonTransactional {
		logger.Warn("non-transactional fallback enabled; multi-step writes are not atomic")
	}

	secret := []byte(appCfg.SessionKey)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(sessiontoken.MinSecretLen)
		if secret == nil {
			return fmt.Errorf("generate session key")
		}
		logger.Warn("session_key not set; using a random key, credentials will not survive a restart")
	}
	tokens, err := sessiontoken.NewIssuer(secret, appCfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("session issuer: %w", err)
	}

	certs := firebaseauth.NewCertSource(appCfg.FirebaseCertsURL, &http.Client{Timeout: timeouts.Short()}, logger)
	refresh := workers.NewKeyRefresh(certs, logger, appCfg.FirebaseCertRefresh)
	refresh.Start()

	deps.Auth.Tokens = tokens
	deps.Auth.Certs = certs
	deps.Auth.Verifier = firebaseauth.NewVerifier(appCfg.FirebaseProjectID, certs)
	deps.Auth.KeyRefresh = refresh

	logger.Info("identity ready",
		zap.String("firebase_project", appCfg.FirebaseProjectID),
		zap.Duration("session_ttl", tokens.TTL()))
	return nil
}
