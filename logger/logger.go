package logger

import (
	"log"
	"os"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"rantify/blueprint"
)

// NewLogger returns a new production zap logger
func NewLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

// NewZapSentryLogger returns a zap logger that also reports warnings and
// errors to sentry. Without SENTRY_DSN it is a plain production logger.
func NewZapSentryLogger(opts *blueprint.RantifyLoggerOptions) *zap.Logger {
	if opts == nil {
		opts = &blueprint.RantifyLoggerOptions{}
	}
	if opts.RequestID == "" {
		opts.RequestID = "not_set"
	}
	if opts.Component == "" {
		opts.Component = "system"
	}

	zl := NewLogger()
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return zl.With(zap.String("request_id", opts.RequestID), zap.String("component", opts.Component))
	}

	cfg := zapsentry.Configuration{
		Level:             zapcore.WarnLevel,
		BreadcrumbLevel:   zapcore.WarnLevel,
		EnableBreadcrumbs: true,
		DisableStacktrace: !opts.AddTrace,
		Tags: map[string]string{
			"component":  opts.Component,
			"request_id": opts.RequestID,
		},
	}

	core, err := zapsentry.NewCore(cfg, zapsentry.NewSentryClientFromDSN(dsn))
	if err != nil {
		log.Printf("[logger][NewZapSentryLogger] error - could not create sentry core: %v\n", err)
		return zl
	}
	zl = zapsentry.AttachCoreToLogger(core, zl)

	scope := sentry.NewScope()
	scope.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  "Request ID",
		Data:      map[string]interface{}{"request_id": opts.RequestID},
		Timestamp: time.Now(),
	}, 1)

	if opts.SessionID != "" {
		scope.AddBreadcrumb(&sentry.Breadcrumb{
			Category:  "Session",
			Message:   "Session making the request",
			Data:      map[string]interface{}{"session_id": opts.SessionID},
			Timestamp: time.Now(),
		}, 1)
	}

	if opts.Error != nil {
		scope.AddBreadcrumb(&sentry.Breadcrumb{
			Category:  "Error",
			Message:   "Error encountered while making the request",
			Data:      map[string]interface{}{"error": opts.Error.Error()},
			Timestamp: time.Now(),
		}, 1)
	}

	return zl.With(zapsentry.NewScopeFromScope(scope), zap.String("request_id", opts.RequestID))
}
