package handlers

import (
	"context"
	"time"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// logRequest logs a request with route details pulled from the context.
// Shared by all handlers in this package.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	auth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if auth != nil {
		logMsg += " - client:" + auth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// authUserID returns the user id the bearer-auth gate attached to the
// request context. Handlers on protected routes trust this value; token
// verification happens only in the gate.
func authUserID(ctx context.Context) (int, bool) {
	auth := httpserver.GetRequestAuth(ctx)
	if auth == nil {
		return 0, false
	}
	return claimsUserID(auth.Claims)
}

// claimsUserID unpacks the claims the gate stored on the request auth.
// RequestAuth.Claims is an interface{}, so the map has to be asserted
// before the user id can be read out of it.
func claimsUserID(claims interface{}) (int, bool) {
	m, ok := claims.(map[string]interface{})
	if !ok {
		return 0, false
	}
	id, ok := m["user_id"].(int)
	return id, ok
}
