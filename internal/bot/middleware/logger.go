package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const maxLoggedText = 64

// Logger middleware for logging all incoming updates
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			var userID int64
			var username string
			if user := c.Sender(); user != nil {
				userID = user.ID
				username = user.Username
			}

			updateType, text := describe(c)

			err := next(c)

			fields := []zap.Field{
				zap.Int64("user_id", userID),
				zap.String("username", username),
				zap.String("type", updateType),
				zap.String("text", text),
				zap.Duration("duration", time.Since(start)),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				logger.Error("handler error", fields...)
			} else {
				logger.Info("request handled", fields...)
			}

			return err
		}
	}
}

// describe returns the update kind and a loggable text. /start payloads carry
// access tokens and are never logged.
func describe(c tele.Context) (string, string) {
	if cb := c.Callback(); cb != nil {
		return "callback", cb.Data
	}

	msg := c.Message()
	if msg == nil {
		return "other", ""
	}

	text := msg.Text
	if msg.Payload != "" {
		text = msg.Text[:len(msg.Text)-len(msg.Payload)] + "<redacted>"
	}

	runes := []rune(text)
	if len(runes) > maxLoggedText {
		text = string(runes[:maxLoggedText]) + "..."
	}

	return "message", text
}
