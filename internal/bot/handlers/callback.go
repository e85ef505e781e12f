package handlers

import (
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// HandleCallback processes all callback queries from inline buttons
func HandleCallback(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			ctx.Logger.Warn("callback is nil")
			return nil
		}

		// telebot prefixes unique button data with \f
		data := strings.TrimPrefix(cb.Data, "\f")
		if unique, _, found := strings.Cut(data, "|"); found {
			data = unique
		}

		parts := strings.Split(data, ":")
		action := parts[0]

		ctx.Logger.Debug("routing callback",
			zap.String("action", action),
			zap.String("data", data),
			zap.Int64("user_id", c.Sender().ID),
		)

		switch action {
		case "page":
			return handlePage(ctx, c, parts)
		case "facet":
			return handleFacet(ctx, c, parts)
		case "filters":
			return handleShowFilters(ctx, c, parts)
		case "query":
			return handleQueryPrompt(ctx, c, parts)
		case "reset":
			return handleReset(ctx, c, parts)
		case "show":
			return handleShow(ctx, c, parts)
		case "logout":
			return handleLogoutCallback(ctx, c)
		case "settings_toggle":
			return handleSettingsToggle(ctx, c)
		case "settings_interval":
			return handleSettingsInterval(ctx, c, parts)
		case "noop":
			return c.Respond()
		default:
			ctx.Logger.Warn("unknown callback action",
				zap.String("action", action),
				zap.String("data", data),
			)
			return c.Respond(&tele.CallbackResponse{Text: "❓ 알 수 없는 동작입니다"})
		}
	}
}
