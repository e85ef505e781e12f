package handlers

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"editor-board/internal/bot/utils"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /settings command
func HandleSettings(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := ctx.Store.GetUser(dbCtx, userID)
		if err != nil {
			ctx.Logger.Error("failed to get user",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return c.Send("😔 설정을 불러오지 못했습니다")
		}
		if user == nil {
			return c.Send("먼저 /start 를 눌러 주세요")
		}

		message := utils.FormatSettingsMessage(user)

		if stats, err := ctx.Store.GetUserStats(dbCtx, userID); err == nil {
			message += fmt.Sprintf("*저장된 필터:* %d개\n*받은 공고:* %d건\n", stats.FilterCount, stats.SeenCount)
		} else {
			ctx.Logger.Warn("failed to get user stats", zap.Int64("user_id", userID), zap.Error(err))
		}

		return c.Send(
			message,
			utils.InlineSettingsKeyboard(user.CheckEnabled),
			tele.ModeMarkdownV2,
		)
	}
}

func handleSettingsToggle(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ctx.Store.GetUser(dbCtx, userID)
	if err != nil || user == nil {
		ctx.Logger.Error("failed to get user", zap.Int64("user_id", userID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 오류가 발생했습니다"})
	}

	newState := !user.CheckEnabled
	if err := ctx.Store.SetCheckEnabled(dbCtx, userID, newState); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 저장하지 못했습니다"})
	}
	user.CheckEnabled = newState

	if err := c.Edit(
		utils.FormatSettingsMessage(user),
		utils.InlineSettingsKeyboard(newState),
		tele.ModeMarkdownV2,
	); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	responseText := "🔔 알림을 켰습니다"
	if !newState {
		responseText = "🔕 알림을 껐습니다"
	}

	return c.Respond(&tele.CallbackResponse{Text: responseText})
}

// settings_interval:<minutes>
func handleSettingsInterval(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 2 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || !slices.Contains(utils.NotifyIntervals, minutes) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 지원하지 않는 주기입니다"})
	}

	userID := c.Sender().ID

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ctx.Store.SetNotifyInterval(dbCtx, userID, minutes); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 저장하지 못했습니다"})
	}

	user, err := ctx.Store.GetUser(dbCtx, userID)
	if err != nil || user == nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 오류가 발생했습니다"})
	}

	if err := c.Edit(
		utils.FormatSettingsMessage(user),
		utils.InlineSettingsKeyboard(user.CheckEnabled),
		tele.ModeMarkdownV2,
	); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
	}

	return c.Respond(&tele.CallbackResponse{Text: "⏰ " + utils.FormatInterval(minutes) + "마다 확인합니다"})
}
