package handlers

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"editor-board/internal/api/backend"
	"editor-board/internal/bot/utils"
	"editor-board/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const defaultNotifyInterval = 60

// /start [payload]. The payload is the OAuth callback relayed through a
// t.me deep link: either the access token or "error_<status>".
func HandleStart(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		sender := c.Sender()
		userID := sender.ID

		ctx.Logger.Info("user started bot",
			zap.Int64("user_id", userID),
			zap.String("username", sender.Username),
		)

		dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, err := ctx.Store.UpsertUser(dbCtx, &models.User{
			ID:             userID,
			Username:       stringPtr(sender.Username),
			FirstName:      stringPtr(sender.FirstName),
			LastName:       stringPtr(sender.LastName),
			CheckEnabled:   false, // default OFF
			NotifyInterval: defaultNotifyInterval,
		})
		if err != nil {
			ctx.Logger.Error("failed to register user", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 오류가 발생했습니다. 잠시 후 다시 시도해 주세요.")
		}

		if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
			return completeLogin(ctx, c, payload)
		}

		mgr := ctx.Sessions.Get(userID)
		profile := ensureChecked(dbCtx, ctx, mgr, userID)

		return c.Send(
			utils.FormatWelcomeMessage(sender.FirstName, profile),
			utils.MainMenuKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

func completeLogin(ctx *Context, c tele.Context, payload string) error {
	userID := c.Sender().ID

	token, err := backend.ParseCallback(callbackValues(payload))
	if err != nil {
		ctx.Logger.Warn("oauth callback rejected", zap.Int64("user_id", userID), zap.Error(err))
		if errors.Is(err, backend.ErrAccountDisabled) {
			return c.Send("🚫 비활성화된 계정입니다. 관리자에게 문의해 주세요.", utils.MainMenuKeyboard())
		}
		return c.Send("😔 로그인에 실패했습니다. /login 으로 다시 시도해 주세요.", utils.MainMenuKeyboard())
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// a stale or forged token is rejected before it replaces a working one
	if err := ctx.Backend.Identity(token).Verify(reqCtx); errors.Is(err, backend.ErrUnauthorized) {
		ctx.Logger.Warn("oauth token rejected by backend", zap.Int64("user_id", userID))
		return c.Send("😔 로그인 토큰이 만료되었습니다. /login 으로 다시 시도해 주세요.", utils.MainMenuKeyboard())
	}

	if err := ctx.Cache.SessionFlags(userID).SetToken(reqCtx, token); err != nil {
		ctx.Logger.Error("failed to store access token", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("😔 로그인 정보를 저장하지 못했습니다. 다시 시도해 주세요.")
	}

	mgr := ctx.Sessions.Get(userID)
	mgr.MarkLoggedIn()

	profile, err := mgr.RefreshUser(reqCtx)
	if err != nil {
		return c.Send("😔 서버에 연결할 수 없습니다. 잠시 후 /me 로 확인해 주세요.", utils.MainMenuKeyboard())
	}
	if profile == nil {
		return c.Send("😔 로그인이 확인되지 않았습니다. /login 으로 다시 시도해 주세요.", utils.MainMenuKeyboard())
	}

	ctx.Logger.Info("user logged in",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", profile.ID),
	)

	return c.Send(
		utils.FormatWelcomeMessage(c.Sender().FirstName, profile),
		utils.MainMenuKeyboard(),
		tele.ModeMarkdownV2,
	)
}

// callbackValues turns a deep-link payload back into callback query values.
func callbackValues(payload string) url.Values {
	values := url.Values{}

	if rest, ok := strings.CutPrefix(payload, "error"); ok {
		rest = strings.TrimLeft(rest, "_-")
		values.Set("error", "oauth")
		if rest != "" {
			values.Set("status", rest)
		}
		return values
	}

	values.Set("token", payload)
	return values
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
