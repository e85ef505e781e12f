package handlers

import (
	"context"
	"time"

	"editor-board/internal/bot/utils"
	"editor-board/internal/models"
	"editor-board/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /login
func HandleLogin(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		mgr := ctx.Sessions.Get(c.Sender().ID)

		if mgr.IsAuthenticated() {
			return c.Send("✅ 이미 로그인되어 있습니다. /me 로 계정을 확인하세요.")
		}

		return c.Send(
			utils.FormatLoginMessage(),
			utils.InlineLoginKeyboard(mgr.Login()),
			tele.ModeMarkdownV2,
		)
	}
}

// /me
func HandleMe(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID
		mgr := ctx.Sessions.Get(userID)

		reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ensureChecked(reqCtx, ctx, mgr, userID)

		profile, err := mgr.RefreshUser(reqCtx)
		if err != nil {
			ctx.Logger.Error("failed to load account", zap.Int64("user_id", userID), zap.Error(err))
			return c.Send("😔 서버에 연결할 수 없습니다. 잠시 후 다시 시도해 주세요.")
		}

		if profile == nil {
			return c.Send(
				"🔒 로그인되어 있지 않습니다.",
				utils.InlineLoginKeyboard(mgr.Login()),
			)
		}

		return c.Send(
			utils.FormatProfile(profile, ctx.Config.ImageBaseURL),
			utils.InlineAccountKeyboard(),
			tele.ModeMarkdownV2,
		)
	}
}

// /logout
func HandleLogout(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return logout(ctx, c)
	}
}

func handleLogoutCallback(ctx *Context, c tele.Context) error {
	if err := logout(ctx, c); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "로그아웃되었습니다"})
}

func logout(ctx *Context, c tele.Context) error {
	userID := c.Sender().ID
	mgr := ctx.Sessions.Get(userID)

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// local state is cleared even when the backend call fails
	if err := mgr.Logout(reqCtx); err != nil {
		ctx.Logger.Warn("backend logout failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	ctx.Logger.Info("user logged out", zap.Int64("user_id", userID))

	return c.Send("👋 로그아웃되었습니다.", utils.MainMenuKeyboard())
}

// ensureChecked runs the silent session check once per manager and returns
// the signed-in profile, if any.
func ensureChecked(reqCtx context.Context, ctx *Context, mgr *session.Manager, userID int64) *models.Profile {
	if mgr.State() != session.Unchecked {
		return mgr.User()
	}

	profile, err := mgr.Startup(reqCtx)
	if err != nil {
		ctx.Logger.Warn("session check failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return profile
}
