package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"editor-board/internal/bot/utils"
	"editor-board/internal/models"
	"editor-board/internal/storage/redis"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// User states for conversation flow
const (
	StateIdle          = ""
	StateAwaitingQuery = "awaiting_query"
)

const clearQueryText = "-"

// /filters command
func HandleFilters(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		if err := clearUserState(ctx, userID); err != nil {
			ctx.Logger.Warn("failed to clear user state", zap.Error(err))
		}

		kind := models.KindJob
		if payload, ok := parseKind(strings.TrimSpace(c.Message().Payload)); ok {
			kind = payload
		}

		return sendFilters(ctx, c, kind, false)
	}
}

// HandleText processes all text messages
func HandleText(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := strings.TrimSpace(c.Text())
		userID := c.Sender().ID

		state, err := getUserState(ctx, userID)
		if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
			ctx.Logger.Warn("failed to get user state", zap.Error(err))
		}

		if state != StateIdle && text != utils.BtnCancel {
			return handleStateInput(ctx, c, state)
		}

		switch text {
		case utils.BtnJobs:
			return HandleJobs(ctx)(c)
		case utils.BtnPosts:
			return HandlePosts(ctx)(c)
		case utils.BtnFilters:
			return HandleFilters(ctx)(c)
		case utils.BtnAccount:
			return HandleMe(ctx)(c)
		case utils.BtnSettings:
			return HandleSettings(ctx)(c)
		case utils.BtnHelp:
			return HandleHelp(ctx)(c)
		case utils.BtnCancel:
			return cancelConversation(ctx, c)
		default:
			return c.Reply("메뉴 버튼이나 명령어를 사용해 주세요")
		}
	}
}

func sendFilters(ctx *Context, c tele.Context, kind models.ListingKind, edit bool) error {
	userID := c.Sender().ID

	cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filters, err := ctx.Cache.GetFilterState(cacheCtx, userID, kind)
	if err != nil {
		ctx.Logger.Warn("failed to load filter state", zap.Int64("user_id", userID), zap.Error(err))
	}

	text := utils.FormatFiltersMessage(kind, filters)
	markup := utils.InlineFiltersKeyboard(kind, filters)

	if edit {
		if err := c.Edit(text, markup, tele.ModeMarkdownV2); err != nil {
			ctx.Logger.Warn("failed to edit message", zap.Error(err))
		} else {
			return nil
		}
	}

	return c.Send(text, markup, tele.ModeMarkdownV2)
}

// updateFilterState applies fn to the stored state. Job filters are also
// saved to Postgres so notifications use them.
func updateFilterState(ctx *Context, userID int64, kind models.ListingKind, fn func(*models.FilterState)) error {
	opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filters, err := ctx.Cache.GetFilterState(opCtx, userID, kind)
	if err != nil {
		ctx.Logger.Warn("failed to load filter state", zap.Int64("user_id", userID), zap.Error(err))
	}

	fn(&filters)

	if err := ctx.Cache.SetFilterState(opCtx, userID, kind, filters); err != nil {
		ctx.Logger.Error("failed to save filter state",
			zap.Int64("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return err
	}

	if kind == models.KindJob {
		var err error
		if filters.IsEmpty() {
			err = ctx.Store.ClearUserFilters(opCtx, userID)
		} else {
			err = ctx.Store.SaveFilterState(opCtx, userID, filters)
		}
		if err != nil {
			ctx.Logger.Warn("failed to persist job filters", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return nil
}

// filters:<kind>
func handleShowFilters(ctx *Context, c tele.Context, parts []string) error {
	kind, ok := kindArg(parts)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	if err := sendFilters(ctx, c, kind, true); err != nil {
		return err
	}
	return c.Respond()
}

// facet:<kind>:<dim>:<value>
func handleFacet(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 4 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	kind, ok := parseKind(parts[1])
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	dim := parts[2]
	value := strings.Join(parts[3:], ":")

	var toggle func(*models.FilterState)
	switch dim {
	case utils.DimSkill:
		toggle = func(f *models.FilterState) { f.ToggleSkill(value) }
	case utils.DimType:
		v, ok := models.ParseVideoType(value)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "❌ 알 수 없는 분야입니다"})
		}
		toggle = func(f *models.FilterState) { f.ToggleType(string(v)) }
	case utils.DimPlatform:
		p, ok := models.ParsePlatform(value)
		if !ok {
			return c.Respond(&tele.CallbackResponse{Text: "❌ 알 수 없는 플랫폼입니다"})
		}
		toggle = func(f *models.FilterState) { f.TogglePlatform(string(p)) }
	default:
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	if err := updateFilterState(ctx, c.Sender().ID, kind, toggle); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 저장하지 못했습니다"})
	}

	if err := sendFilters(ctx, c, kind, true); err != nil {
		return err
	}
	return c.Respond()
}

// reset:<kind>
func handleReset(ctx *Context, c tele.Context, parts []string) error {
	kind, ok := kindArg(parts)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	if err := updateFilterState(ctx, c.Sender().ID, kind, func(f *models.FilterState) { f.Reset() }); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 저장하지 못했습니다"})
	}

	if err := sendFilters(ctx, c, kind, true); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{Text: "♻️ 필터를 초기화했습니다"})
}

// show:<kind>
func handleShow(ctx *Context, c tele.Context, parts []string) error {
	kind, ok := kindArg(parts)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	if err := sendListings(ctx, c, kind); err != nil {
		return err
	}
	return c.Respond()
}

// query:<kind>
func handleQueryPrompt(ctx *Context, c tele.Context, parts []string) error {
	kind, ok := kindArg(parts)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	if err := setUserState(ctx, c.Sender().ID, StateAwaitingQuery+":"+string(kind)); err != nil {
		ctx.Logger.Error("failed to set user state", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "😔 오류가 발생했습니다"})
	}

	if err := c.Send(
		"🔍 검색어를 입력해 주세요. 제목이나 본문에 포함된 글만 보여줍니다.\n검색어를 지우려면 \"-\" 를 보내세요.",
		utils.CancelKeyboard(),
	); err != nil {
		return err
	}
	return c.Respond()
}

func handleQueryInput(ctx *Context, c tele.Context, kind models.ListingKind) error {
	userID := c.Sender().ID
	query := strings.TrimSpace(c.Text())
	if query == clearQueryText {
		query = ""
	}

	if err := updateFilterState(ctx, userID, kind, func(f *models.FilterState) { f.SetQuery(query) }); err != nil {
		return c.Send("😔 검색어를 저장하지 못했습니다")
	}

	if err := clearUserState(ctx, userID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	if err := c.Send("✅ 검색어를 적용했습니다", utils.MainMenuKeyboard()); err != nil {
		return err
	}
	return sendListings(ctx, c, kind)
}

// ==================== State Management ====================

func handleStateInput(ctx *Context, c tele.Context, state string) error {
	name, arg, _ := strings.Cut(state, ":")

	switch name {
	case StateAwaitingQuery:
		kind, ok := parseKind(arg)
		if !ok {
			kind = models.KindJob
		}
		return handleQueryInput(ctx, c, kind)
	default:
		_ = clearUserState(ctx, c.Sender().ID)
		return c.Reply("메뉴 버튼이나 명령어를 사용해 주세요")
	}
}

func setUserState(ctx *Context, userID int64, state string) error {
	return ctx.Cache.SetUserState(context.Background(), userID, state)
}

func getUserState(ctx *Context, userID int64) (string, error) {
	return ctx.Cache.GetUserState(context.Background(), userID)
}

func clearUserState(ctx *Context, userID int64) error {
	return ctx.Cache.DeleteUserState(context.Background(), userID)
}

func cancelConversation(ctx *Context, c tele.Context) error {
	if err := clearUserState(ctx, c.Sender().ID); err != nil {
		ctx.Logger.Warn("failed to clear state", zap.Error(err))
	}

	return c.Send("❌ 취소했습니다", utils.MainMenuKeyboard())
}

func kindArg(parts []string) (models.ListingKind, bool) {
	if len(parts) < 2 {
		return "", false
	}
	return parseKind(parts[1])
}
