package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"editor-board/internal/bot/utils"
	"editor-board/internal/listing"
	"editor-board/internal/models"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// /jobs
func HandleJobs(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return sendListings(ctx, c, models.KindJob)
	}
}

// /posts
func HandlePosts(ctx *Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		return sendListings(ctx, c, models.KindPost)
	}
}

func sendListings(ctx *Context, c tele.Context, kind models.ListingKind) error {
	text, markup, err := renderListings(ctx, c.Sender().ID, kind)
	if err != nil {
		return c.Send(text)
	}
	return c.Send(text, markup, tele.ModeMarkdownV2, tele.NoPreview)
}

// editListings redraws the listing message the callback came from.
func editListings(ctx *Context, c tele.Context, kind models.ListingKind) error {
	text, markup, err := renderListings(ctx, c.Sender().ID, kind)
	if err != nil {
		return c.Send(text)
	}

	if err := c.Edit(text, markup, tele.ModeMarkdownV2, tele.NoPreview); err != nil {
		ctx.Logger.Warn("failed to edit message", zap.Error(err))
		return c.Send(text, markup, tele.ModeMarkdownV2, tele.NoPreview)
	}
	return nil
}

// renderListings builds the current page for the user. On failure the
// returned text is a plain message for the user.
func renderListings(ctx *Context, userID int64, kind models.ListingKind) (string, *tele.ReplyMarkup, error) {
	reqCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	filters, err := ctx.Cache.GetFilterState(reqCtx, userID, kind)
	if err != nil {
		ctx.Logger.Warn("failed to load filter state", zap.Int64("user_id", userID), zap.Error(err))
	}

	records, err := ctx.Catalog.Listings(reqCtx, kind)
	if err != nil {
		ctx.Logger.Error("failed to load listings",
			zap.Int64("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return "😔 목록을 불러올 수 없습니다. 잠시 후 다시 시도해 주세요.", nil, err
	}

	view := listing.ComputeView(records, filters, ctx.Config.PageSize)

	ctx.Logger.Debug("listing view computed",
		zap.Int64("user_id", userID),
		zap.String("kind", string(kind)),
		zap.Int("page", view.Page),
		zap.Int("total", view.Total),
	)

	text := utils.FormatListingPage(kind, view, filters, ctx.Config.ImageBaseURL)
	return text, utils.InlinePaginationKeyboard(kind, view.Page, view.TotalPages), nil
}

// page:<kind>:<n>
func handlePage(ctx *Context, c tele.Context, parts []string) error {
	if len(parts) < 3 {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	kind, ok := parseKind(parts[1])
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 요청입니다"})
	}

	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "❌ 잘못된 페이지입니다"})
	}

	userID := c.Sender().ID

	if err := updateFilterState(ctx, userID, kind, func(f *models.FilterState) { f.SetPage(page) }); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 오류가 발생했습니다"})
	}

	if err := editListings(ctx, c, kind); err != nil {
		return err
	}

	return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("%d페이지", max(page, 1))})
}

func parseKind(raw string) (models.ListingKind, bool) {
	switch models.ListingKind(raw) {
	case models.KindJob:
		return models.KindJob, true
	case models.KindPost:
		return models.KindPost, true
	default:
		return "", false
	}
}
