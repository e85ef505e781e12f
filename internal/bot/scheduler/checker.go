// Package scheduler periodically sends users the job offers that match their
// saved filters and that they have not received yet.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"editor-board/internal/bot/utils"
	"editor-board/internal/listing"
	"editor-board/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type Store interface {
	GetUsersToCheck(ctx context.Context) ([]models.User, error)
	LoadFilterState(ctx context.Context, userID int64) (models.FilterState, error)
	GetUnseenListings(ctx context.Context, userID int64, kind models.ListingKind, listingIDs []int64) ([]int64, error)
	MarkListingsSeen(ctx context.Context, userID int64, kind models.ListingKind, listingIDs []int64) error
	UpdateLastCheck(ctx context.Context, userID int64) error
	CleanOldSeenListings(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Catalog interface {
	Refresh(ctx context.Context, kind models.ListingKind) ([]models.Listing, error)
}

type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Options struct {
	Interval     time.Duration
	MaxPerCheck  int
	ImageBaseURL string
	SendDelay    time.Duration
	// SeenRetention is how long sent listing ids are remembered.
	SeenRetention time.Duration
}

const DefaultSeenRetention = 30 * 24 * time.Hour

type ListingChecker struct {
	cron    *cron.Cron
	sender  Sender
	store   Store
	catalog Catalog
	opts    Options
	logger  *zap.Logger
}

func New(sender Sender, store Store, cat Catalog, opts Options, logger *zap.Logger) *ListingChecker {
	if opts.SeenRetention <= 0 {
		opts.SeenRetention = DefaultSeenRetention
	}
	return &ListingChecker{
		cron:    cron.New(),
		sender:  sender,
		store:   store,
		catalog: cat,
		opts:    opts,
		logger:  logger,
	}
}

// Start registers the check job and blocks until ctx is done.
func (lc *ListingChecker) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", lc.opts.Interval)

	_, err := lc.cron.AddFunc(spec, func() {
		lc.CheckAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron add func: %w", err)
	}

	if _, err := lc.cron.AddFunc("@daily", func() { lc.Prune(ctx) }); err != nil {
		return fmt.Errorf("cron add prune: %w", err)
	}

	lc.cron.Start()
	lc.logger.Info("listing checker started", zap.String("spec", spec))

	<-ctx.Done()

	stopped := lc.cron.Stop()
	<-stopped.Done()
	lc.logger.Info("listing checker stopped")

	return nil
}

// Prune forgets sent listing ids older than the retention window.
func (lc *ListingChecker) Prune(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := lc.store.CleanOldSeenListings(pruneCtx, lc.opts.SeenRetention); err != nil {
		lc.logger.Error("failed to prune seen listings", zap.Error(err))
	}
}

// CheckAll runs one notification round for every user that is due.
func (lc *ListingChecker) CheckAll(ctx context.Context) {
	lc.logger.Info("starting listing check for all users")

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	users, err := lc.store.GetUsersToCheck(runCtx)
	if err != nil {
		lc.logger.Error("failed to get users to check", zap.Error(err))
		return
	}

	if len(users) == 0 {
		lc.logger.Debug("no users to check")
		return
	}

	// one fetch per round, shared by every user
	jobs, err := lc.catalog.Refresh(runCtx, models.KindJob)
	if err != nil {
		lc.logger.Error("failed to load jobs", zap.Error(err))
		return
	}

	for _, user := range users {
		if runCtx.Err() != nil {
			return
		}

		if err := lc.checkUser(runCtx, user.ID, jobs); err != nil {
			lc.logger.Error("failed to check listings for user",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
			continue
		}

		if err := lc.store.UpdateLastCheck(runCtx, user.ID); err != nil {
			lc.logger.Error("failed to update last check",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	lc.logger.Info("finished listing check", zap.Int("users", len(users)))
}

func (lc *ListingChecker) checkUser(ctx context.Context, userID int64, jobs []models.Listing) error {
	filters, err := lc.store.LoadFilterState(ctx, userID)
	if err != nil {
		return fmt.Errorf("load filters: %w", err)
	}

	view := listing.ComputeView(jobs, filters, len(jobs))
	if view.Total == 0 {
		return nil
	}

	unseenIDs, err := lc.store.GetUnseenListings(ctx, userID, models.KindJob, models.ListingIDs(view.Items))
	if err != nil {
		return fmt.Errorf("get unseen listings: %w", err)
	}

	fresh := selectByID(view.Items, unseenIDs, lc.opts.MaxPerCheck)
	if len(fresh) == 0 {
		lc.logger.Debug("no new listings", zap.Int64("user_id", userID))
		return nil
	}

	sent, err := lc.notify(userID, fresh)
	if err != nil {
		return fmt.Errorf("send notifications: %w", err)
	}

	if err := lc.store.MarkListingsSeen(ctx, userID, models.KindJob, models.ListingIDs(sent)); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}

	lc.logger.Info("sent new listings to user",
		zap.Int64("user_id", userID),
		zap.Int("count", len(sent)),
	)

	return nil
}

// notify sends a summary and one card per listing. It returns the listings
// whose card was delivered.
func (lc *ListingChecker) notify(userID int64, listings []models.Listing) ([]models.Listing, error) {
	recipient := &tele.User{ID: userID}

	if _, err := lc.sender.Send(recipient, utils.FormatNewListings(len(listings)), tele.ModeMarkdownV2); err != nil {
		return nil, fmt.Errorf("send summary: %w", err)
	}

	var sent []models.Listing
	for i, l := range listings {
		card := utils.FormatListingCard(l, lc.opts.ImageBaseURL)

		if _, err := lc.sender.Send(recipient, card, tele.ModeMarkdownV2, tele.NoPreview); err != nil {
			lc.logger.Error("failed to send listing notification",
				zap.Int64("user_id", userID),
				zap.Int64("listing_id", l.ID),
				zap.Error(err),
			)
			continue
		}
		sent = append(sent, l)

		if lc.opts.SendDelay > 0 && i < len(listings)-1 {
			time.Sleep(lc.opts.SendDelay)
		}
	}

	return sent, nil
}

// selectByID keeps the listings whose id is in ids, in listing order, up to limit.
func selectByID(listings []models.Listing, ids []int64, limit int) []models.Listing {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []models.Listing
	for _, l := range listings {
		if limit > 0 && len(out) >= limit {
			break
		}
		if _, ok := wanted[l.ID]; ok {
			out = append(out, l)
		}
	}
	return out
}
