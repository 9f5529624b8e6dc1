package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviegate_bot/internal/storage"
)

// Callback actions gated behind premium membership.
var premiumActions = map[string]bool{
	"post:new":   true,
	"chan:menu":  true,
	"chan:add":   true,
	"chan:list":  true,
	"chan:clear": true,
	"zone:set":   true,
	"clicks:set": true,
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	data := cb.Data
	chatID := cb.Message.Chat.ID

	b.log.Info("callback", "action", data, "chat_id", chatID, "user_id", cb.From.ID)

	if premiumActions[data] {
		ok, err := b.premium.CheckAndReap(ctx, chatID, time.Now())
		if err != nil {
			b.log.Error("premium check", "chat_id", chatID, "error", err)
			b.ackCallback(cb.ID, "Something went wrong.")
			return
		}
		if !ok {
			b.alertCallback(cb.ID, deniedText)
			return
		}
	}

	b.ackCallback(cb.ID, "")

	switch data {
	case "post:new":
		b.drafts.begin(chatID, stepTitle)
		b.reply(chatID, promptTitle)
	case "post:more":
		d := b.drafts.get(chatID)
		if d == nil || d.step != stepMore {
			return
		}
		d.step = stepQuality
		b.reply(chatID, promptQuality)
	case "post:finish":
		d := b.drafts.get(chatID)
		if d == nil || d.step != stepMore {
			return
		}
		d.step = stepConfirm
		b.replyWithKeyboard(chatID, formatDraftSummary(d), confirmKeyboard())
	case "post:confirm":
		d := b.drafts.get(chatID)
		if d == nil || d.step != stepConfirm {
			return
		}
		b.publish(ctx, chatID, d)
	case "post:cancel":
		if b.drafts.get(chatID) == nil {
			return
		}
		b.drafts.end(chatID)
		b.reply(chatID, "Cancelled.")
	case "chan:menu":
		b.replyWithKeyboard(chatID, "Channel setup", channelMenuKeyboard())
	case "chan:add":
		b.drafts.begin(chatID, stepChanName)
		b.reply(chatID, "Channel name:")
	case "chan:list":
		profile, err := b.store.GetProfile(ctx, chatID)
		if err != nil {
			b.log.Error("get profile", "chat_id", chatID, "error", err)
			b.reply(chatID, "Failed to load your channels.")
			return
		}
		b.reply(chatID, FormatChannelList(profile.Channels))
	case "chan:clear":
		if err := b.store.ClearProfileChannels(ctx, chatID); err != nil {
			b.log.Error("clear profile channels", "chat_id", chatID, "error", err)
			b.reply(chatID, "Failed to clear your channels.")
			return
		}
		b.reply(chatID, "Saved channels cleared.")
	case "zone:set":
		b.drafts.begin(chatID, stepZone)
		b.reply(chatID, "Your ad zone ID:")
	case "clicks:set":
		b.drafts.begin(chatID, stepClicks)
		b.reply(chatID, "How many ad views before the link unlocks? (1-20)")
	case "premium:info":
		b.sendPremiumInfo(ctx, chatID, cb.From.ID)
	case "admin:stats":
		if !b.cfg.IsAdmin(chatID) {
			b.reply(chatID, "Admins only.")
			return
		}
		b.sendStats(ctx, chatID)
	case "admin:grant":
		if !b.cfg.IsAdmin(chatID) {
			b.reply(chatID, "Admins only.")
			return
		}
		b.drafts.begin(chatID, stepGrant)
		b.reply(chatID, "Send: UserID | Days | PackageName")
	case "admin:revoke":
		if !b.cfg.IsAdmin(chatID) {
			b.reply(chatID, "Admins only.")
			return
		}
		b.drafts.begin(chatID, stepRevoke)
		b.reply(chatID, "Send the user ID to revoke:")
	}
}

func (b *Bot) sendPremiumInfo(ctx context.Context, chatID, userID int64) {
	if b.cfg.IsAdmin(chatID) {
		b.reply(chatID, FormatPremiumStatus(nil, true))
		return
	}
	// Run the reaping check first so an expired grant reads as absent.
	if _, err := b.premium.CheckAndReap(ctx, userID, time.Now()); err != nil {
		b.log.Error("premium check", "user_id", userID, "error", err)
	}
	grant, err := b.store.GetGrant(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		b.log.Error("get grant", "user_id", userID, "error", err)
		b.reply(chatID, "Failed to load your membership.")
		return
	}
	b.reply(chatID, FormatPremiumStatus(grant, false))
}

func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	users, err := b.store.CountUsers(ctx)
	if err != nil {
		b.log.Error("count users", "error", err)
		b.reply(chatID, "Failed to load stats.")
		return
	}
	grants, err := b.store.CountGrants(ctx)
	if err != nil {
		b.log.Error("count grants", "error", err)
		b.reply(chatID, "Failed to load stats.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Total users: %d\nPremium members: %d", users, grants))
}

func (b *Bot) ackCallback(id, text string) {
	callback := tgbotapi.NewCallback(id, text)
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}
}

func (b *Bot) alertCallback(id, text string) {
	callback := tgbotapi.NewCallbackWithAlert(id, text)
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback alert", "error", err)
	}
}
