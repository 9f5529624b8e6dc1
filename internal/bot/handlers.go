package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"moviegate_bot/internal/model"
)

const (
	postIDLength  = 10
	skipSentinel  = "skip"
	promptTitle   = "Movie title:"
	promptPoster  = "Poster image URL (or \"skip\" for the default):"
	promptLang    = "Language:"
	promptQuality = "Quality label (e.g. 720p):"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID)

	switch cmd {
	case "start":
		if err := b.store.UpsertUser(ctx, chatID); err != nil {
			b.log.Error("upsert user", "chat_id", chatID, "error", err)
		}
		b.sendMainMenu(chatID)
	case "menu":
		b.sendMainMenu(chatID)
	case "post":
		b.beginPost(ctx, chatID)
	case "cancel":
		if b.drafts.get(chatID) == nil {
			b.reply(chatID, "Nothing to cancel.")
			return
		}
		b.drafts.end(chatID)
		b.reply(chatID, "Cancelled.")
	case "help":
		b.reply(chatID, helpText)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	b.replyWithKeyboard(chatID, "Main menu", mainMenuKeyboard(b.cfg.IsAdmin(chatID)))
}

// handleText advances the chat's draft by one step. Free text from a chat
// with no draft is ignored.
func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	d := b.drafts.get(chatID)
	if d == nil {
		return
	}
	text = strings.TrimSpace(text)

	switch d.step {
	case stepTitle:
		d.title = text
		d.step = stepPoster
		b.reply(chatID, promptPoster)
	case stepPoster:
		if !strings.EqualFold(text, skipSentinel) {
			d.posterURL = text
		}
		d.step = stepLanguage
		b.reply(chatID, promptLang)
	case stepLanguage:
		d.language = text
		d.step = stepQuality
		b.reply(chatID, promptQuality)
	case stepQuality:
		d.pendingQuality = text
		d.step = stepLink
		b.reply(chatID, fmt.Sprintf("Destination link for %s:", text))
	case stepLink:
		d.links = append(d.links, model.QualityLink{Quality: d.pendingQuality, URL: text})
		d.pendingQuality = ""
		d.step = stepMore
		b.replyWithKeyboard(chatID,
			fmt.Sprintf("Added %d link(s). Add another quality or finish?", len(d.links)),
			moreOrFinishKeyboard())
	case stepMore, stepConfirm:
		b.reply(chatID, "Use the buttons above to continue, or /cancel.")
	case stepChanName:
		d.chanName = text
		d.step = stepChanLink
		b.reply(chatID, "Channel link:")
	case stepChanLink:
		ch := model.PromoChannel{Name: d.chanName, URL: text}
		if err := b.store.AddProfileChannel(ctx, chatID, ch); err != nil {
			b.log.Error("add profile channel", "chat_id", chatID, "error", err)
			b.reply(chatID, "Failed to save the channel. Try again later.")
			return
		}
		b.drafts.end(chatID)
		b.reply(chatID, fmt.Sprintf("Channel %q saved.", ch.Name))
	case stepZone:
		if err := b.store.SetProfileZone(ctx, chatID, text); err != nil {
			b.log.Error("set profile zone", "chat_id", chatID, "error", err)
			b.reply(chatID, "Failed to save the zone ID. Try again later.")
			return
		}
		b.drafts.end(chatID)
		b.reply(chatID, fmt.Sprintf("Zone ID set to %s.", text))
	case stepClicks:
		n, err := ParseClickTarget(text)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("%v. How many ad views before the link unlocks?", err))
			return
		}
		if err := b.store.SetProfileAdTarget(ctx, chatID, n); err != nil {
			b.log.Error("set profile ad target", "chat_id", chatID, "error", err)
			b.reply(chatID, "Failed to save the click target. Try again later.")
			return
		}
		b.drafts.end(chatID)
		b.reply(chatID, fmt.Sprintf("Click target set to %d.", n))
	case stepGrant:
		b.handleGrantInput(ctx, chatID, text)
	case stepRevoke:
		b.handleRevokeInput(ctx, chatID, text)
	}
}

func (b *Bot) handleGrantInput(ctx context.Context, chatID int64, text string) {
	args, err := ParseGrantArgs(text)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("%v. Try again or /cancel.", err))
		return
	}
	expiresAt := time.Now().UTC().Add(time.Duration(args.Days) * 24 * time.Hour)
	g := model.PremiumGrant{UserID: args.UserID, Package: args.Package, ExpiresAt: expiresAt}
	if err := b.store.UpsertGrant(ctx, &g); err != nil {
		b.log.Error("upsert grant", "user_id", args.UserID, "error", err)
		b.reply(chatID, "Failed to save the grant. Try again later.")
		return
	}
	b.drafts.end(chatID)
	b.reply(chatID, FormatGrantConfirmation(args, expiresAt))
	b.SendMessage(args.UserID, fmt.Sprintf("You now have premium access: %s, until %s.",
		args.Package, expiresAt.Format("2006-01-02 15:04 UTC")))
}

func (b *Bot) handleRevokeInput(ctx context.Context, chatID int64, text string) {
	userID, err := ParseUserID(text)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("%v. Try again or /cancel.", err))
		return
	}
	if err := b.store.DeleteGrant(ctx, userID); err != nil {
		b.log.Error("delete grant", "user_id", userID, "error", err)
		b.reply(chatID, "Failed to revoke. Try again later.")
		return
	}
	b.drafts.end(chatID)
	b.reply(chatID, fmt.Sprintf("Premium revoked for user %d.", userID))
}

// beginPost starts the post-creation flow for a premium chat.
func (b *Bot) beginPost(ctx context.Context, chatID int64) {
	ok, err := b.premium.CheckAndReap(ctx, chatID, time.Now())
	if err != nil {
		b.log.Error("premium check", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong. Try again later.")
		return
	}
	if !ok {
		b.reply(chatID, deniedText)
		return
	}
	b.drafts.begin(chatID, stepTitle)
	b.reply(chatID, promptTitle)
}

// publish persists the draft as a post and reports the public URL.
func (b *Bot) publish(ctx context.Context, chatID int64, d *draft) {
	profile, err := b.store.GetProfile(ctx, chatID)
	if err != nil {
		b.log.Error("get profile", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to load your settings. Try again later.")
		return
	}

	zoneID := profile.ZoneID
	if zoneID == "" {
		zoneID = b.cfg.DefaultZoneID
	}
	adTarget := profile.AdTarget
	if adTarget == 0 {
		adTarget = b.cfg.DefaultAdTarget
	}
	posterURL := d.posterURL
	if posterURL == "" {
		posterURL = b.cfg.DefaultPosterURL
	}

	id, err := gonanoid.New(postIDLength)
	if err != nil {
		b.log.Error("mint post id", "error", err)
		b.reply(chatID, "Failed to publish. Try again later.")
		return
	}

	post := model.Post{
		ID:            id,
		CreatorChatID: chatID,
		Title:         d.title,
		PosterURL:     posterURL,
		Language:      d.language,
		Links:         d.links,
		Channels:      profile.Channels,
		ZoneID:        zoneID,
		AdTarget:      adTarget,
	}
	if err := b.store.CreatePost(ctx, &post); err != nil {
		b.log.Error("create post", "post_id", id, "error", err)
		b.reply(chatID, "Failed to publish. Try again later.")
		return
	}

	b.drafts.end(chatID)
	b.log.Info("post published", "post_id", id, "chat_id", chatID, "links", len(post.Links))
	b.reply(chatID, fmt.Sprintf("Post published!\n\nID: %s\nURL: %s/post/%s\nClick target: %d",
		id, strings.TrimRight(b.cfg.BaseURL, "/"), id, adTarget))
}
