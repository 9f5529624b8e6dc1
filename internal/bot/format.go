package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviegate_bot/internal/model"
)

const deniedText = "This feature is for premium members only. Contact the admin for access."

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("Create movie post", "post:new")},
		{
			tgbotapi.NewInlineKeyboardButtonData("Channel setup", "chan:menu"),
			tgbotapi.NewInlineKeyboardButtonData("Set zone ID", "zone:set"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Set click target", "clicks:set"),
			tgbotapi.NewInlineKeyboardButtonData("Premium status", "premium:info"),
		},
	}
	if isAdmin {
		rows = append(rows,
			[]tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData("Stats", "admin:stats"),
				tgbotapi.NewInlineKeyboardButtonData("Grant member", "admin:grant"),
			},
			[]tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData("Revoke member", "admin:revoke"),
			},
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func channelMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add channel", "chan:add"),
			tgbotapi.NewInlineKeyboardButtonData("List channels", "chan:list"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Clear channels", "chan:clear"),
		),
	)
}

func moreOrFinishKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add another quality", "post:more"),
			tgbotapi.NewInlineKeyboardButtonData("Finish", "post:finish"),
		),
	)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Publish", "post:confirm"),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "post:cancel"),
		),
	)
}

// formatDraftSummary renders the collected draft for the confirm prompt.
func formatDraftSummary(d *draft) string {
	var b strings.Builder
	b.WriteString("Review your post:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", d.title)
	fmt.Fprintf(&b, "Language: %s\n", d.language)
	if d.posterURL == "" {
		b.WriteString("Poster: (default)\n")
	} else {
		fmt.Fprintf(&b, "Poster: %s\n", d.posterURL)
	}
	b.WriteString("Links:\n")
	for _, l := range d.links {
		fmt.Fprintf(&b, "  %s: %s\n", l.Quality, l.URL)
	}
	b.WriteString("\nPublish it?")
	return b.String()
}

// FormatChannelList renders the operator's saved promo channels.
func FormatChannelList(channels []model.PromoChannel) string {
	if len(channels) == 0 {
		return "No saved channels yet. Use \"Add channel\" to save one."
	}
	var b strings.Builder
	b.WriteString("Your saved channels:\n")
	for i, c := range channels {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, c.Name, c.URL)
	}
	return b.String()
}

// FormatPremiumStatus renders the user's membership state.
func FormatPremiumStatus(grant *model.PremiumGrant, isAdmin bool) string {
	if isAdmin {
		return "You are the administrator. All features are unlocked."
	}
	if grant == nil {
		return "You have no active premium membership. Contact the admin to get one."
	}
	return fmt.Sprintf("Premium active: %s (expires %s)",
		grant.Package, grant.ExpiresAt.UTC().Format("2006-01-02 15:04 UTC"))
}

// FormatGrantConfirmation renders the admin-side confirmation of a grant.
func FormatGrantConfirmation(args GrantArgs, expiresAt time.Time) string {
	return fmt.Sprintf("User %d is now premium: %s for %d day(s), until %s.",
		args.UserID, args.Package, args.Days, expiresAt.UTC().Format("2006-01-02 15:04 UTC"))
}

const helpText = `Commands:
/start — register and show the main menu
/menu — show the main menu
/post — start creating a movie post (premium)
/cancel — abandon the current flow
/help — this message

Post creation walks you through title, poster, language, and one or
more quality/link pairs. Settings (zone ID, click target, channels)
apply to every post you publish afterwards.`
