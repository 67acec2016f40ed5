package discord

import (
	"fmt"
	"log"
	"strings"

	"github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/bwmarrin/discordgo"
)

// formatRenderTarget packs a channel and message ID into the opaque render
// target string the core stores per player
func formatRenderTarget(channelID, messageID string) string {
	return channelID + "/" + messageID
}

// parseRenderTarget unpacks a render target produced by formatRenderTarget
func parseRenderTarget(target string) (channelID, messageID string, ok bool) {
	channelID, messageID, ok = strings.Cut(target, "/")
	if channelID == "" || messageID == "" {
		return "", "", false
	}
	return channelID, messageID, ok
}

// viewEmbed renders a view's text body as an embed
func viewEmbed(v *game.View) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: v.Text,
		Color:       0x5865f2,
	}
}

// viewComponents renders a view's actions as one row of buttons. The
// command token doubles as the button's custom ID.
func viewComponents(v *game.View) []discordgo.MessageComponent {
	if len(v.Actions) == 0 {
		return []discordgo.MessageComponent{}
	}

	buttons := make([]discordgo.MessageComponent, 0, len(v.Actions))
	for _, action := range v.Actions {
		style := discordgo.SecondaryButton
		if action.Command == game.CommandStart || action.Command == game.CommandNewSession {
			style = discordgo.PrimaryButton
		}

		buttons = append(buttons, discordgo.Button{
			Label:    action.Label,
			Style:    style,
			CustomID: action.Command,
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// applyUpdates pushes view updates to each recipient's render target. A
// player without a target has never been rendered for; their update is
// dropped until they issue the menu command again.
func applyUpdates(s *discordgo.Session, updates []*game.ViewUpdate) {
	for _, update := range updates {
		channelID, messageID, ok := parseRenderTarget(update.RenderTarget)
		if !ok {
			log.Printf("No render target for player %s, dropping update", update.PlayerID)
			continue
		}

		embeds := []*discordgo.MessageEmbed{viewEmbed(update.View)}
		components := viewComponents(update.View)
		content := ""

		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    channelID,
			ID:         messageID,
			Content:    &content,
			Embeds:     &embeds,
			Components: &components,
		})
		if err != nil {
			log.Printf("Failed to render view for player %s: %v", update.PlayerID, err)
		}
	}
}

// userMessage maps a core error to the short notice shown to the actor
func userMessage(err error) string {
	switch err {
	case game.ErrSessionNotFound:
		return "🫤 That game no longer exists"
	case game.ErrSessionAlreadyStarted:
		return "😅 That game has already started"
	case game.ErrSessionNotStarted:
		return "🕹 The game has not started yet"
	case game.ErrInsufficientPlayers:
		return "🥲 Not enough players. At least two are needed."
	case game.ErrDuplicateAnswer:
		return "❌ That word was already used"
	case game.ErrPlayerNotInSession:
		return "🫤 You are not in that game"
	case game.ErrNotAuthorized:
		return "🚫 You are not allowed to do that"
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
