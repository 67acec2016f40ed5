package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	playerRepo "github.com/KirkDiggler/mindmeld/internal/repositories/player"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/bwmarrin/discordgo"
)

// MindmeldCommand handles the /mindmeld command
type MindmeldCommand struct {
	BaseCommand
	gameService game.Service
	directory   playerRepo.Directory
}

// NewMindmeldCommand creates a new mindmeld command handler
func NewMindmeldCommand(gameService game.Service, directory playerRepo.Directory) *MindmeldCommand {
	return &MindmeldCommand{
		BaseCommand: BaseCommand{
			Name:        "mindmeld",
			Description: "Word-matching party game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "menu",
					Description: "Open the game menu",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "dump",
					Description: "Dump all sessions and players (admins only)",
				},
			},
		},
		gameService: gameService,
		directory:   directory,
	}
}

// Handle processes a /mindmeld interaction
func (c *MindmeldCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	subcommand := "menu"
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		subcommand = options[0].Name
	}

	switch subcommand {
	case "menu":
		return c.handleMenu(s, i)
	case "dump":
		return c.handleDump(s, i)
	default:
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Unknown subcommand: %s", subcommand))
	}
}

// handleMenu posts the menu message. That message becomes the player's
// render target: every later view update edits it in place.
func (c *MindmeldCommand) handleMenu(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	userID, username := interactionUser(i)
	if userID == "" {
		return RespondWithEphemeralMessage(s, i, "Could not identify you")
	}

	p, err := c.directory.GetOrCreate(ctx, &playerRepo.GetOrCreateInput{
		PlayerID:   userID,
		PlayerName: username,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	menu := game.MenuView()
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{viewEmbed(menu)},
			Components: viewComponents(menu),
		},
	})
	if err != nil {
		return err
	}

	// The response message is the fresh render target
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Printf("Failed to fetch menu message for player %s: %v", userID, err)
		return nil
	}
	target := formatRenderTarget(msg.ChannelID, msg.ID)

	p.Lock()
	p.RenderTarget = target
	sessionCode := p.SessionCode
	p.Unlock()

	// A player already in a session gets their current view re-rendered
	// on the fresh message instead of a bare menu
	if sessionCode != "" {
		out, err := c.gameService.StatusRefresh(ctx, &game.StatusRefreshInput{
			Code:         sessionCode,
			PlayerID:     userID,
			RenderTarget: target,
		})
		if err != nil {
			log.Printf("Failed to refresh view for player %s: %v", userID, err)
			return nil
		}
		applyUpdates(s, out.Updates)
	}

	return nil
}

// handleDump renders the read-only diagnostic snapshot for allow-listed
// admins
func (c *MindmeldCommand) handleDump(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	userID, _ := interactionUser(i)
	if userID == "" {
		return RespondWithEphemeralMessage(s, i, "Could not identify you")
	}

	out, err := c.gameService.AdminDump(ctx, &game.AdminDumpInput{RequesterID: userID})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessions: %d\n", len(out.Sessions))
	for _, sess := range out.Sessions {
		fmt.Fprintf(&b, "\n%s (%s) owner=%s started=%t round=%d answers=%d/%d history=%d last=%s",
			sess.Code, sess.ID, sess.OwnerID, sess.Started, sess.Round,
			sess.AnswersReceived, len(sess.MemberNames), sess.HistorySize,
			sess.LastActivity.Format("15:04:05"))
		fmt.Fprintf(&b, "\n  members: %s", strings.Join(sess.MemberNames, ", "))
	}

	fmt.Fprintf(&b, "\n\nPlayers: %d\n", len(out.Players))
	for _, p := range out.Players {
		fmt.Fprintf(&b, "\n%s (%s) session=%q awaiting_code=%t", p.Name, p.ID, p.SessionCode, p.AwaitingCode)
	}

	return RespondWithEphemeralMessage(s, i, b.String())
}
