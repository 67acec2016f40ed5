package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	playerRepo "github.com/KirkDiggler/mindmeld/internal/repositories/player"
	"github.com/KirkDiggler/mindmeld/internal/services/game"
	"github.com/bwmarrin/discordgo"
)

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	commands    map[string]CommandHandler
	commandIDs  map[string]string // Maps command name to command ID
	gameService game.Service
	directory   playerRepo.Directory
	config      *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Game service
	GameService game.Service

	// Player directory, used to route free-text input (code entry and
	// answers) before a session operation is known
	PlayerDirectory playerRepo.Directory
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.PlayerDirectory == nil {
		return nil, errors.New("player directory cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Free-text answers arrive as plain messages
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session:     session,
		commands:    make(map[string]CommandHandler),
		commandIDs:  make(map[string]string),
		gameService: cfg.GameService,
		directory:   cfg.PlayerDirectory,
		config:      cfg,
	}

	// Register the interaction and message handlers
	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleMessage)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register the mindmeld command
	cmd := NewMindmeldCommand(b.gameService, b.directory)
	if err := b.RegisterCommand(cmd); err != nil {
		return fmt.Errorf("failed to register mindmeld command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register the command for that specific
	// guild, otherwise register it globally
	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// interactionUser extracts the acting user's ID and display name from an
// interaction, which arrives differently in guilds and DMs
func interactionUser(i *discordgo.InteractionCreate) (string, string) {
	if i.Member != nil && i.Member.User != nil {
		if i.Member.Nick != "" {
			return i.Member.User.ID, i.Member.Nick
		}
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks. A button press is an
// interactive action: it legitimately carries the message it lives on, so
// that message becomes the player's render target.
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	userID, username := interactionUser(i)
	if userID == "" {
		return RespondWithEphemeralMessage(s, i, "Could not identify you")
	}

	target := formatRenderTarget(i.ChannelID, i.Message.ID)

	switch customID {
	case game.CommandNewSession:
		return b.handleNewSessionButton(s, i, userID, username, target)
	case game.CommandJoin:
		return b.handleJoinButton(s, i, userID, username, target)
	case game.CommandStart:
		return b.handleStartButton(s, i, userID, target)
	case game.CommandLeave:
		return b.handleLeaveButton(s, i, userID, target)
	default:
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

// handleNewSessionButton opens a fresh session for the player
func (b *Bot) handleNewSessionButton(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username, target string) error {
	ctx := context.Background()

	out, err := b.gameService.CreateSession(ctx, &game.CreateSessionInput{
		PlayerID:     userID,
		PlayerName:   username,
		RenderTarget: target,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	if err := AcknowledgeComponent(s, i); err != nil {
		return err
	}

	applyUpdates(s, out.Updates)
	return nil
}

// handleJoinButton prompts the player for a session code. Their next text
// message is treated as the code.
func (b *Bot) handleJoinButton(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username, target string) error {
	ctx := context.Background()

	p, err := b.directory.GetOrCreate(ctx, &playerRepo.GetOrCreateInput{
		PlayerID:   userID,
		PlayerName: username,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	p.Lock()
	p.AwaitingCode = true
	p.RenderTarget = target
	p.Unlock()

	// Turn the pressed message into the code prompt, keeping the menu
	// buttons around
	menu := game.MenuView()
	components := viewComponents(menu)
	content := ""
	embeds := []*discordgo.MessageEmbed{{
		Description: "✒ Send the game code as a message",
		Color:       0x5865f2,
	}}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: components,
		},
	})
}

// handleStartButton starts the game in the player's current session
func (b *Bot) handleStartButton(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string) error {
	ctx := context.Background()

	sessionCode, err := b.currentSessionCode(ctx, userID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	out, err := b.gameService.StartSession(ctx, &game.StartSessionInput{
		Code:         sessionCode,
		PlayerID:     userID,
		RenderTarget: target,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	if err := AcknowledgeComponent(s, i); err != nil {
		return err
	}

	applyUpdates(s, out.Updates)
	return nil
}

// handleLeaveButton removes the player from their current session
func (b *Bot) handleLeaveButton(s *discordgo.Session, i *discordgo.InteractionCreate, userID, target string) error {
	ctx := context.Background()

	sessionCode, err := b.currentSessionCode(ctx, userID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	out, err := b.gameService.LeaveSession(ctx, &game.LeaveSessionInput{
		Code:         sessionCode,
		PlayerID:     userID,
		RenderTarget: target,
	})
	if err != nil {
		return RespondWithEphemeralMessage(s, i, userMessage(err))
	}

	if err := AcknowledgeComponent(s, i); err != nil {
		return err
	}

	applyUpdates(s, out.Updates)
	return nil
}

// currentSessionCode resolves the session code the player is currently in
func (b *Bot) currentSessionCode(ctx context.Context, userID string) (string, error) {
	p, err := b.directory.Get(ctx, &playerRepo.GetInput{PlayerID: userID})
	if err != nil {
		return "", game.ErrSessionNotFound
	}

	p.Lock()
	sessionCode := p.SessionCode
	p.Unlock()

	if sessionCode == "" {
		return "", game.ErrSessionNotFound
	}

	return sessionCode, nil
}

// handleMessage routes free-text input: a code while the player is
// awaiting one, an answer while their session is collecting
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Content == "" {
		return
	}

	ctx := context.Background()

	p, err := b.directory.GetOrCreate(ctx, &playerRepo.GetOrCreateInput{
		PlayerID:   m.Author.ID,
		PlayerName: m.Author.Username,
	})
	if err != nil {
		log.Printf("Error resolving player %s: %v", m.Author.ID, err)
		return
	}

	p.Lock()
	awaitingCode := p.AwaitingCode
	sessionCode := p.SessionCode
	p.Unlock()

	switch {
	case awaitingCode:
		out, err := b.gameService.JoinSession(ctx, &game.JoinSessionInput{
			Code:       m.Content,
			PlayerID:   p.ID,
			PlayerName: p.Name,
		})
		if err != nil {
			b.notify(s, m.ChannelID, userMessage(err))
			return
		}
		applyUpdates(s, out.Updates)

	case sessionCode != "":
		out, err := b.gameService.SubmitAnswer(ctx, &game.SubmitAnswerInput{
			Code:     sessionCode,
			PlayerID: p.ID,
			Text:     m.Content,
		})
		if err != nil {
			if errors.Is(err, game.ErrSessionNotStarted) {
				// Chatter in the lobby is not an answer
				return
			}
			b.notify(s, m.ChannelID, userMessage(err))
			return
		}
		applyUpdates(s, out.Updates)
	}
}

// notify sends a short notice to the channel the actor wrote in
func (b *Bot) notify(s *discordgo.Session, channelID, message string) {
	if _, err := s.ChannelMessageSend(channelID, message); err != nil {
		log.Printf("Failed to send notice: %v", err)
	}
}
