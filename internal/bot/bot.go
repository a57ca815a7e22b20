// Package bot hosts the Discord gateway surface: a single /currency slash
// command whose subcommands are served by registered handlers, plus the
// component interactions that confirm destructive flows.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/config"
)

// rootCommand is the single top-level slash command all subcommands hang off.
const rootCommand = "currency"

// handleTimeout bounds one interaction's database work. Discord itself
// expects an initial response within 3 seconds.
const handleTimeout = 10 * time.Second

// Bot owns the Discord session and dispatches interactions to the registry.
type Bot struct {
	cfg      *config.DiscordConfig
	session  *discordgo.Session
	registry *Registry
	log      *slog.Logger
}

// New builds the gateway session and wires the ready and interaction
// handlers. The session is not opened until Start.
func New(log *slog.Logger, cfg *config.DiscordConfig, registry *Registry) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		cfg:      cfg,
		session:  session,
		registry: registry,
		log:      log,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Start opens the gateway connection. Slash commands are registered once the
// ready event arrives.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("discord gateway ready", "username", r.User.Username)

	command := &discordgo.ApplicationCommand{
		Name:        rootCommand,
		Description: "Manage and query virtual currencies on the gold standard",
		Options:     b.registry.CommandOptions(),
	}

	// Guild-scoped commands propagate immediately; global ones take up to
	// an hour, so a guild id is preferred during operation.
	if _, err := s.ApplicationCommandCreate(r.User.ID, b.cfg.GuildID, command); err != nil {
		b.log.Error("failed to register slash command", "command", rootCommand, "error", err)
		return
	}
	b.log.Info("slash command registered", "command", rootCommand, "guild_id", b.cfg.GuildID)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.dispatchCommand(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.dispatchComponent(ctx, s, i)
	case discordgo.InteractionModalSubmit:
		b.dispatchModal(ctx, s, i)
	}
}

func (b *Bot) dispatchCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != rootCommand || len(data.Options) == 0 {
		return
	}

	sub := data.Options[0].Name
	handler, ok := b.registry.Command(sub)
	if !ok {
		b.log.Warn("no handler for subcommand", "subcommand", sub)
		return
	}

	path, options := flattenOptions(data)
	inv := &Invocation{Session: s, Interaction: i, Path: path, Options: options}

	resp, err := handler.Handle(ctx, inv)
	if err != nil {
		b.log.Error("command handler failed", "subcommand", sub, "error", err)
		resp = Ephemeral(fmt.Sprintf("Something went wrong: %v", err))
	}
	b.respond(s, i, resp, false)
}

func (b *Bot) dispatchComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	id := ParseCustomID(i.MessageComponentData().CustomID)
	handler, ok := b.registry.Component(id.Prefix)
	if !ok {
		b.log.Warn("no handler for component", "custom_id", id.Prefix)
		return
	}

	inv := &Invocation{Session: s, Interaction: i}

	resp, err := handler.HandleComponent(ctx, inv, id)
	if err != nil {
		b.log.Error("component handler failed", "custom_id", id.Prefix, "error", err)
		resp = Ephemeral(fmt.Sprintf("Something went wrong: %v", err))
	}
	b.respond(s, i, resp, true)
}

func (b *Bot) dispatchModal(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	id := ParseCustomID(i.ModalSubmitData().CustomID)
	handler, ok := b.registry.Modal(id.Prefix)
	if !ok {
		b.log.Warn("no handler for modal", "custom_id", id.Prefix)
		return
	}

	inv := &Invocation{Session: s, Interaction: i}

	resp, err := handler.HandleModal(ctx, inv, id)
	if err != nil {
		b.log.Error("modal handler failed", "custom_id", id.Prefix, "error", err)
		resp = Ephemeral(fmt.Sprintf("Something went wrong: %v", err))
	}
	b.respond(s, i, resp, false)
}

// respond sends the handler's response. Component interactions update the
// prompt message in place, which also strips its buttons so a confirmation
// cannot be pressed twice.
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, resp *Response, component bool) {
	if resp == nil {
		return
	}

	data := &discordgo.InteractionResponseData{
		Content:    resp.Content,
		Components: resp.Components,
	}
	if component && data.Components == nil {
		// Replace the button row so the confirmation cannot fire twice.
		data.Components = []discordgo.MessageComponent{}
	}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{resp.Embed}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	kind := discordgo.InteractionResponseChannelMessageWithSource
	if component {
		kind = discordgo.InteractionResponseUpdateMessage
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{Type: kind, Data: data})
	if err != nil {
		b.log.Error("failed to respond to interaction", "error", err)
		return
	}

	if resp.Broadcast != "" {
		if _, err := s.ChannelMessageSend(i.ChannelID, resp.Broadcast); err != nil {
			b.log.Error("failed to broadcast to channel", "channel_id", i.ChannelID, "error", err)
		}
	}
}
