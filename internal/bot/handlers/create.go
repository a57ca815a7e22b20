// Package handlers implements the /currency subcommands: lifecycle
// management (create, delete, modify), ledger transactions (reserve,
// circulation) and queries (list, view, records).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/domain/currency"
)

// codeLength pins currency codes to exactly three characters at the Discord
// option level, mirroring the domain validation.
var codeLength = 3

// Create serves /currency create.
type Create struct {
	currencies currency.Repository
	log        *slog.Logger
}

func NewCreate(currencies currency.Repository, log *slog.Logger) *Create {
	return &Create{currencies: currencies, log: log}
}

func (h *Create) Name() string { return "create" }

func (h *Create) Option() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "create",
		Description: "Create a new currency",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "A three-letter currency code. This must be unique.",
				MinLength:   &codeLength,
				MaxLength:   codeLength,
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "The name of your new currency! This does *not* need to be unique",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "The name of the nation or state in which this currency is based",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "initial_circulation",
				Description: "The initial amount of your currency in circulation. Leave this blank if you're unsure",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "initial_reserve",
				Description: "The initial amount of gold in your federal reserve. Leave this blank if you're unsure.",
			},
		},
	}
}

func (h *Create) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	code := inv.Options.String("code")
	name := inv.Options.String("name")
	state := inv.Options.String("state")
	circulation := inv.Options.Int("initial_circulation", 0)
	reserves := inv.Options.Int("initial_reserve", 0)

	cur, err := currency.New(code, name, state, circulation, reserves, inv.User().Username)
	if err != nil {
		switch {
		case errors.Is(err, currency.ErrNegativeAmount):
			return bot.Ephemeral("Initial circulation and gold reserve cannot be negative."), nil
		case errors.Is(err, currency.ErrInvalidCode):
			return bot.Ephemeral("Currency codes must be exactly three letters, e.g. `TKD`."), nil
		default:
			return bot.Ephemeral(fmt.Sprintf("Invalid currency details: %v", err)), nil
		}
	}

	if err := h.currencies.Create(ctx, cur); err != nil {
		var dup currency.ErrDuplicateCode
		if errors.As(err, &dup) {
			return bot.Ephemeral(fmt.Sprintf("The currency code `%s` is already in use. Please choose another.", dup.Code)), nil
		}
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	h.log.Info("currency created", "code", cur.Code, "owner", cur.Owner)

	return bot.Text(fmt.Sprintf(
		"%s created new currency:\n> **%s** (*%s*)\n> Currency Code: `%s`\n> Initial circulation: `%d%s`\n> Initial gold reserve: `%d ingots`",
		inv.User().Mention(), cur.Name, cur.State, cur.Code, cur.Circulation, cur.Code, cur.Reserves,
	)), nil
}
