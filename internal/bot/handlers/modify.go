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

// Modify serves /currency modify name|state|code. Metadata edits apply
// immediately; they carry no monetary effect so no confirmation round-trip.
type Modify struct {
	currencies currency.Repository
	log        *slog.Logger
}

func NewModify(currencies currency.Repository, log *slog.Logger) *Modify {
	return &Modify{currencies: currencies, log: log}
}

func (h *Modify) Name() string { return "modify" }

func (h *Modify) Option() *discordgo.ApplicationCommandOption {
	codeOption := func(name, desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: desc,
			MinLength:   &codeLength,
			MaxLength:   codeLength,
			Required:    true,
		}
	}

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "modify",
		Description: "Modify currency name, state or currency code",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "name",
				Description: "Modify currency name",
				Options: []*discordgo.ApplicationCommandOption{
					codeOption("code", "Three-letter currency code to modify"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "New name of the currency",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "state",
				Description: "Modify nation/state of origin of a currency",
				Options: []*discordgo.ApplicationCommandOption{
					codeOption("code", "Three-letter currency code to modify"),
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "state",
						Description: "New nation/state of the currency",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "code",
				Description: "Modify three-letter currency code",
				Options: []*discordgo.ApplicationCommandOption{
					codeOption("old_code", "Old three-letter currency code"),
					codeOption("new_code", "New three-letter currency code"),
				},
			},
		},
	}
}

func (h *Modify) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	var (
		code     string
		field    currency.MetaField
		newValue string
	)

	switch inv.Subcommand() {
	case "name":
		code = inv.Options.String("code")
		field = currency.MetaName
		newValue = inv.Options.String("name")
	case "state":
		code = inv.Options.String("code")
		field = currency.MetaState
		newValue = inv.Options.String("state")
	case "code":
		code = inv.Options.String("old_code")
		field = currency.MetaCode
		newValue = inv.Options.String("new_code")
	default:
		return bot.Ephemeral("Unknown modification target."), nil
	}

	cur, err := h.currencies.GetByCode(ctx, code)
	if err != nil {
		var notFound currency.ErrCurrencyNotFound
		if errors.As(err, &notFound) {
			return bot.Ephemeral(fmt.Sprintf("Could not find the currency code `%s`.", code)), nil
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	if !cur.OwnedBy(inv.User().Username) {
		return bot.Ephemeral("You are not the owner of this currency, and therefore cannot modify it."), nil
	}

	updated, err := h.currencies.UpdateMeta(ctx, code, field, newValue)
	if err != nil {
		var dup currency.ErrDuplicateCode
		if errors.As(err, &dup) {
			return bot.Ephemeral(fmt.Sprintf("The currency code `%s` is already in use. Please choose another.", dup.Code)), nil
		}
		return nil, fmt.Errorf("failed to update currency metadata: %w", err)
	}

	var change string
	switch field {
	case currency.MetaCode:
		change = fmt.Sprintf("Currency Code -> `%s`", updated.Code)
	case currency.MetaState:
		change = fmt.Sprintf("Nation/State -> *%s*", updated.State)
	default:
		change = fmt.Sprintf("Currency Name -> **%s**", updated.Name)
	}

	h.log.Info("currency metadata modified",
		"code", code, "field", string(field), "initiator", inv.User().Username)

	return bot.Announce(
		fmt.Sprintf("Successfully modified currency **%s** `%s`", updated.Name, updated.Code),
		fmt.Sprintf("%s modified currency **%s**:\n> %s", inv.User().Mention(), updated.Name, change),
	), nil
}
