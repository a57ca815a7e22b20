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

const (
	deleteConfirmID = "delete-confirm"
	deleteCancelID  = "delete-cancel"
)

// Delete serves /currency delete with a confirm/cancel button round-trip.
// The target currency code rides in the button custom id, so concurrent
// deletions by different users cannot cross wires.
type Delete struct {
	currencies currency.Repository
	log        *slog.Logger
}

func NewDelete(currencies currency.Repository, log *slog.Logger) *Delete {
	return &Delete{currencies: currencies, log: log}
}

func (h *Delete) Name() string { return "delete" }

func (h *Delete) Option() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "delete",
		Description: "Delete a currency. This is not reversible!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Three-letter code of the currency to delete",
				MinLength:   &codeLength,
				MaxLength:   codeLength,
				Required:    true,
			},
		},
	}
}

func (h *Delete) Prefixes() []string {
	return []string{deleteConfirmID, deleteCancelID}
}

func (h *Delete) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	code := inv.Options.String("code")

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

	return bot.Interactive(
		fmt.Sprintf("Confirm you really want to delete the currency **%s** `%s`?\n*This is not reversible*", cur.Name, cur.Code),
		bot.ButtonRow(
			discordgo.Button{
				Label:    "Confirm",
				Style:    discordgo.DangerButton,
				CustomID: bot.NewCustomID(deleteConfirmID, cur.Code).String(),
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    discordgo.SecondaryButton,
				CustomID: bot.NewCustomID(deleteCancelID, cur.Code).String(),
			},
		),
	), nil
}

func (h *Delete) HandleComponent(ctx context.Context, inv *bot.Invocation, id bot.CustomID) (*bot.Response, error) {
	code := id.Arg(0)

	cur, err := h.currencies.GetByCode(ctx, code)
	if err != nil {
		var notFound currency.ErrCurrencyNotFound
		if errors.As(err, &notFound) {
			return bot.Ephemeral(fmt.Sprintf("The currency `%s` no longer exists.", code)), nil
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	if id.Prefix == deleteCancelID {
		return bot.Ephemeral(fmt.Sprintf("Will not delete currency **%s** `%s`.", cur.Name, cur.Code)), nil
	}

	if !cur.OwnedBy(inv.User().Username) {
		return bot.Ephemeral("You are not the owner of this currency, and therefore cannot modify it."), nil
	}

	if err := h.currencies.Delete(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to delete currency: %w", err)
	}

	h.log.Info("currency deleted", "code", cur.Code, "initiator", inv.User().Username)

	return bot.Announce(
		fmt.Sprintf("Deleted currency **%s** `%s` and all its records.", cur.Name, cur.Code),
		fmt.Sprintf("%s deleted currency **%s** `%s`", inv.User().Mention(), cur.Name, cur.Code),
	), nil
}
