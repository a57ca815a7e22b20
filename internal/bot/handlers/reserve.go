package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/transaction"
)

const (
	reserveConfirmID = "reserve-transaction-confirm"
	reserveCancelID  = "reserve-transaction-cancel"
)

// Reserve serves /currency reserve add|remove. The signed amount and target
// code ride in the confirm button's custom id.
type Reserve struct {
	currencies   currency.Repository
	transactions transaction.Repository
	log          *slog.Logger
}

func NewReserve(currencies currency.Repository, transactions transaction.Repository, log *slog.Logger) *Reserve {
	return &Reserve{currencies: currencies, transactions: transactions, log: log}
}

func (h *Reserve) Name() string { return "reserve" }

func (h *Reserve) Option() *discordgo.ApplicationCommandOption {
	amountAndCode := func(amountDesc string) []*discordgo.ApplicationCommandOption {
		return []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: amountDesc,
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Three-letter code of the currency to transact against",
				MinLength:   &codeLength,
				MaxLength:   codeLength,
				Required:    true,
			},
		}
	}

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        "reserve",
		Description: "Manage a currency's gold reserve",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Deposit gold into a currency's federal reserve",
				Options:     amountAndCode("Amount of gold ingots to deposit"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Withdraw gold from a currency's federal reserve",
				Options:     amountAndCode("Amount of gold ingots to withdraw"),
			},
		},
	}
}

func (h *Reserve) Prefixes() []string {
	return []string{reserveConfirmID, reserveCancelID}
}

func (h *Reserve) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	direction := inv.Subcommand()
	amount := inv.Options.Int("amount", 0)
	code := inv.Options.String("code")

	if amount < 0 {
		switch direction {
		case "add":
			return bot.Ephemeral("Can't use negative values with `/currency reserve add`. Please use `/currency reserve remove` instead."), nil
		default:
			return bot.Ephemeral("Can't use negative values with `/currency reserve remove`. Please use `/currency reserve add` instead."), nil
		}
	}
	if amount == 0 {
		return bot.Ephemeral("Transaction amounts must not be zero."), nil
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

	signed := amount
	if direction == "remove" {
		signed = -amount
	}

	return bot.Interactive(
		fmt.Sprintf(
			"**Review gold reserve transaction**\n> Currency: **%s** `%s`\n> Nation/State: *%s*\n> Amount: `%d ingots`\n> New balance: `%d ingots`",
			cur.Name, cur.Code, cur.State, signed, cur.Reserves+signed,
		),
		bot.ButtonRow(
			discordgo.Button{
				Label:    "Confirm",
				Style:    discordgo.PrimaryButton,
				CustomID: bot.NewCustomID(reserveConfirmID, cur.Code, strconv.FormatInt(signed, 10)).String(),
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    discordgo.SecondaryButton,
				CustomID: bot.NewCustomID(reserveCancelID, cur.Code).String(),
			},
		),
	), nil
}

func (h *Reserve) HandleComponent(ctx context.Context, inv *bot.Invocation, id bot.CustomID) (*bot.Response, error) {
	if id.Prefix == reserveCancelID {
		return bot.Ephemeral("Cancelled transaction. No records were updated."), nil
	}

	code := id.Arg(0)
	amount, err := strconv.ParseInt(id.Arg(1), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed transaction payload %q: %w", id.Arg(1), err)
	}

	cur, err := h.currencies.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}
	if !cur.OwnedBy(inv.User().Username) {
		return bot.Ephemeral("You are not the owner of this currency, and therefore cannot modify it."), nil
	}

	tx, err := h.transactions.ApplyReserveDelta(ctx, code, amount, inv.User().Username)
	if err != nil {
		return nil, fmt.Errorf("failed to complete reserve transaction: %w", err)
	}

	cur, err = h.currencies.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read currency balance: %w", err)
	}

	h.log.Info("reserve transaction applied",
		"code", code, "amount", amount, "transaction_id", tx.ID, "initiator", inv.User().Username)

	return bot.Announce(
		"Successfully completed gold reserve transaction!",
		fmt.Sprintf(
			"%s made a gold reserve transaction:\n> Currency: **%s** `%s`\n> Nation/State: *%s*\n> Amount: `%d ingots`\n> New balance: `%d ingots`\n> Transaction ID: `#%05d`",
			inv.User().Mention(), cur.Name, cur.Code, cur.State, amount, cur.Reserves, tx.ID,
		),
	), nil
}
