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
	circulationConfirmID = "circulation-transaction-confirm"
	circulationCancelID  = "circulation-transaction-cancel"
)

// removalWarning is shown before confirming a circulation removal, which
// raises the currency's value and is open to abuse if the coins were never
// actually destroyed.
const removalWarning = "\n**Warning**: You must only use this command if you are *certain* that you have removed the correct amount from circulation by repossessing and destroying it.\nUsing this command without doing so could result in prosecution by the Gold Standard organisation, as it will increase your currency's value illegally!"

// Circulation serves /currency circulation add|remove.
type Circulation struct {
	currencies   currency.Repository
	transactions transaction.Repository
	log          *slog.Logger
}

func NewCirculation(currencies currency.Repository, transactions transaction.Repository, log *slog.Logger) *Circulation {
	return &Circulation{currencies: currencies, transactions: transactions, log: log}
}

func (h *Circulation) Name() string { return "circulation" }

func (h *Circulation) Option() *discordgo.ApplicationCommandOption {
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
		Name:        "circulation",
		Description: "Manage the amount of a currency in circulation",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Mint new coins into circulation",
				Options:     amountAndCode("Amount of coins to mint"),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove destroyed coins from circulation",
				Options:     amountAndCode("Amount of coins removed from circulation"),
			},
		},
	}
}

func (h *Circulation) Prefixes() []string {
	return []string{circulationConfirmID, circulationCancelID}
}

func (h *Circulation) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	direction := inv.Subcommand()
	amount := inv.Options.Int("amount", 0)
	code := inv.Options.String("code")

	if amount < 0 {
		switch direction {
		case "add":
			return bot.Ephemeral("Can't use negative values with `/currency circulation add`. Please use `/currency circulation remove` instead."), nil
		default:
			return bot.Ephemeral("Can't use negative values with `/currency circulation remove`. Please use `/currency circulation add` instead."), nil
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
	warning := ""
	confirmStyle := discordgo.PrimaryButton
	cancelStyle := discordgo.SecondaryButton
	if direction == "remove" {
		signed = -amount
		warning = removalWarning
		confirmStyle = discordgo.DangerButton
		cancelStyle = discordgo.PrimaryButton
	}

	return bot.Interactive(
		fmt.Sprintf(
			"**Review currency circulation transaction**\n> Currency: **%s** `%s`\n> Nation/State: *%s*\n> Amount: `%d%s`\n> New balance: `%d%s`%s",
			cur.Name, cur.Code, cur.State, signed, cur.Code, cur.Circulation+signed, cur.Code, warning,
		),
		bot.ButtonRow(
			discordgo.Button{
				Label:    "Confirm",
				Style:    confirmStyle,
				CustomID: bot.NewCustomID(circulationConfirmID, cur.Code, strconv.FormatInt(signed, 10)).String(),
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    cancelStyle,
				CustomID: bot.NewCustomID(circulationCancelID, cur.Code).String(),
			},
		),
	), nil
}

func (h *Circulation) HandleComponent(ctx context.Context, inv *bot.Invocation, id bot.CustomID) (*bot.Response, error) {
	if id.Prefix == circulationCancelID {
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

	tx, err := h.transactions.ApplyCirculationDelta(ctx, code, amount, inv.User().Username)
	if err != nil {
		return nil, fmt.Errorf("failed to complete circulation transaction: %w", err)
	}

	cur, err = h.currencies.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read currency balance: %w", err)
	}

	h.log.Info("circulation transaction applied",
		"code", code, "amount", amount, "transaction_id", tx.ID, "initiator", inv.User().Username)

	return bot.Announce(
		"Successfully completed currency circulation transaction!",
		fmt.Sprintf(
			"%s made a currency circulation transaction:\n> Currency: **%s** `%s`\n> Nation/State: *%s*\n> Amount: `%d%s`\n> New balance: `%d%s`\n> Transaction ID: `#%05d`",
			inv.User().Mention(), cur.Name, cur.Code, cur.State, amount, cur.Code, cur.Circulation, cur.Code, tx.ID,
		),
	), nil
}
