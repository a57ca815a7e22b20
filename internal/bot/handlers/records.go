package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
)

// defaultRecordsLimit bounds the record listing when no number is given.
const defaultRecordsLimit = 10

// Records serves /currency records: a table of recent end-of-day valuation
// records for one currency, most recent first.
type Records struct {
	currencies currency.Repository
	records    record.Repository
	log        *slog.Logger
}

func NewRecords(currencies currency.Repository, records record.Repository, log *slog.Logger) *Records {
	return &Records{currencies: currencies, records: records, log: log}
}

func (h *Records) Name() string { return "records" }

func (h *Records) Option() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "records",
		Description: "View past currency end-of-day records",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Three-letter code of the currency to view records for",
				MinLength:   &codeLength,
				MaxLength:   codeLength,
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "number",
				Description: "Maximum number of records to show",
			},
		},
	}
}

func (h *Records) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	code := inv.Options.String("code")
	limit := int(inv.Options.Int("number", defaultRecordsLimit))
	if limit <= 0 {
		limit = defaultRecordsLimit
	}

	cur, err := h.currencies.GetByCode(ctx, code)
	if err != nil {
		var notFound currency.ErrCurrencyNotFound
		if errors.As(err, &notFound) {
			return bot.Ephemeral(fmt.Sprintf("Could not find the currency code `%s`.", code)), nil
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	records, err := h.records.ListRecent(ctx, cur.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to look up currency records: %w", err)
	}

	if len(records) == 0 {
		return bot.Ephemeral(fmt.Sprintf("No records exist yet for **%s** `%s`. Records are taken at market close each day.", cur.Name, cur.Code)), nil
	}

	return bot.Ephemeral(recordsTable(cur, records)), nil
}

// recordsTable renders the record history as a box-drawn ansi table.
func recordsTable(cur *currency.Currency, records []record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "```ansi\nRecord list for [%s%s%s] %s%s%s\n",
		ansiCyan, cur.Code, ansiReset, ansiBold, cur.Name, ansiReset)

	b.WriteString("┏━━━━━━━━━━┳━━━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━┓\n")
	b.WriteString("┃Date      ┃Value at Opening ┃Value at Closing ┃Change in Value ┃Performance   ┃\n")
	b.WriteString("┣━━━━━━━━━━╋━━━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━┫\n")

	for _, rec := range records {
		description := "Holding Steady"
		color := ansiBold
		if rec.Growth < 0 {
			description = "In Decline"
			color = ansiRed
		} else if rec.Growth > 0 {
			description = "Gaining Value"
			color = ansiGreen
		}

		fmt.Fprintf(&b,
			"┃%-10.10s┃%s%5.3f%s ingot / %s┃%s%5.3f%s ingot / %s┃%s%-16.3f%s┃%s%-14.14s%s┃\n",
			rec.Date.Format("2006-01-02"),
			ansiMagenta, rec.OpeningValue, ansiReset, cur.Code,
			ansiMagenta, rec.ClosingValue, ansiReset, cur.Code,
			color, rec.DeltaValue, ansiReset,
			color, description, ansiReset,
		)
	}

	b.WriteString("┗━━━━━━━━━━┻━━━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━┛```")
	return b.String()
}
