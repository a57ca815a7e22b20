package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/domain/currency"
)

// defaultListLimit bounds a listing when no number option is given.
const defaultListLimit = 10

// ANSI escapes rendered inside Discord ```ansi code blocks.
const (
	ansiReset   = "[0m"
	ansiBold    = "[1m"
	ansiRed     = "[1;31m"
	ansiGreen   = "[1;32m"
	ansiYellow  = "[1;33m"
	ansiBlue    = "[1;34m"
	ansiMagenta = "[1;35m"
	ansiCyan    = "[36m"
)

// sortKeys maps the slash-option choice values onto repository sort keys.
var sortKeys = map[string]currency.SortKey{
	"name":        currency.SortByName,
	"code":        currency.SortByCode,
	"state":       currency.SortByState,
	"reserves":    currency.SortByReserves,
	"circulation": currency.SortByCirculation,
	"value":       currency.SortByValue,
}

// List serves /currency list: a sortable monospace table of all currencies.
type List struct {
	currencies currency.Repository
	log        *slog.Logger
}

func NewList(currencies currency.Repository, log *slog.Logger) *List {
	return &List{currencies: currencies, log: log}
}

func (h *List) Name() string { return "list" }

func (h *List) Option() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "list",
		Description: "List currencies on the market",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "number",
				Description: "Maximum number of currencies to list",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "sort",
				Description: "Field to sort the listing by",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Name", Value: "name"},
					{Name: "Nation/State", Value: "state"},
					{Name: "Currency Code", Value: "code"},
					{Name: "Gold Reserves", Value: "reserves"},
					{Name: "Circulation", Value: "circulation"},
					{Name: "Value", Value: "value"},
				},
			},
		},
	}
}

func (h *List) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	limit := int(inv.Options.Int("number", defaultListLimit))
	if limit <= 0 {
		limit = defaultListLimit
	}

	sortChoice := inv.Options.String("sort")
	sort, ok := sortKeys[sortChoice]
	if !ok {
		sort = currency.SortByValue
	}

	currencies, err := h.currencies.List(ctx, limit, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	if len(currencies) == 0 {
		return bot.Ephemeral("No currencies exist yet. Start one with `/currency create`!"), nil
	}

	return bot.Ephemeral(listTable(currencies, sort)), nil
}

// listTable renders the currency listing as a box-drawn ansi table, with the
// active sort column's header highlighted in green.
func listTable(currencies []currency.Currency, sort currency.SortKey) string {
	headers := map[currency.SortKey]string{
		currency.SortByName:        "Code and Currency Name",
		currency.SortByState:       "Nation/State",
		currency.SortByReserves:    "Gold Reserves",
		currency.SortByCirculation: "Circulation",
		currency.SortByValue:       "Value",
	}
	// The code sorts share a header cell with the name column.
	header := func(key currency.SortKey, width int) string {
		text, ok := headers[key]
		if !ok {
			text = headers[currency.SortByName]
		}
		cell := fmt.Sprintf("%-*.*s", width, width, text)
		if key == sort || (key == currency.SortByName && sort == currency.SortByCode) {
			return ansiGreen + cell + ansiReset
		}
		return cell
	}

	var b strings.Builder
	b.WriteString("**Currency List**\n```ansi\n")
	b.WriteString("┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━┳━━━━━━━━━━━━━━━┓\n")
	fmt.Fprintf(&b, "┃%s┃%s┃%s┃%s┃%s┃\n",
		header(currency.SortByName, 36),
		header(currency.SortByState, 30),
		header(currency.SortByReserves, 15),
		header(currency.SortByCirculation, 15),
		header(currency.SortByValue, 15),
	)
	b.WriteString("┣━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━╋━━━━━━━━━━━━━━━┫\n")

	for _, cur := range currencies {
		fmt.Fprintf(&b,
			"┃[%s%-3.3s%s] %s%-30.30s%s┃%-30.30s┃%s%8d%s ingots┃%s%7d%s %-3.3s    ┃%s%7.3f%s ingots ┃\n",
			ansiCyan, cur.Code, ansiReset,
			ansiBold, cur.Name, ansiReset,
			cur.State,
			ansiYellow, cur.Reserves, ansiReset,
			ansiBlue, cur.Circulation, ansiReset, cur.Code,
			ansiMagenta, cur.Value, ansiReset,
		)
	}

	b.WriteString("┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━┻━━━━━━━━━━━━━━━┛```")
	return b.String()
}
