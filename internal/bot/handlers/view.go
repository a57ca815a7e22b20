package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/config"
	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/record"
)

// View serves /currency view: an embed with the currency's live figures and,
// when a daily record exists, its latest published valuation chart.
type View struct {
	currencies   currency.Repository
	records      record.Repository
	chartBaseURL string
	log          *slog.Logger
}

func NewView(currencies currency.Repository, records record.Repository, cfg *config.ChartConfig, log *slog.Logger) *View {
	return &View{
		currencies:   currencies,
		records:      records,
		chartBaseURL: cfg.BaseURL,
		log:          log,
	}
}

func (h *View) Name() string { return "view" }

func (h *View) Option() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        "view",
		Description: "View detailed information about a currency",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Three-letter currency code to view",
				MinLength:   &codeLength,
				MaxLength:   codeLength,
				Required:    true,
			},
		},
	}
}

func (h *View) Handle(ctx context.Context, inv *bot.Invocation) (*bot.Response, error) {
	code := inv.Options.String("code")

	cur, err := h.currencies.GetByCode(ctx, code)
	if err != nil {
		var notFound currency.ErrCurrencyNotFound
		if errors.As(err, &notFound) {
			return bot.Ephemeral(fmt.Sprintf("Could not find the currency code `%s`.", code)), nil
		}
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}

	records, err := h.records.ListRecent(ctx, cur.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to look up records: %w", err)
	}

	description := fmt.Sprintf(
		"> Nation/State: _%s_\n> Reserves: `%d ingots`\n> Circulation: `%d %s`\n> Value: `%.3f ingot / %s`",
		cur.State, cur.Reserves, cur.Circulation, cur.Code, cur.Value, cur.Code,
	)

	embed := &discordgo.MessageEmbed{Title: cur.Name}

	if len(records) > 0 {
		url := fmt.Sprintf("%s/%05d/%05d", h.chartBaseURL, cur.ID, records[0].ID)
		h.log.Debug("attaching valuation chart", "code", cur.Code, "url", url)
		embed.Image = &discordgo.MessageEmbedImage{URL: url}
	} else {
		description += "\n```ansi\n" + ansiYellow + "Warning:" + ansiReset + " No past records available for this currency```"
	}

	embed.Description = description
	return bot.Embedded(embed), nil
}
