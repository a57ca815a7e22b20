package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOption(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	// Option values arrive as float64 from the JSON payload.
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

func TestFlattenOptions_SubCommand(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "currency",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "view",
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					strOption("code", "TKD"),
				},
			},
		},
	}

	path, opts := flattenOptions(data)
	assert.Equal(t, []string{"view"}, path)
	assert.Equal(t, "TKD", opts.String("code"))
}

func TestFlattenOptions_SubCommandGroup(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "currency",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "reserve",
				Type: discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "add",
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							intOption("amount", 500),
							strOption("code", "TKD"),
						},
					},
				},
			},
		},
	}

	path, opts := flattenOptions(data)
	require.Equal(t, []string{"reserve", "add"}, path)
	assert.Equal(t, int64(500), opts.Int("amount", 0))
	assert.Equal(t, "TKD", opts.String("code"))
}

func TestOptionMap_Defaults(t *testing.T) {
	opts := OptionMap{}

	assert.Equal(t, "", opts.String("missing"))
	assert.Equal(t, int64(10), opts.Int("missing", 10))
}
