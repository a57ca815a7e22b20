package bot

import "github.com/bwmarrin/discordgo"

// OptionMap holds the leaf options of a slash command invocation keyed by
// option name, after the subcommand path has been walked.
type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// String returns the named string option, or empty when absent.
func (m OptionMap) String(name string) string {
	opt, ok := m[name]
	if !ok {
		return ""
	}
	return opt.StringValue()
}

// Int returns the named integer option, or fallback when absent.
func (m OptionMap) Int(name string, fallback int64) int64 {
	opt, ok := m[name]
	if !ok {
		return fallback
	}
	return opt.IntValue()
}

// flattenOptions walks the subcommand-group/subcommand chain of an
// application command invocation, returning the path of subcommand names and
// the leaf options keyed by name.
func flattenOptions(data discordgo.ApplicationCommandInteractionData) ([]string, OptionMap) {
	var path []string
	opts := data.Options

	for len(opts) == 1 {
		t := opts[0].Type
		if t != discordgo.ApplicationCommandOptionSubCommand && t != discordgo.ApplicationCommandOptionSubCommandGroup {
			break
		}
		path = append(path, opts[0].Name)
		opts = opts[0].Options
	}

	m := make(OptionMap, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return path, m
}
