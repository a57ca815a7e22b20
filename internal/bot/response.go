package bot

import "github.com/bwmarrin/discordgo"

// Response describes what a handler wants sent back for an interaction.
// Content is the body of the interaction reply itself. When Broadcast is
// non-empty, the reply is forced ephemeral and Broadcast is posted to the
// channel as a regular message so everyone sees the outcome of a
// privately-confirmed action.
type Response struct {
	Content    string
	Broadcast  string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Ephemeral  bool
}

// Text builds a plain public reply.
func Text(content string) *Response {
	return &Response{Content: content}
}

// Ephemeral builds a reply visible only to the invoking user.
func Ephemeral(content string) *Response {
	return &Response{Content: content, Ephemeral: true}
}

// Interactive builds an ephemeral reply carrying message components,
// typically a confirm/cancel button row.
func Interactive(content string, components ...discordgo.MessageComponent) *Response {
	return &Response{Content: content, Components: components, Ephemeral: true}
}

// Announce builds an ephemeral acknowledgement for the invoking user plus a
// public channel message describing what happened.
func Announce(feedback, broadcast string) *Response {
	return &Response{Content: feedback, Broadcast: broadcast, Ephemeral: true}
}

// Embedded builds a public reply carrying a rich embed.
func Embedded(embed *discordgo.MessageEmbed) *Response {
	return &Response{Embed: embed}
}

// ButtonRow packs buttons into a single action row.
func ButtonRow(buttons ...discordgo.MessageComponent) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: buttons}
}
