package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Invocation bundles everything a handler needs about one interaction: the
// live session, the raw interaction, the subcommand path under the root
// command and the flattened leaf options.
type Invocation struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Path        []string
	Options     OptionMap
}

// User returns the invoking user regardless of whether the interaction came
// from a guild channel or a direct message.
func (inv *Invocation) User() *discordgo.User {
	if inv.Interaction.Member != nil {
		return inv.Interaction.Member.User
	}
	return inv.Interaction.User
}

// Subcommand returns the last element of the subcommand path, e.g. "add" for
// /currency reserve add.
func (inv *Invocation) Subcommand() string {
	if len(inv.Path) == 0 {
		return ""
	}
	return inv.Path[len(inv.Path)-1]
}

// CommandHandler serves one subcommand (or subcommand group) of the root
// slash command.
type CommandHandler interface {
	// Name is the subcommand name the handler is dispatched on.
	Name() string

	// Option returns the registration payload for this subcommand.
	Option() *discordgo.ApplicationCommandOption

	Handle(ctx context.Context, inv *Invocation) (*Response, error)
}

// ComponentHandler resumes a flow from a message component press. Handlers
// claim custom-id prefixes; the payload rides in the custom id itself.
type ComponentHandler interface {
	Prefixes() []string
	HandleComponent(ctx context.Context, inv *Invocation, id CustomID) (*Response, error)
}

// ModalHandler resumes a flow from a modal submission, routed by the
// modal custom-id prefix. No current command opens a modal, but the
// dispatch path treats them uniformly with components.
type ModalHandler interface {
	ModalPrefixes() []string
	HandleModal(ctx context.Context, inv *Invocation, id CustomID) (*Response, error)
}

// Registry routes interactions to their handlers. Command handlers are keyed
// by subcommand name, component and modal handlers by custom-id prefix.
// Registration happens once at startup; lookups afterwards are read-only,
// so no locking.
type Registry struct {
	log        *slog.Logger
	order      []string
	commands   map[string]CommandHandler
	components map[string]ComponentHandler
	modals     map[string]ModalHandler
}

// NewRegistry creates an empty handler registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:        log,
		commands:   make(map[string]CommandHandler),
		components: make(map[string]ComponentHandler),
		modals:     make(map[string]ModalHandler),
	}
}

// Register adds a command handler. Handlers that also implement
// ComponentHandler or ModalHandler get their custom-id prefixes routed
// automatically.
func (r *Registry) Register(h CommandHandler) {
	name := h.Name()
	if _, dup := r.commands[name]; dup {
		r.log.Warn("duplicate command handler registration ignored", "command", name)
		return
	}
	r.commands[name] = h
	r.order = append(r.order, name)

	if ch, ok := h.(ComponentHandler); ok {
		for _, prefix := range ch.Prefixes() {
			r.components[prefix] = ch
		}
	}
	if mh, ok := h.(ModalHandler); ok {
		for _, prefix := range mh.ModalPrefixes() {
			r.modals[prefix] = mh
		}
	}
}

// Command looks up the handler for a subcommand name.
func (r *Registry) Command(name string) (CommandHandler, bool) {
	h, ok := r.commands[name]
	return h, ok
}

// Component looks up the handler claiming a custom-id prefix.
func (r *Registry) Component(prefix string) (ComponentHandler, bool) {
	h, ok := r.components[prefix]
	return h, ok
}

// Modal looks up the handler claiming a modal custom-id prefix.
func (r *Registry) Modal(prefix string) (ModalHandler, bool) {
	h, ok := r.modals[prefix]
	return h, ok
}

// CommandOptions returns the subcommand registration payloads in the order
// the handlers were registered.
func (r *Registry) CommandOptions() []*discordgo.ApplicationCommandOption {
	opts := make([]*discordgo.ApplicationCommandOption, 0, len(r.order))
	for _, name := range r.order {
		opts = append(opts, r.commands[name].Option())
	}
	return opts
}
