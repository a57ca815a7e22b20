package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/Starkiller645/economist/internal/config"
)

// Message is a control message delivered to the worker's mailbox.
type Message int

// Halt requests a graceful stop of the worker loop.
const Halt Message = iota

// mailboxDepth bounds the worker's control channel.
const mailboxDepth = 8

// Worker is the scheduling harness for the valuation sampler: a fixed
// interval polling loop with a halt mailbox. Iterations never overlap; any
// error inside one tick is contained to that tick.
type Worker struct {
	sampler      *Sampler
	materializer *Materializer
	interval     time.Duration
	mailbox      chan Message
	clock        func() time.Time
	logger       *slog.Logger
}

// NewWorker creates the valuation worker
func NewWorker(cfg *config.MarketConfig, sampler *Sampler, materializer *Materializer, logger *slog.Logger) *Worker {
	return &Worker{
		sampler:      sampler,
		materializer: materializer,
		interval:     cfg.PollInterval,
		mailbox:      make(chan Message, mailboxDepth),
		clock:        time.Now,
		logger:       logger,
	}
}

// Halt requests a graceful stop. Safe to call from any goroutine; the send
// never blocks because the mailbox is bounded and drained by the loop.
func (w *Worker) Halt() {
	select {
	case w.mailbox <- Halt:
	default:
	}
}

// Run polls until a halt message arrives or the context is canceled. The
// mailbox is checked non-blockingly before every tick's boundary evaluation,
// so a halt observed during the sleep stops the loop with no further side
// effects.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Starting records worker",
		"poll_interval", w.interval.String(),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-w.mailbox:
			if msg == Halt {
				w.logger.Warn("Halting records worker")
				return
			}
		case <-ctx.Done():
			w.logger.Info("Records worker stopping due to context cancellation")
			return
		case <-ticker.C:
			if w.halted() {
				w.logger.Warn("Halting records worker")
				return
			}
			w.tick(ctx)
		}
	}
}

// tick runs one full iteration: boundary evaluation, and materialization
// (with export fan-out drained) when the closing boundary was crossed.
func (w *Worker) tick(ctx context.Context) {
	opening, closing, crossed := w.sampler.Tick(ctx, w.clock())
	if crossed {
		w.materializer.Materialize(ctx, opening, closing)
	}
}

func (w *Worker) halted() bool {
	select {
	case msg := <-w.mailbox:
		return msg == Halt
	default:
		return false
	}
}
