package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/pkg/logger"
	"catalog-assistant/internal/repository/memory"
)

const chatQueueSize = 32

// Dispatcher fans updates out to one worker goroutine per chat. Events of
// the same chat are handled strictly in order; different chats run
// concurrently. The machine relies on this ordering for its session
// mutations.
//
// Workers live on the dispatcher's own context, not the context of whichever
// webhook request delivered the update.
type Dispatcher struct {
	bot      *Bot
	machine  *conversation.Machine
	sessions *memory.SessionRepository
	log      logger.ILogger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	queues map[int64]chan conversation.Incoming
	wg     sync.WaitGroup
}

func NewDispatcher(bot *Bot, machine *conversation.Machine, sessions *memory.SessionRepository, log logger.ILogger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		bot:      bot,
		machine:  machine,
		sessions: sessions,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		queues:   make(map[int64]chan conversation.Incoming),
	}
}

// Dispatch routes one raw update to its chat's worker, starting the worker
// on first contact. A full queue drops the update instead of blocking the
// caller.
func (d *Dispatcher) Dispatch(update tgbotapi.Update) {
	in, ok := d.bot.toIncoming(update)
	if !ok {
		return
	}

	d.mu.Lock()
	q, exists := d.queues[in.ChatID]
	if !exists {
		q = make(chan conversation.Incoming, chatQueueSize)
		d.queues[in.ChatID] = q
		d.wg.Add(1)
		go d.worker(in.ChatID, q)
	}
	d.mu.Unlock()

	select {
	case q <- in:
	default:
		d.log.Warn("telegram", "chat queue full, update dropped", map[string]interface{}{
			"chat_id": in.ChatID,
		})
	}
}

func (d *Dispatcher) worker(chatID int64, q chan conversation.Incoming) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case in := <-q:
			sess := d.sessions.LoadOrCreate(chatID)
			replies := d.machine.Handle(d.ctx, sess, in)
			d.sessions.Save(sess)
			d.bot.Send(chatID, replies)
		}
	}
}

// Run consumes the long-polling channel until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	updates := d.bot.Updates()
	for {
		select {
		case <-ctx.Done():
			d.Shutdown()
			return
		case update, open := <-updates:
			if !open {
				d.Shutdown()
				return
			}
			d.Dispatch(update)
		}
	}
}

// Shutdown stops the workers and waits for in-flight handling to finish.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}
