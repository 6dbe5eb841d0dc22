package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sohbetapp/sohbet-server/internal/store"
)

// Options tune hub behavior.
type Options struct {
	// HistoryLimit bounds the replay batch delivered on join.
	HistoryLimit int
	// MessagesPerMinute caps posts per identity. Zero disables the limit.
	MessagesPerMinute int
}

// DefaultHistoryLimit is used when Options.HistoryLimit is zero.
const DefaultHistoryLimit = 50

const storeQueueSize = 256

type clientCommand struct {
	client *Client
	cmd    Command
}

type storeJobKind int

const (
	jobRecent storeJobKind = iota
	jobAppend
)

// storeJob is a persistence request handed to the store worker. The worker
// executes jobs strictly in submission order, which is what keeps sequence
// ids, replay batches, and live broadcasts mutually consistent.
type storeJob struct {
	kind   storeJobKind
	client *Client
	author string
	text   string
	at     time.Time
}

type storeResult struct {
	job      storeJob
	messages []Message
	message  Message
	err      error
}

// Hub drives the session lifecycle for every connection: join, message
// submission, logout, and disconnect. All presence mutations and event
// deliveries happen on the Run loop goroutine; all store I/O happens on a
// single worker goroutine so persistence latency never stalls presence
// bookkeeping.
type Hub struct {
	registry *Registry
	messages store.MessageStore
	log      *zerolog.Logger
	opts     Options

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	jobs       chan storeJob
	results    chan storeResult
}

// NewHub creates a hub backed by the given message store.
func NewHub(messages store.MessageStore, logger *zerolog.Logger, opts Options) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &Hub{
		registry:   NewRegistry(),
		messages:   messages,
		log:        logger,
		opts:       opts,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		jobs:       make(chan storeJob, storeQueueSize),
		results:    make(chan storeResult, storeQueueSize),
	}
}

// Registry exposes the presence registry for read-side consumers.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// RegisterClient announces a new transport connection to the hub. The
// client is not present in the room until it joins.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient reports that the client's transport session ended, by
// any cause. Safe to call for clients that never joined.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Submit hands a client command to the hub loop.
func (h *Hub) Submit(c *Client, cmd Command) {
	h.commands <- clientCommand{client: c, cmd: cmd}
}

// Run processes registrations, commands, and store completions until the
// context is canceled. It must be running before clients are registered.
func (h *Hub) Run(ctx context.Context) {
	go h.storeLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.log.Debug().Str("client_id", c.ID).Msg("client connected")
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.commands:
			h.handleCommand(cc.client, cc.cmd)
		case res := <-h.results:
			h.handleStoreResult(res)
		}
	}
}

// storeLoop executes persistence jobs one at a time, in submission order.
func (h *Hub) storeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-h.jobs:
			res := storeResult{job: job}
			switch job.kind {
			case jobRecent:
				res.messages, res.err = h.fetchRecent(ctx)
			case jobAppend:
				res.message, res.err = h.appendMessage(ctx, job)
			}
			select {
			case h.results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) fetchRecent(ctx context.Context) ([]Message, error) {
	stored, err := h.messages.Recent(ctx, h.opts.HistoryLimit)
	if err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, Message{ID: m.ID, From: m.Author, Text: m.Text, CreatedAt: m.CreatedAt})
	}
	return msgs, nil
}

func (h *Hub) appendMessage(ctx context.Context, job storeJob) (Message, error) {
	id, err := h.messages.Append(ctx, job.author, job.text, job.at)
	if err != nil {
		return Message{}, err
	}
	return Message{ID: id, From: job.author, Text: job.text, CreatedAt: job.at}, nil
}

func (h *Hub) handleCommand(c *Client, cmd Command) {
	if c.gone {
		return
	}
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Name)
	case CommandSendMessage:
		h.handleSend(c, cmd.Text)
	case CommandLogout:
		h.handleLogout(c, cmd.Name)
	}
}

func (h *Hub) handleJoin(c *Client, requested string) {
	name := strings.TrimSpace(requested)
	if name == "" {
		name = "guest-" + uuid.NewString()[:8]
	}

	if evicted := h.registry.Register(c, name); evicted != nil {
		h.log.Info().Str("user", name).Str("client_id", evicted.ID).Msg("presence rebound to new connection")
		h.deliver(evicted, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeSessionReplaced, "identity claimed by a newer connection"),
		})
	}

	h.log.Info().Str("client_id", c.ID).Str("user", name).Msg("user joined")

	// History replay and the join notice are emitted when the fetch
	// completes. Until then the client receives no live messages: anything
	// persisted before the fetch runs is part of the replay batch, so
	// delivering it live as well would duplicate it across the replay
	// boundary.
	c.replaying = true
	h.enqueue(c, storeJob{kind: jobRecent, client: c})
}

func (h *Hub) handleSend(c *Client, text string) {
	name, ok := h.registry.Resolve(c)
	if !ok {
		// Not joined: drop silently per the room contract.
		h.log.Debug().Str("client_id", c.ID).Msg("message from unjoined client dropped")
		return
	}

	if !h.allowSend(c) {
		h.deliver(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeRateLimited, "too many messages, slow down"),
		})
		return
	}

	h.enqueue(c, storeJob{
		kind:   jobAppend,
		client: c,
		author: name,
		text:   text,
		at:     time.Now(),
	})
}

func (h *Hub) handleLogout(c *Client, name string) {
	if name != "" {
		if _, ok := h.registry.UnregisterName(name); ok {
			h.log.Info().Str("user", name).Msg("user logged out")
			h.broadcastSystem(name + " left the chat")
		}
		return
	}
	if held, ok := h.registry.UnregisterClient(c); ok {
		h.log.Info().Str("user", held).Msg("user logged out")
		h.broadcastSystem(held + " left the chat")
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	if c.gone {
		return
	}
	c.gone = true

	if name, ok := h.registry.UnregisterClient(c); ok {
		h.log.Info().Str("client_id", c.ID).Str("user", name).Msg("user disconnected")
		h.broadcastSystem(name + " left the chat")
		return
	}
	h.log.Debug().Str("client_id", c.ID).Msg("client disconnected without joining")
}

func (h *Hub) handleStoreResult(res storeResult) {
	switch res.job.kind {
	case jobRecent:
		h.finishJoin(res)
	case jobAppend:
		h.finishSend(res)
	}
}

func (h *Hub) finishJoin(res storeResult) {
	c := res.job.client
	name, present := h.registry.Resolve(c)
	if c.gone || !present {
		// Disconnected before the replay completed; nothing to announce.
		return
	}

	c.replaying = false
	if res.err != nil {
		h.log.Error().Err(res.err).Str("client_id", c.ID).Msg("history fetch failed")
		h.deliver(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeStorageFailure, "history unavailable"),
		})
	} else {
		h.deliver(c, &Event{Kind: EventHistory, Messages: res.messages})
	}

	h.broadcastSystem(name + " joined the chat")
}

func (h *Hub) finishSend(res storeResult) {
	if res.err != nil {
		h.log.Error().Err(res.err).Str("user", res.job.author).Msg("message persist failed")
		h.deliver(res.job.client, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeStorageFailure, "message not saved"),
		})
		return
	}
	// Broadcast even if the author disconnected mid-flight: authorship was
	// resolved before the persist started and the message is durable.
	h.broadcast(&Event{Kind: EventMessage, Message: res.message})
}

// allowSend applies the per-identity submission rate policy using a fixed
// one-minute window.
func (h *Hub) allowSend(c *Client) bool {
	limit := h.opts.MessagesPerMinute
	if limit <= 0 {
		return true
	}
	now := time.Now()
	if now.Sub(c.windowStart) >= time.Minute {
		c.windowStart = now
		c.windowCount = 0
	}
	c.windowCount++
	return c.windowCount <= limit
}

func (h *Hub) enqueue(c *Client, job storeJob) {
	select {
	case h.jobs <- job:
	default:
		h.log.Error().Str("client_id", c.ID).Msg("store queue full, job dropped")
		h.deliver(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeStorageFailure, "server busy"),
		})
	}
}

func (h *Hub) broadcastSystem(text string) {
	h.broadcast(&Event{Kind: EventSystem, Text: text, At: time.Now()})
}

// broadcast delivers an event to every client registered at call time.
// Clients still waiting on their replay batch skip live messages; those
// messages are already part of the batch in flight.
func (h *Hub) broadcast(ev *Event) {
	for _, c := range h.registry.Snapshot() {
		if ev.Kind == EventMessage && c.replaying {
			continue
		}
		h.deliver(c, ev)
	}
}

func (h *Hub) deliver(c *Client, ev *Event) {
	if c.gone {
		return
	}
	select {
	case c.Events <- ev:
	default:
		// Drop for slow consumers; the transport write loop is behind.
		h.log.Warn().Str("client_id", c.ID).Msg("event dropped, client buffer full")
	}
}
