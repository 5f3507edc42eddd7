package runtime

import (
	"context"
	"log/slog"
	"time"

	"support-chat/contract"
	"support-chat/domain"
	"support-chat/domain/event"
	"support-chat/errors"
	"support-chat/observability"
	"support-chat/runtime/workers"

	"github.com/google/uuid"
)

// connection is the per-connection state owned by the router: identity,
// session lifecycle and the sink feeding the connection's write pump.
type connection struct {
	identity domain.Identity
	state    domain.SessionState
	sink     contract.EventSink
}

// Router is the presence-aware session router. It classifies each
// connection by role, drives session lifecycle transitions and their
// membership side effects, and computes the destination groups of every
// inbound chat message.
//
// All state mutation happens on the single goroutine running Run: public
// methods enqueue tasks and the loop executes them in arrival order, so
// handlers run to completion with respect to each other and a single
// connection's sends are never reordered. The only cross-goroutine
// hand-offs are the persistence queues and the history read.
type Router struct {
	log        *slog.Logger
	tasks      chan func()
	membership *Membership
	presence   *PresenceTracker
	backfill   Backfill
	conns      map[domain.ConnID]*connection
	saves      chan<- domain.ChatMessage
	tickets    chan<- workers.TicketOp
	stats      *observability.Stats
	ctx        context.Context
}

func NewRouter(log *slog.Logger, membership *Membership, backfill Backfill,
	saves chan<- domain.ChatMessage, tickets chan<- workers.TicketOp,
	stats *observability.Stats, bufferSize int) *Router {
	r := &Router{
		log:        log,
		tasks:      make(chan func(), bufferSize),
		membership: membership,
		backfill:   backfill,
		conns:      make(map[domain.ConnID]*connection),
		saves:      saves,
		tickets:    tickets,
		stats:      stats,
	}
	// The presence listener is installed here, before any agent can take
	// a snapshot, so no membership delta is lost in between.
	r.presence = NewPresenceTracker(log, membership, r.resolve, r.broadcastToAgents)
	return r
}

// Run is the dispatcher loop. Tasks enqueued by the public methods are
// executed here, one at a time.
func (r *Router) Run(ctx context.Context) error {
	r.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("context done, stopping router")
			return nil
		case task := <-r.tasks:
			task()
		}
	}
}

// enqueue blocks when the queue is full rather than dropping: dropping a
// task would break per-connection ordering.
func (r *Router) enqueue(task func()) {
	r.tasks <- task
}

// Register attaches a freshly authenticated connection. The identity is
// re-derived on every connection; nothing survives a reconnect.
func (r *Router) Register(identity domain.Identity, sink contract.EventSink) {
	r.enqueue(func() { r.handleRegister(identity, sink) })
}

// OpenSession drives the Unopened/Closed -> Open transition.
func (r *Router) OpenSession(connID domain.ConnID, displayName string) {
	r.enqueue(func() { r.handleOpen(connID, displayName) })
}

// CloseSession drives the Open -> Closed transition.
func (r *Router) CloseSession(connID domain.ConnID) {
	r.enqueue(func() { r.handleClose(connID) })
}

// Disconnect is the implicit terminal transition, triggered by the
// transport. Safe to invoke more than once for the same connection.
func (r *Router) Disconnect(connID domain.ConnID) {
	r.enqueue(func() { r.handleDisconnect(connID) })
}

// Send relays one inbound chat message.
func (r *Router) Send(connID domain.ConnID, body, receiverID string) {
	r.enqueue(func() { r.handleSend(connID, body, receiverID) })
}

func (r *Router) handleRegister(identity domain.Identity, sink contract.EventSink) {
	r.conns[identity.ConnID] = &connection{
		identity: identity,
		state:    domain.SessionUnopened,
		sink:     sink,
	}
	r.stats.ConnectionOpened()
	r.log.Info("connection registered",
		"conn_id", identity.ConnID,
		"participant_id", identity.ParticipantID,
		"role", identity.Role)
}

func (r *Router) handleOpen(connID domain.ConnID, displayName string) {
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	if conn.state == domain.SessionOpen {
		// Duplicate client request, tolerated.
		return
	}
	conn.identity.DisplayName = displayName
	conn.state = domain.SessionOpen

	r.deliver(conn, event.SessionOpened{
		ParticipantID: conn.identity.ParticipantID,
		DisplayName:   displayName,
		Role:          conn.identity.Role,
	})

	if conn.identity.IsAgent() {
		r.membership.Join(connID, domain.GroupAgents)
		// Snapshot for this agent only. Taken on the loop, after the
		// presence subscription exists, so snapshot plus subsequent
		// deltas converge to the true active pool.
		r.deliver(conn, event.PresenceSnapshot{Entries: r.presence.Snapshot()})
		return
	}

	participantID := conn.identity.ParticipantID
	r.membership.Join(connID, domain.ChannelGroup(participantID))
	r.membership.Join(connID, domain.GroupActiveRequesters)
	r.ticketOp(workers.TicketOp{RequesterID: participantID})

	// History is a pure read; run it off the loop and deliver straight
	// to the opening connection. If the requester is gone by then the
	// sink drops the event.
	sink := conn.sink
	ctx := r.ctx
	go func() {
		history := r.backfill.Page(participantID)
		r.stats.BackfillServed()
		_ = sink.Consume(ctx, history)
	}()
}

func (r *Router) handleClose(connID domain.ConnID) {
	conn, ok := r.conns[connID]
	if !ok || conn.state != domain.SessionOpen {
		// Close without open is a no-op, not an error.
		return
	}
	conn.state = domain.SessionClosed
	if conn.identity.IsAgent() {
		// Agent pool membership persists until disconnect.
		return
	}
	participantID := conn.identity.ParticipantID
	// The channel group is retained so a reconnecting requester still
	// receives replies.
	r.membership.Leave(connID, domain.GroupActiveRequesters)
	if !r.presence.IsActive(participantID) {
		r.ticketOp(workers.TicketOp{RequesterID: participantID, Close: true})
	}
}

func (r *Router) handleDisconnect(connID domain.ConnID) {
	conn, ok := r.conns[connID]
	if !ok {
		// Already cleaned up by a racing duplicate disconnect.
		return
	}
	wasOpen := conn.state == domain.SessionOpen
	conn.state = domain.SessionClosed
	delete(r.conns, connID)
	r.membership.LeaveAll(connID)
	r.stats.ConnectionClosed()

	if wasOpen && !conn.identity.IsAgent() && !r.presence.IsActive(conn.identity.ParticipantID) {
		r.ticketOp(workers.TicketOp{RequesterID: conn.identity.ParticipantID, Close: true})
	}
	r.log.Info("connection cleaned up", "conn_id", connID)
}

func (r *Router) handleSend(connID domain.ConnID, body, receiverID string) {
	conn, ok := r.conns[connID]
	if !ok {
		return
	}
	if body == "" {
		r.deliver(conn, event.ErrorNotice{Code: "validation", Message: errors.ErrEmptyBody.Error()})
		return
	}

	channelID := conn.identity.ParticipantID
	storedReceiver := ""
	if conn.identity.IsAgent() {
		if receiverID == "" {
			r.deliver(conn, event.ErrorNotice{Code: "validation", Message: errors.ErrMissingReceiver.Error()})
			return
		}
		channelID = receiverID
		storedReceiver = receiverID
	}

	message := domain.ChatMessage{
		ID:         uuid.New(),
		SenderID:   conn.identity.ParticipantID,
		ReceiverID: storedReceiver,
		Body:       body,
		ChannelID:  channelID,
		SentAt:     time.Now().UTC(),
	}

	// Fire-and-forget persistence: delivery never waits on the store.
	select {
	case r.saves <- message:
	default:
		r.stats.SaveFailed()
		r.log.Warn("persistence queue full, message not saved", "message_id", message.ID)
	}

	delivered := event.ChatDelivered{Message: message}
	r.emitToGroup(domain.ChannelGroup(channelID), delivered)
	r.emitToGroup(domain.GroupAgents, delivered)
	r.stats.MessageRelayed()
}

// resolve looks a connection's identity up for the presence tracker.
// Runs on the loop like every other handler.
func (r *Router) resolve(connID domain.ConnID) (domain.Identity, bool) {
	conn, ok := r.conns[connID]
	if !ok {
		return domain.Identity{}, false
	}
	return conn.identity, true
}

func (r *Router) broadcastToAgents(e event.Event) {
	r.emitToGroup(domain.GroupAgents, e)
}

func (r *Router) emitToGroup(group domain.Group, e event.Event) {
	for _, connID := range r.membership.List(group) {
		if conn, ok := r.conns[connID]; ok {
			r.deliver(conn, e)
		}
	}
}

func (r *Router) deliver(conn *connection, e event.Event) {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := conn.sink.Consume(ctx, e); err != nil {
		r.log.Debug("event not delivered",
			"conn_id", conn.identity.ConnID,
			"event", e.EventName(),
			"error", err)
	}
}

func (r *Router) ticketOp(op workers.TicketOp) {
	select {
	case r.tickets <- op:
	default:
		r.log.Warn("ticket queue full, session record dropped", "requester_id", op.RequesterID)
	}
}
