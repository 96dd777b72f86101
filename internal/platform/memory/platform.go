package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"modmail/internal/domain"
)

var (
	// ErrUnknownChannel is wrapped in the NotFound errors the platform returns.
	ErrUnknownChannel = errors.New("unknown channel")
	// ErrCannotMessageUser is returned by OpenDM for users with DMs disabled.
	ErrCannotMessageUser = errors.New("cannot send messages to this user")
	// ErrInjected is returned by operations configured to fail.
	ErrInjected = errors.New("injected failure")
)

type thread struct {
	domain.Thread
	messages []domain.Message
}

// Platform is an in-memory chat platform.
type Platform struct {
	mu sync.RWMutex

	self    domain.CorrespondentID
	guildID string
	nextID  int64
	clock   time.Time

	forums   map[domain.ChannelID]domain.Channel
	threads  map[domain.ThreadID]*thread
	dms      map[domain.CorrespondentID]domain.ChannelID
	dmByChan map[domain.ChannelID][]domain.Message
	pins     map[domain.ChannelID][]domain.MessageID

	dmDisabled map[domain.CorrespondentID]bool
	failPost   map[domain.ChannelID]bool
	failFetch  map[domain.ThreadID]bool
	failDelete map[domain.ThreadID]bool
	failList   bool
	failPin    bool

	createDelay time.Duration
	created     int
}

// New returns an empty platform whose bot user is self.
func New(self domain.CorrespondentID, guildID string) *Platform {
	return &Platform{
		self:       self,
		guildID:    guildID,
		nextID:     1000,
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		forums:     make(map[domain.ChannelID]domain.Channel),
		threads:    make(map[domain.ThreadID]*thread),
		dms:        make(map[domain.CorrespondentID]domain.ChannelID),
		dmByChan:   make(map[domain.ChannelID][]domain.Message),
		pins:       make(map[domain.ChannelID][]domain.MessageID),
		dmDisabled: make(map[domain.CorrespondentID]bool),
		failPost:   make(map[domain.ChannelID]bool),
		failFetch:  make(map[domain.ThreadID]bool),
		failDelete: make(map[domain.ThreadID]bool),
	}
}

// ---------- Setup ----------

// AddChannel registers a guild channel of the given kind.
func (p *Platform) AddChannel(id domain.ChannelID, kind domain.ChannelKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forums[id] = domain.Channel{ID: id, GuildID: p.guildID, Name: string(id), Kind: kind}
}

// AddThread creates a thread under parent whose history is texts, oldest
// first, all authored by the bot.
func (p *Platform) AddThread(parent domain.ChannelID, name string, texts ...string) domain.ThreadID {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := domain.ThreadID(p.newIDLocked())
	th := &thread{Thread: domain.Thread{
		ID:               id,
		ParentID:         parent,
		Name:             name,
		StarterMessageID: domain.MessageID(id),
	}}
	p.threads[id] = th
	for i, text := range texts {
		msgID := domain.MessageID(id)
		if i > 0 {
			msgID = domain.MessageID(p.newIDLocked())
		}
		th.messages = append(th.messages, p.messageLocked(msgID, id.Channel(), text, nil))
	}
	return id
}

// RemoveThread deletes a thread behind the relay's back.
func (p *Platform) RemoveThread(id domain.ThreadID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.threads, id)
}

// SetDMDisabled makes OpenDM fail for user.
func (p *Platform) SetDMDisabled(user domain.CorrespondentID, disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dmDisabled[user] = disabled
}

// SetFailPost makes PostMessage into channel fail.
func (p *Platform) SetFailPost(channel domain.ChannelID, fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failPost[channel] = fail
}

// SetFailFetch makes FetchEarliestMessages fail for thread.
func (p *Platform) SetFailFetch(id domain.ThreadID, fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failFetch[id] = fail
}

// SetFailDelete makes DeleteThread fail for thread.
func (p *Platform) SetFailDelete(id domain.ThreadID, fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failDelete[id] = fail
}

// SetFailList makes ListActiveThreads fail.
func (p *Platform) SetFailList(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failList = fail
}

// SetFailPin makes PinMessage fail.
func (p *Platform) SetFailPin(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failPin = fail
}

// SetCreateDelay stalls CreateThread, widening race windows in tests.
func (p *Platform) SetCreateDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createDelay = d
}

// ---------- Inspection ----------

// CreatedThreads returns how many threads CreateThread has opened.
func (p *Platform) CreatedThreads() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.created
}

// Thread returns a live thread by ID.
func (p *Platform) Thread(id domain.ThreadID) (domain.Thread, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	th, ok := p.threads[id]
	if !ok {
		return domain.Thread{}, false
	}
	return th.Thread, true
}

// Messages returns the history of a thread or DM channel, oldest first.
func (p *Platform) Messages(channel domain.ChannelID) []domain.Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if th, ok := p.threads[domain.ThreadID(channel)]; ok {
		return append([]domain.Message(nil), th.messages...)
	}
	return append([]domain.Message(nil), p.dmByChan[channel]...)
}

// DMChannel returns the DM channel opened for user, if any.
func (p *Platform) DMChannel(user domain.CorrespondentID) (domain.ChannelID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ch, ok := p.dms[user]
	return ch, ok
}

// Pins returns the pinned message IDs of channel.
func (p *Platform) Pins(channel domain.ChannelID) []domain.MessageID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.MessageID(nil), p.pins[channel]...)
}

// ---------- domain.Platform ----------

// SelfID returns the bot user.
func (p *Platform) SelfID(ctx context.Context) (domain.CorrespondentID, error) {
	return p.self, nil
}

// ResolveChannel looks up a forum, thread or DM channel.
func (p *Platform) ResolveChannel(ctx context.Context, id domain.ChannelID) (domain.Channel, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if ch, ok := p.forums[id]; ok {
		return ch, nil
	}
	if th, ok := p.threads[domain.ThreadID(id)]; ok {
		return domain.Channel{
			ID:       id,
			GuildID:  p.guildID,
			ParentID: th.ParentID,
			Name:     th.Name,
			Kind:     domain.ChannelThread,
		}, nil
	}
	if _, ok := p.dmByChan[id]; ok {
		return domain.Channel{ID: id, Kind: domain.ChannelDM}, nil
	}
	return domain.Channel{}, domain.NotFoundError("resolve channel "+string(id), ErrUnknownChannel)
}

// ListActiveThreads returns every live thread ordered by ID.
func (p *Platform) ListActiveThreads(ctx context.Context) ([]domain.Thread, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failList {
		return nil, fmt.Errorf("list active threads: %w", ErrInjected)
	}
	out := make([]domain.Thread, 0, len(p.threads))
	for _, th := range p.threads {
		out = append(out, th.Thread)
	}
	sort.Slice(out, func(i, j int) bool { return idLess(string(out[i].ID), string(out[j].ID)) })
	return out, nil
}

// FetchEarliestMessages returns up to limit of the oldest messages of a
// thread, newest first.
func (p *Platform) FetchEarliestMessages(
	ctx context.Context,
	id domain.ThreadID,
	limit int,
) ([]domain.Message, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.failFetch[id] {
		return nil, fmt.Errorf("fetch messages %s: %w", id, ErrInjected)
	}
	th, ok := p.threads[id]
	if !ok {
		return nil, domain.NotFoundError("fetch messages "+string(id), ErrUnknownChannel)
	}
	msgs := th.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = m
	}
	return out, nil
}

// CreateThread opens a forum post whose starter message is opening.
func (p *Platform) CreateThread(
	ctx context.Context,
	parent domain.ChannelID,
	title string,
	opening string,
) (domain.Thread, error) {
	p.mu.RLock()
	delay := p.createDelay
	p.mu.RUnlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Thread{}, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	forum, ok := p.forums[parent]
	if !ok || forum.Kind != domain.ChannelForum {
		return domain.Thread{}, domain.NotFoundError("create thread in "+string(parent), ErrUnknownChannel)
	}
	id := domain.ThreadID(p.newIDLocked())
	th := &thread{Thread: domain.Thread{
		ID:               id,
		ParentID:         parent,
		Name:             title,
		StarterMessageID: domain.MessageID(id),
	}}
	th.messages = append(th.messages, p.messageLocked(domain.MessageID(id), id.Channel(), opening, nil))
	p.threads[id] = th
	p.created++
	return th.Thread, nil
}

// PostMessage appends a bot message to a thread or DM channel.
func (p *Platform) PostMessage(
	ctx context.Context,
	channel domain.ChannelID,
	text string,
	attachments []domain.Attachment,
) (domain.MessageID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPost[channel] {
		return "", domain.DeliveryError("post message to "+string(channel), ErrInjected)
	}
	id := domain.MessageID(p.newIDLocked())
	msg := p.messageLocked(id, channel, text, attachments)
	if th, ok := p.threads[domain.ThreadID(channel)]; ok {
		th.messages = append(th.messages, msg)
		return id, nil
	}
	if _, ok := p.dmByChan[channel]; ok {
		p.dmByChan[channel] = append(p.dmByChan[channel], msg)
		return id, nil
	}
	return "", domain.NotFoundError("post message to "+string(channel), ErrUnknownChannel)
}

// PinMessage records a pin.
func (p *Platform) PinMessage(ctx context.Context, channel domain.ChannelID, message domain.MessageID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPin {
		return domain.DeliveryError("pin message", ErrInjected)
	}
	p.pins[channel] = append(p.pins[channel], message)
	return nil
}

// DeleteThread removes a thread and its history.
func (p *Platform) DeleteThread(ctx context.Context, id domain.ThreadID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDelete[id] {
		return domain.DeliveryError("delete thread "+string(id), ErrInjected)
	}
	if _, ok := p.threads[id]; !ok {
		return domain.NotFoundError("delete thread "+string(id), ErrUnknownChannel)
	}
	delete(p.threads, id)
	delete(p.pins, id.Channel())
	return nil
}

// OpenDM opens or reuses the DM channel with user.
func (p *Platform) OpenDM(ctx context.Context, user domain.CorrespondentID) (domain.ChannelID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dmDisabled[user] {
		return "", domain.DeliveryError("open dm with "+string(user), ErrCannotMessageUser)
	}
	if ch, ok := p.dms[user]; ok {
		return ch, nil
	}
	ch := domain.ChannelID("dm-" + string(user))
	p.dms[user] = ch
	p.dmByChan[ch] = nil
	return ch, nil
}

// ---------- helpers ----------

func (p *Platform) newIDLocked() string {
	p.nextID++
	return strconv.FormatInt(p.nextID, 10)
}

func (p *Platform) messageLocked(
	id domain.MessageID,
	channel domain.ChannelID,
	text string,
	attachments []domain.Attachment,
) domain.Message {
	p.clock = p.clock.Add(time.Second)
	return domain.Message{
		ID:          id,
		ChannelID:   channel,
		GuildID:     p.guildFor(channel),
		Author:      domain.Author{ID: p.self, Username: "modmail", Bot: true},
		Content:     text,
		Attachments: append([]domain.Attachment(nil), attachments...),
		Timestamp:   p.clock,
	}
}

func (p *Platform) guildFor(channel domain.ChannelID) string {
	if strings.HasPrefix(string(channel), "dm-") {
		return ""
	}
	return p.guildID
}

// idLess orders numeric snowflakes by value.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Compile-time assertion that Platform implements domain.Platform.
var _ domain.Platform = (*Platform)(nil)
