package notify

import (
	"sync"
	"time"
)

// Kind - вид уведомления
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL - через сколько уведомление скрывается
const DefaultTTL = 3 * time.Second

// Notification - кратковременное сообщение для оператора
type Notification struct {
	ID        uint64    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Center - канал уведомлений. Передается явно тем компонентам,
// которым нужно сообщать оператору о результатах действий.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	seq     uint64
	items   []Notification
	subs    map[uint64]chan Notification
	nextSub uint64
}

// NewCenter создает канал уведомлений. ttl <= 0 заменяется на DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:  ttl,
		now:  time.Now,
		subs: make(map[uint64]chan Notification),
	}
}

func (c *Center) Info(msg string)    { c.Publish(KindInfo, msg) }
func (c *Center) Success(msg string) { c.Publish(KindSuccess, msg) }
func (c *Center) Error(msg string)   { c.Publish(KindError, msg) }

// Publish добавляет уведомление и рассылает его подписчикам.
// Медленный подписчик пропускает сообщения, а не блокирует отправителя.
func (c *Center) Publish(kind Kind, msg string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.seq++
	n := Notification{
		ID:        c.seq,
		Kind:      kind,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.items = append(c.pruneLocked(now), n)

	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// Active возвращает еще не истекшие уведомления в порядке публикации
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = c.pruneLocked(c.now())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Subscribe возвращает канал новых уведомлений и функцию отписки
func (c *Center) Subscribe() (<-chan Notification, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Notification, 16)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Center) pruneLocked(now time.Time) []Notification {
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	return kept
}
