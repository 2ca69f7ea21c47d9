package repository

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// promptCache is the client-side copy of the prompt store. The server is
// authoritative; the cache is replaced on refresh and patched after each
// successful mutation.
type promptCache struct {
	mu          sync.RWMutex
	prompts     []domain.Prompt
	liveID      string
	lastRefresh time.Time
}

func NewPromptCache() *promptCache {
	return &promptCache{}
}

func (c *promptCache) Replace(prompts []domain.Prompt, liveID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append([]domain.Prompt(nil), prompts...)
	c.liveID = liveID
	c.lastRefresh = time.Now()
}

func (c *promptCache) Append(p domain.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, p)
}

// Put replaces the entry with the same ID, keeping its position.
func (c *promptCache) Put(p domain.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = lo.Map(c.prompts, func(old domain.Prompt, _ int) domain.Prompt {
		if old.ID == p.ID {
			return p
		}
		return old
	})
}

func (c *promptCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = lo.Reject(c.prompts, func(p domain.Prompt, _ int) bool {
		return p.ID == id
	})
}

func (c *promptCache) SetLive(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.liveID = id
}

func (c *promptCache) GetByID(id string) (domain.Prompt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return lo.Find(c.prompts, func(p domain.Prompt) bool {
		return p.ID == id
	})
}

func (c *promptCache) All() []domain.Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]domain.Prompt(nil), c.prompts...)
}

func (c *promptCache) LiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.liveID
}

func (c *promptCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastRefresh
}
