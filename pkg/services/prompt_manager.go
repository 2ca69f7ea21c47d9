package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/dskvich/doc-reviewer/pkg/domain"
	"github.com/dskvich/doc-reviewer/pkg/logger"
)

const (
	retrievePromptsErrorMessage = "Error retrieving prompts"
	createPromptErrorMessage    = "Error creating prompt"
	updatePromptErrorMessage    = "Error updating prompt"
	selectPromptErrorMessage    = "Error selecting live prompt"
	deletePromptErrorMessage    = "Error deleting prompt"
)

type PromptBackend interface {
	ListPrompts(ctx context.Context) (*domain.PromptList, error)
	CreatePrompt(ctx context.Context, p domain.Prompt) (*domain.Prompt, error)
	UpdatePrompt(ctx context.Context, p domain.Prompt) (*domain.Prompt, error)
	SelectLivePrompt(ctx context.Context, id string) error
	DeletePrompt(ctx context.Context, id string) error
}

type PromptCache interface {
	Replace(prompts []domain.Prompt, liveID string)
	Append(p domain.Prompt)
	Put(p domain.Prompt)
	Remove(id string)
	SetLive(id string)
	GetByID(id string) (domain.Prompt, bool)
	All() []domain.Prompt
	LiveID() string
	LastRefresh() time.Time
}

type promptManager struct {
	backend  PromptBackend
	cache    PromptCache
	notifier Notifier
	newID    func() string
}

func NewPromptManager(backend PromptBackend, cache PromptCache, notifier Notifier) *promptManager {
	return &promptManager{
		backend:  backend,
		cache:    cache,
		notifier: notifier,
		newID:    func() string { return uuid.NewString() },
	}
}

func (m *promptManager) Refresh(ctx context.Context) error {
	list, err := m.backend.ListPrompts(ctx)
	if err != nil {
		return m.fail(ctx, retrievePromptsErrorMessage, err)
	}

	m.cache.Replace(list.Prompts, lo.FromPtr(list.LivePromptID))
	slog.InfoContext(ctx, "prompts refreshed", "count", len(list.Prompts), "live_prompt_id", lo.FromPtr(list.LivePromptID))
	return nil
}

// Create stores a new prompt under a client-generated UUID.
func (m *promptManager) Create(ctx context.Context, name, systemPrompt, userPrompt string) (*domain.Prompt, error) {
	p := domain.Prompt{
		ID:           m.newID(),
		Name:         name,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	}

	created, err := m.backend.CreatePrompt(ctx, p)
	if err != nil {
		return nil, m.fail(ctx, createPromptErrorMessage, err)
	}

	m.cache.Append(*created)
	slog.InfoContext(ctx, "prompt created", "id", created.ID, "name", created.Name)
	return created, nil
}

// Update rewrites both prompt texts of a cached prompt; name and ID are kept.
func (m *promptManager) Update(ctx context.Context, id, systemPrompt, userPrompt string) (*domain.Prompt, error) {
	current, ok := m.cache.GetByID(id)
	if !ok {
		return nil, m.fail(ctx, updatePromptErrorMessage, fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound))
	}

	current.SystemPrompt = systemPrompt
	current.UserPrompt = userPrompt

	updated, err := m.backend.UpdatePrompt(ctx, current)
	if err != nil {
		return nil, m.fail(ctx, updatePromptErrorMessage, err)
	}

	m.cache.Put(*updated)
	slog.InfoContext(ctx, "prompt updated", "id", updated.ID)
	return updated, nil
}

func (m *promptManager) Select(ctx context.Context, id string) error {
	if err := m.backend.SelectLivePrompt(ctx, id); err != nil {
		return m.fail(ctx, selectPromptErrorMessage, err)
	}

	m.cache.SetLive(id)
	slog.InfoContext(ctx, "live prompt selected", "id", id)
	return nil
}

func (m *promptManager) Delete(ctx context.Context, id string) error {
	if err := m.backend.DeletePrompt(ctx, id); err != nil {
		return m.fail(ctx, deletePromptErrorMessage, err)
	}

	m.cache.Remove(id)
	slog.InfoContext(ctx, "prompt deleted", "id", id)
	return nil
}

func (m *promptManager) Prompts() []domain.Prompt {
	return m.cache.All()
}

// LastRefresh is zero until the first successful Refresh.
func (m *promptManager) LastRefresh() time.Time {
	return m.cache.LastRefresh()
}

// Live returns the designated prompt when it is present in the cache.
func (m *promptManager) Live() (domain.Prompt, bool) {
	liveID := m.cache.LiveID()
	if liveID == "" {
		return domain.Prompt{}, false
	}
	return m.cache.GetByID(liveID)
}

// Alternates returns every cached prompt except the live one.
func (m *promptManager) Alternates() []domain.Prompt {
	liveID := m.cache.LiveID()
	return lo.Reject(m.cache.All(), func(p domain.Prompt, _ int) bool {
		return p.ID == liveID
	})
}

type promptFile struct {
	SystemPrompt *string `yaml:"system_prompt"`
	UserPrompt   *string `yaml:"user_prompt"`
}

// ImportYAML creates a prompt from a YAML document carrying system_prompt and
// user_prompt keys.
func (m *promptManager) ImportYAML(ctx context.Context, name string, r io.Reader) (*domain.Prompt, error) {
	var f promptFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, reject(ctx, m.notifier, fmt.Sprintf("Invalid prompt file: %v", err))
	}

	var missing []string
	if f.SystemPrompt == nil {
		missing = append(missing, "system_prompt")
	}
	if f.UserPrompt == nil {
		missing = append(missing, "user_prompt")
	}
	if len(missing) > 0 {
		return nil, reject(ctx, m.notifier, "Missing required prompt key: "+strings.Join(missing, ", "))
	}

	return m.Create(ctx, name, *f.SystemPrompt, *f.UserPrompt)
}

func (m *promptManager) fail(ctx context.Context, msg string, err error) error {
	slog.ErrorContext(ctx, strings.ToLower(msg), logger.Err(err))
	m.notifier.Notify(ctx, domain.ErrorNotice(msg))
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}
