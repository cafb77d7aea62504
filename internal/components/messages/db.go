package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	repocache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-appkit/pkg/interfaces"
)

// Message is the bun model backing the database message source.
type Message struct {
	bun.BaseModel `bun:"table:app_messages,alias:am"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Category string    `bun:"category,notnull"`
	Key      string    `bun:"key,notnull"`
	Language string    `bun:"language,notnull"`
	Value    string    `bun:"value,notnull"`
}

// NewMessageRepository wires the go-repository-bun repository for messages.
func NewMessageRepository(db *bun.DB) repository.Repository[*Message] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Message]{
		NewRecord: func() *Message { return &Message{} },
		GetID: func(m *Message) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Message, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(m *Message) string {
			if m == nil {
				return ""
			}
			return m.ID.String()
		},
	})
}

// DBSource translates message keys from the app_messages table, falling back
// to the source language and finally to the key itself.
type DBSource struct {
	db             *bun.DB
	repo           repository.Repository[*Message]
	sourceLanguage string
}

var _ interfaces.MessageSource = (*DBSource)(nil)

// DBOption mutates the database source during construction.
type DBOption func(*DBSource)

// WithRepositoryCache decorates the message repository with the
// go-repository-cache service so repeated seeds and lookups through the
// repository avoid duplicate round trips.
func WithRepositoryCache(service repocache.CacheService, serializer repocache.KeySerializer) DBOption {
	return func(s *DBSource) {
		if service != nil && serializer != nil {
			s.repo = repositorycache.New(s.repo, service, serializer)
		}
	}
}

// NewDBSource constructs a database-backed source reading from db.
func NewDBSource(db *bun.DB, sourceLanguage string, opts ...DBOption) (*DBSource, error) {
	if db == nil {
		return nil, errors.New("messages: database handle is required")
	}
	s := &DBSource{
		db:             db,
		repo:           NewMessageRepository(db),
		sourceLanguage: sourceLanguage,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// EnsureSchema creates the messages table when absent.
func (s *DBSource) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Message)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("messages: create table: %w", err)
	}
	return nil
}

// Seed inserts or replaces one message row.
func (s *DBSource) Seed(ctx context.Context, category, key, language, value string) error {
	record := &Message{
		ID:       uuid.New(),
		Category: category,
		Key:      key,
		Language: strings.ToLower(language),
		Value:    value,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("messages: seed %s/%s: %w", category, key, err)
	}
	return nil
}

// Translate returns the message for key in category and language. Missing
// translations fall back to the source language, then to the key itself.
func (s *DBSource) Translate(ctx context.Context, category, key, language string) (string, error) {
	if category == "" || key == "" {
		return key, nil
	}

	value, err := s.lookup(ctx, category, key, strings.ToLower(language))
	if err != nil {
		return key, err
	}
	if value != "" {
		return value, nil
	}

	if !strings.EqualFold(language, s.sourceLanguage) {
		value, err = s.lookup(ctx, category, key, strings.ToLower(s.sourceLanguage))
		if err != nil {
			return key, err
		}
		if value != "" {
			return value, nil
		}
	}
	return key, nil
}

func (s *DBSource) lookup(ctx context.Context, category, key, language string) (string, error) {
	var record Message
	err := s.db.NewSelect().
		Model(&record).
		Where("category = ?", category).
		Where("key = ?", key).
		Where("language = ?", language).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("messages: lookup %s/%s: %w", category, key, err)
	}
	return record.Value, nil
}
