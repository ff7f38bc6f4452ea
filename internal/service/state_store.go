package service

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Estados del diálogo de recolección de datos.
const (
	StateIdle                    = ""
	StateWaitingBirthdate        = "waiting_for_birthdate"
	StateWaitingName             = "waiting_for_name"
	StateWaitingPartnerBirthdate = "waiting_for_partner_birthdate"
	StateWaitingPartnerName      = "waiting_for_partner_name"
)

// DialogState es el estado de la conversación más los datos ya recolectados.
// Los nombres llegan en el último paso de cada flujo y se usan en el acto,
// por eso solo las fechas necesitan sobrevivir entre mensajes.
type DialogState struct {
	State            string `json:"state"`
	Birthdate        string `json:"birthdate,omitempty"` // ISO
	PartnerBirthdate string `json:"partner_birthdate,omitempty"`
}

// StateStore guarda el estado del diálogo por chat.
type StateStore interface {
	Get(ctx context.Context, chatID int64) (DialogState, error)
	Set(ctx context.Context, chatID int64, state DialogState) error
	Clear(ctx context.Context, chatID int64) error
}

const dialogStateTTL = time.Hour

type memoryStateStore struct {
	mu    sync.Mutex
	items map[int64]DialogState
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{items: make(map[int64]DialogState)}
}

func (s *memoryStateStore) Get(_ context.Context, chatID int64) (DialogState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[chatID], nil
}

func (s *memoryStateStore) Set(_ context.Context, chatID int64, state DialogState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[chatID] = state
	return nil
}

func (s *memoryStateStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, chatID)
	return nil
}

type redisStateStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStateStore guarda estados en Redis con TTL: un diálogo abandonado
// vuelve solo al estado inicial.
func NewRedisStateStore(client *redis.Client) StateStore {
	if client == nil {
		return nil
	}
	return &redisStateStore{
		client: client,
		prefix: "dialog:state:",
	}
}

func (s *redisStateStore) key(chatID int64) string {
	return s.prefix + strconv.FormatInt(chatID, 10)
}

func (s *redisStateStore) Get(ctx context.Context, chatID int64) (DialogState, error) {
	raw, err := s.client.Get(ctx, s.key(chatID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return DialogState{}, nil
		}
		return DialogState{}, err
	}
	var state DialogState
	if err := json.Unmarshal(raw, &state); err != nil {
		return DialogState{}, err
	}
	return state, nil
}

func (s *redisStateStore) Set(ctx context.Context, chatID int64, state DialogState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(chatID), raw, dialogStateTTL).Err()
}

func (s *redisStateStore) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, s.key(chatID)).Err()
}
