package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/api"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/repository"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/storage"

	"github.com/rs/zerolog"
)

var errStorageUnavailable = errors.New("storage unavailable")

// brokenStorage stands in for a context without any usable local store.
type brokenStorage struct {
	failGet bool
	failSet bool
	*storage.MemoryStorage
}

func (b *brokenStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if b.failGet {
		return "", false, errStorageUnavailable
	}
	return b.MemoryStorage.Get(ctx, key)
}

func (b *brokenStorage) Set(ctx context.Context, key, value string) error {
	if b.failSet {
		return errStorageUnavailable
	}
	return b.MemoryStorage.Set(ctx, key, value)
}

// mockRemote behaves like the json-server battles collection.
type mockRemote struct {
	mu      sync.Mutex
	battles []json.RawMessage
	status  int
	delay   time.Duration
	gets    int
	posts   int
	srv     *httptest.Server
}

func newMockRemote(t *testing.T) *mockRemote {
	t.Helper()
	m := &mockRemote{}
	m.srv = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mockRemote) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	status, delay := m.status, m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		w.WriteHeader(status)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch r.Method {
	case http.MethodPost:
		m.posts++
		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.battles = append(m.battles, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	case http.MethodGet:
		m.gets++
		// newest last in storage, so reverse for _order=desc
		out := make([]json.RawMessage, 0, len(m.battles))
		for i := len(m.battles) - 1; i >= 0; i-- {
			out = append(out, m.battles[i])
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func (m *mockRemote) set(status int, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status, m.delay = status, delay
}

func (m *mockRemote) counts() (gets, posts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets, m.posts
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		RemoteBaseURL:        baseURL,
		RemoteSaveTimeout:    300 * time.Millisecond,
		RemoteHistoryTimeout: 100 * time.Millisecond,
	}
}

// unreachableURL points at a port nothing listens on.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func newBattleService(baseURL string, store storage.Storage) (*BattleService, *repository.BattleRepository) {
	cfg := testConfig(baseURL)
	local := repository.NewBattleRepository(store, zerolog.Nop())
	return NewBattleService(cfg, api.NewRemoteClient(cfg), local, zerolog.Nop()), local
}

func newInviteService(store storage.Storage) *InviteService {
	return NewInviteService(repository.NewInviteRepository(store, zerolog.Nop()), zerolog.Nop())
}

func battle(winner, date string) domain.BattleResult {
	ts, err := domain.ParseTimestamp(date)
	if err != nil {
		panic(err)
	}
	turns := 3
	return domain.BattleResult{
		WinnerID:   domain.ID(winner),
		WinnerName: "Winner " + winner,
		LoserID:    "132",
		LoserName:  "Ditto",
		Date:       ts,
		Turns:      &turns,
		BattleLog: []domain.BattleLogEntry{
			{Turn: 1, AttackerID: domain.ID(winner), AttackerName: "Winner " + winner, DefenderID: "132", MoveName: "Tackle", Damage: 12, DefenderHPAfter: 36},
		},
	}
}
