package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ellavondegurechaff/fankee/fankee/gateway"
)

// IdentityStore persists the single client-side identity value: the nickname
// picked at login. There is no session or token; the stored nickname never
// expires and is cleared only on demand.
type IdentityStore interface {
	Nickname() (string, bool)
	SetNickname(nickname string) error
	Clear() error
}

// FileIdentityStore keeps the nickname in a plain file, loaded lazily and
// cached for the life of the process.
type FileIdentityStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	value  string
}

func NewFileIdentityStore(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

// DefaultIdentityPath places the nickname file under the user config dir.
func DefaultIdentityPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "fankee", "nickname"), nil
}

func (s *FileIdentityStore) Nickname() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loaded = true
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.value = strings.TrimSpace(string(data))
		}
	}
	return s.value, s.value != ""
}

func (s *FileIdentityStore) SetNickname(nickname string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(nickname+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to store nickname: %w", err)
	}
	s.loaded = true
	s.value = nickname
	return nil
}

func (s *FileIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear nickname: %w", err)
	}
	s.loaded = true
	s.value = ""
	return nil
}

// Identity resolves and remembers who is browsing. Login verifies the
// nickname against the gateway before storing it; a failed verification
// stores nothing.
type Identity struct {
	store IdentityStore
	gw    Gateway
}

func NewIdentity(store IdentityStore, gw Gateway) *Identity {
	return &Identity{store: store, gw: gw}
}

// Login resolves an existing nickname. Only a confirmed user is stored.
func (i *Identity) Login(ctx context.Context, nickname string) (gateway.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return gateway.User{}, fmt.Errorf("nickname must not be empty")
	}

	user, err := i.gw.GetUserByNickname(ctx, nickname)
	if err != nil {
		return gateway.User{}, err
	}
	if err := i.store.SetNickname(user.Nickname); err != nil {
		return gateway.User{}, err
	}
	return user, nil
}

// Register creates the nickname then logs in with it. A duplicate nickname
// surfaces gateway.ErrDuplicate and leaves the stored identity untouched.
func (i *Identity) Register(ctx context.Context, nickname string) (gateway.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return gateway.User{}, fmt.Errorf("nickname must not be empty")
	}

	if _, err := i.gw.CreateUser(ctx, nickname); err != nil {
		return gateway.User{}, err
	}
	return i.Login(ctx, nickname)
}

// Current resolves the stored nickname against the gateway, if one exists.
func (i *Identity) Current(ctx context.Context) (gateway.User, bool, error) {
	nickname, ok := i.store.Nickname()
	if !ok {
		return gateway.User{}, false, nil
	}

	user, err := i.gw.GetUserByNickname(ctx, nickname)
	if err != nil {
		return gateway.User{}, false, err
	}
	return user, true, nil
}
