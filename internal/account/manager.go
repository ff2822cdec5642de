// Package account manages locally registered Namada accounts: the stand-in
// for the browser wallet's account list.
package account

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Mohsinsiddi/namcli/internal/config"
)

// Account kinds.
const (
	KindTransparent = config.KindTransparent
	KindShielded    = config.KindShielded
)

// Errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrNoViewingKey    = errors.New("account has no viewing key")
)

// Account holds metadata for a single account.
type Account struct {
	Name          string
	Address       string
	Kind          string
	ViewingKeyRef string // keychain reference, shielded accounts only
	IsDefault     bool
	CreatedAt     string
}

// IsShielded reports whether the account holds a shielded address.
func (a *Account) IsShielded() bool { return a.Kind == KindShielded }

// Store is an interface for persisting accounts.
type Store interface {
	Load() ([]*Account, error)
	Save([]*Account) error
}

// Manager handles account CRUD.
type Manager struct {
	store    Store
	secrets  SecretStore
	accounts map[string]*Account
	loaded   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithInMemoryStore uses an in-memory store (useful for tests).
func WithInMemoryStore() Option {
	return func(m *Manager) {
		m.store = &memStore{}
	}
}

// WithStore sets a custom store.
func WithStore(s Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithSecretStore sets where viewing keys are kept.
func WithSecretStore(s SecretStore) Option {
	return func(m *Manager) {
		m.secrets = s
	}
}

// NewManager creates a new account manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		accounts: make(map[string]*Account),
		store:    &memStore{},
		secrets:  NewInMemoryKeystore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add validates address and registers it under name. The account kind is
// derived from the address prefix.
func (m *Manager) Add(name, address string) (*Account, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	if _, exists := m.accounts[name]; exists {
		return nil, ErrAccountExists
	}
	kind, err := ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	a := &Account{
		Name:      name,
		Address:   address,
		Kind:      kind,
		IsDefault: len(m.accounts) == 0,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.accounts[name] = a
	return a, m.persist()
}

// AddShielded registers a shielded payment address together with its
// viewing key. The key goes to the secret store, never to the account file.
func (m *Manager) AddShielded(name, address, viewingKey string) (*Account, error) {
	if err := ValidateViewingKey(viewingKey); err != nil {
		return nil, err
	}
	if kind, err := ValidateAddress(address); err != nil {
		return nil, err
	} else if kind != KindShielded {
		return nil, fmt.Errorf("%w: %s is not a shielded address", ErrInvalidAddress, address)
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	if _, exists := m.accounts[name]; exists {
		return nil, ErrAccountExists
	}

	ref, err := m.secrets.Store("vk."+name, viewingKey)
	if err != nil {
		return nil, fmt.Errorf("storing viewing key: %w", err)
	}
	a := &Account{
		Name:          name,
		Address:       address,
		Kind:          KindShielded,
		ViewingKeyRef: ref,
		IsDefault:     len(m.accounts) == 0,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	m.accounts[name] = a
	return a, m.persist()
}

// Get returns an account by name.
func (m *Manager) Get(name string) (*Account, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	a, ok := m.accounts[name]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// Resolve returns the named account, or the default one when name is "".
func (m *Manager) Resolve(name string) (*Account, error) {
	if name != "" {
		return m.Get(name)
	}
	if a := m.Default(); a != nil {
		return a, nil
	}
	return nil, ErrAccountNotFound
}

// ViewingKey returns the viewing key of a shielded account.
func (m *Manager) ViewingKey(name string) (string, error) {
	a, err := m.Get(name)
	if err != nil {
		return "", err
	}
	if a.ViewingKeyRef == "" {
		return "", ErrNoViewingKey
	}
	return m.secrets.Retrieve(a.ViewingKeyRef)
}

// Remove deletes an account by name, along with its viewing key.
func (m *Manager) Remove(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	a, ok := m.accounts[name]
	if !ok {
		return ErrAccountNotFound
	}
	if a.ViewingKeyRef != "" {
		if err := m.secrets.Delete(a.ViewingKeyRef); err != nil {
			return fmt.Errorf("removing viewing key: %w", err)
		}
	}
	delete(m.accounts, name)
	return m.persist()
}

// List returns all accounts sorted by name.
func (m *Manager) List() []*Account {
	m.load() //nolint:errcheck
	out := make([]*Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetDefault marks an account as the default.
func (m *Manager) SetDefault(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	if _, ok := m.accounts[name]; !ok {
		return ErrAccountNotFound
	}
	for _, a := range m.accounts {
		a.IsDefault = a.Name == name
	}
	return m.persist()
}

// Default returns the default account, or nil if none.
func (m *Manager) Default() *Account {
	m.load() //nolint:errcheck
	for _, a := range m.accounts {
		if a.IsDefault {
			return a
		}
	}
	// Fallback: return the only account if exactly one exists.
	if len(m.accounts) == 1 {
		for _, a := range m.accounts {
			return a
		}
	}
	return nil
}

// --- internal ---

func (m *Manager) load() error {
	if m.loaded {
		return nil
	}
	accounts, err := m.store.Load()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		m.accounts[a.Name] = a
	}
	m.loaded = true
	return nil
}

func (m *Manager) persist() error {
	return m.store.Save(m.List())
}

// --- in-memory store ---

type memStore struct {
	accounts []*Account
}

func (s *memStore) Load() ([]*Account, error) {
	return s.accounts, nil
}

func (s *memStore) Save(accounts []*Account) error {
	s.accounts = accounts
	return nil
}

// --- config-backed store ---

// ConfigStore persists accounts to accounts.json in the config directory.
type ConfigStore struct {
	cfg *config.Config
}

// NewConfigStore creates a store backed by cfg's accounts file.
func NewConfigStore(cfg *config.Config) *ConfigStore {
	return &ConfigStore{cfg: cfg}
}

func (s *ConfigStore) Load() ([]*Account, error) {
	af, err := s.cfg.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	out := make([]*Account, 0, len(af.Accounts))
	for _, e := range af.Accounts {
		out = append(out, &Account{
			Name:          e.Name,
			Address:       e.Address,
			Kind:          e.Kind,
			ViewingKeyRef: e.ViewingKeyRef,
			IsDefault:     e.IsDefault,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

func (s *ConfigStore) Save(accounts []*Account) error {
	af := &config.AccountsFile{Accounts: make([]config.Account, 0, len(accounts))}
	for _, a := range accounts {
		af.Accounts = append(af.Accounts, config.Account{
			Name:          a.Name,
			Address:       a.Address,
			Kind:          a.Kind,
			ViewingKeyRef: a.ViewingKeyRef,
			IsDefault:     a.IsDefault,
			CreatedAt:     a.CreatedAt,
		})
	}
	return s.cfg.SaveAccounts(af)
}
