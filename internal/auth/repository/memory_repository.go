package repository

import (
	"sync"
	"time"

	authdomain "planora-backend/internal/auth/domain"

	"github.com/google/uuid"
)

// memoryUserRepository is an in-memory UserRepository used when no database
// is configured and as the storage double in tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*authdomain.User // keyed by ID
	byEmail map[string]string           // email -> ID
	tokens  map[string]*authdomain.RefreshToken
}

// NewMemoryUserRepository creates an empty in-memory UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:   make(map[string]*authdomain.User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]*authdomain.RefreshToken),
	}
}

func (r *memoryUserRepository) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *memoryUserRepository) FindByID(id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *memoryUserRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	clone := *stored
	return &clone, nil
}

func (r *memoryUserRepository) DeleteRefreshToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}

func (r *memoryUserRepository) DeleteRefreshTokensByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for value, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, value)
		}
	}
	return nil
}

func (r *memoryUserRepository) ReplaceRefreshToken(token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for value, stored := range r.tokens {
		if stored.UserID == token.UserID && stored.ExpiresAt.Before(now) {
			delete(r.tokens, value)
		}
	}
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

// memoryFCMTokenRepository is the in-memory FCMTokenRepository counterpart.
type memoryFCMTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]*authdomain.FCMToken // keyed by token value
}

// NewMemoryFCMTokenRepository creates an empty in-memory FCMTokenRepository.
func NewMemoryFCMTokenRepository() FCMTokenRepository {
	return &memoryFCMTokenRepository{tokens: make(map[string]*authdomain.FCMToken)}
}

func (r *memoryFCMTokenRepository) SaveToken(userID, token, deviceInfo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.tokens[token]; ok {
		existing.UserID = userID
		existing.DeviceInfo = deviceInfo
		existing.UpdatedAt = now
		return nil
	}
	r.tokens[token] = &authdomain.FCMToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (r *memoryFCMTokenRepository) GetTokensByUserID(userID string) ([]authdomain.FCMToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tokens []authdomain.FCMToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			tokens = append(tokens, *t)
		}
	}
	return tokens, nil
}

func (r *memoryFCMTokenRepository) DeleteToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}

func (r *memoryFCMTokenRepository) DeleteTokensByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for value, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, value)
		}
	}
	return nil
}
