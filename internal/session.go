package internal

// TokenKey is the fixed storage key holding the bearer token
const TokenKey = "token"

// KeyValueStore is the persisted storage a Session reads its credential from
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Clear() error
}

// Session carries the credential token to the flows that need authentication.
// Flows only read it; login writes it and logout clears it.
type Session struct {
	store KeyValueStore
}

// NewSession wraps a key/value store
func NewSession(store KeyValueStore) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer token, if any
func (s *Session) Token() (string, bool) {
	if s == nil || s.store == nil {
		return "", false
	}
	token, ok, err := s.store.Get(TokenKey)
	if err != nil {
		LogWarn("Failed to read credential: %v", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken persists a token obtained at login
func (s *Session) SetToken(token string) error {
	return s.store.Set(TokenKey, token)
}

// Clear wipes all persisted client state. Calling it twice is harmless.
func (s *Session) Clear() error {
	return s.store.Clear()
}

// MaskToken shortens a token for display
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
