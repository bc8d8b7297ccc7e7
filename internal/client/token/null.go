package token

// NullStore is the Store for non-interactive execution contexts where no
// durable storage is available: Get always reports "no token" and writes are
// accepted but dropped.
type NullStore struct{}

func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Get() (string, error) { return "", nil }

func (NullStore) Set(string) error { return nil }

func (NullStore) Clear() error { return nil }
