package storage

// Storage is an interface for a generic blobstore.  A Get of a
// missing key returns nil, nil.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error

	Close() error
}
