package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string // file
	RedisURL      string // redis
	MongoURI      string // mongo
	MongoDatabase string // mongo
	Prefix        string // redis key prefix
}

// Open creates the cache named by opts.Backend. An empty backend selects
// the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch strings.ToLower(opts.Backend) {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisURL, opts.Prefix)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
