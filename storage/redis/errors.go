package redis

import "errors"

// ErrClientRequired is returned when a repository is created without a client.
var ErrClientRequired = errors.New("redis client is required")
