// Package redis provides a topic catalog shared through Redis, for
// deployments where several ingesters classify against the same topics.
package redis
