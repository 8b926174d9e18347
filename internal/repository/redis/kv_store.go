package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Array merge actions for Set when DataActions.SetAsArray is true.
const (
	ActionAppend  = "append"
	ActionReplace = "replace"
	ActionDelete  = "delete"
)

// Find modes.
const (
	FindMany = "many"
	FindOne  = "one"
)

// DataActions describes the collection semantics of a Set call.
type DataActions struct {
	SetAsArray     bool
	ActionIfExists string
	UniqueKey      string
}

// DBMirror mirrors a KV write into the relational store. Mirrored writes
// are not transactional with the KV write; a crash between the two leaves
// them inconsistent, which is acceptable for the non-critical writes that
// request mirroring.
type DBMirror interface {
	Exec(ctx context.Context, collection, operation string, value map[string]any) error
}

// SetParams configures a single Set call.
type SetParams struct {
	DBOperation   bool
	OperationName string
	Key           string
	Expiry        int // seconds, 0 means no TTL
	Value         map[string]any
	DataActions   *DataActions
}

// Store is the generic KV store over Redis. Values are JSON blobs; scalar
// writes are namespaced `<key>-<value[uniqueKey]>`, array writes keep a
// JSON array under that same namespaced key.
type Store struct {
	client *redis.Client
	logger *zap.Logger
	mirror DBMirror
}

func NewStore(client *redis.Client, logger *zap.Logger, mirror DBMirror) *Store {
	return &Store{client: client, logger: logger, mirror: mirror}
}

// Get returns the value stored at key, or nil on a miss. Deserialization
// failures are logged and reported as a miss, never as an error.
func (s *Store) Get(ctx context.Context, key string) map[string]any {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Error("Failed to get key", zap.String("key", key), zap.Error(err))
		} else {
			s.logger.Warn("Key not found", zap.String("key", key))
		}
		return nil
	}

	var value map[string]any
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("Failed to unmarshal value, treating as missing",
			zap.String("key", key), zap.Error(err))
		return nil
	}
	return value
}

// Set writes a value according to params. It returns true unless the
// underlying store write fails; in particular a scalar write with no
// UniqueKey is skipped but still reports true, matching the contract the
// callers were built against.
func (s *Store) Set(ctx context.Context, params SetParams) bool {
	if params.DBOperation && params.OperationName != "" && s.mirror != nil {
		if err := s.mirror.Exec(ctx, params.Key, params.OperationName, params.Value); err != nil {
			s.logger.Error("Mirrored db operation failed",
				zap.String("collection", params.Key),
				zap.String("operation", params.OperationName),
				zap.Error(err))
			return false
		}
	}

	if params.DataActions != nil && params.DataActions.SetAsArray {
		return s.setArray(ctx, params)
	}
	return s.setScalar(ctx, params)
}

func (s *Store) setScalar(ctx context.Context, params SetParams) bool {
	if params.DataActions == nil || params.DataActions.UniqueKey == "" {
		// Soft-fail kept from the original contract: the write is dropped
		// but the caller still sees success. Log loudly.
		s.logger.Warn("uniqueKey is missing in dataActions, skipping write",
			zap.String("key", params.Key))
		return true
	}

	key := namespacedKey(params.Key, params.Value, params.DataActions.UniqueKey)
	data, err := json.Marshal(params.Value)
	if err != nil {
		s.logger.Error("Failed to marshal value", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.write(ctx, key, data, params.Expiry); err != nil {
		s.logger.Error("Failed to set key", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) setArray(ctx context.Context, params SetParams) bool {
	key := namespacedKey(params.Key, params.Value, params.DataActions.UniqueKey)

	var existing []map[string]any
	if raw, err := s.client.Get(ctx, key).Bytes(); err == nil {
		if err := json.Unmarshal(raw, &existing); err != nil {
			s.logger.Warn("Stored array is not valid JSON, starting over",
				zap.String("key", key), zap.Error(err))
			existing = nil
		}
	} else if err != redis.Nil {
		s.logger.Error("Failed to read array", zap.String("key", key), zap.Error(err))
		return false
	}

	merged := MergeArray(existing, params.Value, params.DataActions)

	data, err := json.Marshal(merged)
	if err != nil {
		s.logger.Error("Failed to marshal array", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.write(ctx, key, data, params.Expiry); err != nil {
		s.logger.Error("Failed to set array", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) write(ctx context.Context, key string, data []byte, expiry int) error {
	if expiry > 0 {
		return s.client.SetEx(ctx, key, data, time.Duration(expiry)*time.Second).Err()
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

// Del removes a key, best effort. Errors are logged and swallowed.
func (s *Store) Del(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete key", zap.String("key", key), zap.Error(err))
	}
}

// Find loads the array at key and returns the entries matching predicate,
// all of them in FindMany mode and just the first in FindOne mode.
func (s *Store) Find(ctx context.Context, key string, predicate func(map[string]any) bool, mode string) ([]map[string]any, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		s.logger.Error("Failed to read array", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("find %s: %w", key, err)
	}

	var array []map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &array); err != nil {
			s.logger.Error("Stored array is not valid JSON", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("find %s: %w", key, err)
		}
	}
	if len(array) == 0 {
		s.logger.Warn("No data found for key", zap.String("key", key))
	}

	var matches []map[string]any
	for _, item := range array {
		if predicate(item) {
			matches = append(matches, item)
			if mode == FindOne {
				break
			}
		}
	}
	return matches, nil
}

// MergeArray applies the configured array action to an existing array.
// Replace and delete both filter out entries whose uniqueKey field matches
// the incoming value; replace re-inserts the value, append concatenates
// unconditionally.
func MergeArray(existing []map[string]any, value map[string]any, actions *DataActions) []map[string]any {
	switch actions.ActionIfExists {
	case ActionDelete:
		return filterByUniqueKey(existing, value, actions.UniqueKey)
	case ActionReplace:
		return append(filterByUniqueKey(existing, value, actions.UniqueKey), value)
	default: // append
		return append(existing, value)
	}
}

func filterByUniqueKey(existing []map[string]any, value map[string]any, uniqueKey string) []map[string]any {
	out := make([]map[string]any, 0, len(existing))
	for _, entry := range existing {
		if entry[uniqueKey] != value[uniqueKey] {
			out = append(out, entry)
		}
	}
	return out
}

func namespacedKey(key string, value map[string]any, uniqueKey string) string {
	return fmt.Sprintf("%s-%v", key, value[uniqueKey])
}
