// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/codec"
	"github.com/monas-project/crsl/pkg/errors"
)

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	// Address is the Redis server address (host:port).
	Address string

	// Password is the Redis password. Default: "" (no password)
	Password string

	// DB is the Redis database number.
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Address:      "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func newRedisClient(config *RedisConfig) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("storage: connect to redis: %w", err)
	}
	return client, nil
}

// RedisNodeStore implements graph.NodeStore and graph.GenesisIndexedStore
// over Redis: nodes are canonical-CBOR blobs keyed by CID, and a per-genesis
// Redis SET tracks membership for the secondary index.
type RedisNodeStore struct {
	client *redis.Client
}

// NewRedisNodeStore dials Redis and returns a ready NodeStore.
func NewRedisNodeStore(config *RedisConfig) (*RedisNodeStore, error) {
	client, err := newRedisClient(config)
	if err != nil {
		return nil, err
	}
	return &RedisNodeStore{client: client}, nil
}

func nodeKey(id cid.ID) string       { return "crsl:node:" + id.String() }
func genesisSetKey(id cid.ID) string { return "crsl:genesis:" + id.String() }

// Put stores node as a canonical-encoded blob and records it in its
// genesis's membership set.
func (s *RedisNodeStore) Put(ctx context.Context, node *graph.Node) error {
	data, err := codec.Encode(node)
	if err != nil {
		return errors.ErrSerialization.Wrap(err)
	}

	genesis := node.CID
	if !node.IsGenesis() {
		genesis = *node.Genesis
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, nodeKey(node.CID), data, 0)
	pipe.SAdd(ctx, genesisSetKey(genesis), node.CID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}

// Get returns the stored node for id, or (nil, nil) if unknown.
func (s *RedisNodeStore) Get(ctx context.Context, id cid.ID) (*graph.Node, error) {
	data, err := s.client.Get(ctx, nodeKey(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.ErrIO.Wrap(err)
	}
	var node graph.Node
	if err := codec.Decode(data, &node); err != nil {
		return nil, errors.ErrSerialization.Wrap(err)
	}
	node.CID = id
	return &node, nil
}

// Enumerate scans every crsl:node:* key. This is the full-scan fallback
// path spec §5 calls out as a scalability limit; NodesByGenesis should be
// preferred wherever the caller has a genesis in hand.
func (s *RedisNodeStore) Enumerate(ctx context.Context) ([]graph.StoredNode, error) {
	var out []graph.StoredNode
	iter := s.client.Scan(ctx, 0, "crsl:node:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := cid.Parse(strings.TrimPrefix(key, "crsl:node:"))
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}

		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if stderrors.Is(err, redis.Nil) {
				continue
			}
			return nil, errors.ErrIO.Wrap(err)
		}
		var node graph.Node
		if err := codec.Decode(data, &node); err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		node.CID = id
		out = append(out, graph.StoredNode{CID: id, Node: &node})
	}
	if err := iter.Err(); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return out, nil
}

// NodesByGenesis implements graph.GenesisIndexedStore via the SADD/SMEMBERS
// membership set maintained in Put.
func (s *RedisNodeStore) NodesByGenesis(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	members, err := s.client.SMembers(ctx, genesisSetKey(genesis)).Result()
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	out := make([]cid.ID, 0, len(members))
	for _, m := range members {
		id, err := cid.Parse(m)
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		out = append(out, id)
	}
	return out, nil
}

// Close closes the Redis connection.
func (s *RedisNodeStore) Close() error { return s.client.Close() }

// RedisOperationStore implements crdt.OperationStore over Redis, mirroring
// RedisNodeStore's key layout.
type RedisOperationStore struct {
	client *redis.Client
}

// NewRedisOperationStore dials Redis and returns a ready OperationStore.
func NewRedisOperationStore(config *RedisConfig) (*RedisOperationStore, error) {
	client, err := newRedisClient(config)
	if err != nil {
		return nil, err
	}
	return &RedisOperationStore{client: client}, nil
}

func opKey(id cid.ID) string          { return "crsl:op:" + id.String() }
func opGenesisSetKey(id cid.ID) string { return "crsl:op-genesis:" + id.String() }

// Append records op under its own ID and in its genesis's membership set.
func (s *RedisOperationStore) Append(ctx context.Context, op *crdt.Operation) error {
	data, err := codec.Encode(op)
	if err != nil {
		return errors.ErrSerialization.Wrap(err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, opKey(op.ID), data, 0)
	pipe.SAdd(ctx, opGenesisSetKey(op.Genesis), op.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}

// Get returns the stored operation for id, or (nil, nil) if unknown.
func (s *RedisOperationStore) Get(ctx context.Context, id cid.ID) (*crdt.Operation, error) {
	data, err := s.client.Get(ctx, opKey(id)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.ErrIO.Wrap(err)
	}
	var op crdt.Operation
	if err := codec.Decode(data, &op); err != nil {
		return nil, errors.ErrSerialization.Wrap(err)
	}
	op.ID = id
	return &op, nil
}

// LoadByGenesis returns every operation recorded against genesis.
func (s *RedisOperationStore) LoadByGenesis(ctx context.Context, genesis cid.ID) ([]*crdt.Operation, error) {
	members, err := s.client.SMembers(ctx, opGenesisSetKey(genesis)).Result()
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	out := make([]*crdt.Operation, 0, len(members))
	for _, m := range members {
		id, err := cid.Parse(m)
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		op, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if op != nil {
			out = append(out, op)
		}
	}
	return out, nil
}

// Close closes the Redis connection.
func (s *RedisOperationStore) Close() error { return s.client.Close() }
