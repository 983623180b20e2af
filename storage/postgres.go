// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/graph"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/pkg/codec"
	"github.com/monas-project/crsl/pkg/errors"
)

// PostgresConfig contains PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	NodesTable      string
	OperationsTable string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DefaultPostgresConfig returns the default PostgreSQL configuration.
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Database:        "crsl",
		SSLMode:         "disable",
		NodesTable:      "crsl_nodes",
		OperationsTable: "crsl_operations",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		AutoMigrate:     true,
	}
}

func openPostgres(config *PostgresConfig) (*sql.DB, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.Database, config.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("storage: open postgres: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect to postgres: %w", err)
	}
	return db, nil
}

// PostgresNodeStore implements graph.NodeStore and graph.GenesisIndexedStore
// over PostgreSQL. Nodes are stored as canonical-CBOR bytes in a BYTEA
// column, with genesis kept in its own indexed column for the secondary
// index spec §5 describes.
type PostgresNodeStore struct {
	db    *sql.DB
	table string
}

// NewPostgresNodeStore opens a connection and, if configured, migrates the
// nodes table.
func NewPostgresNodeStore(config *PostgresConfig) (*PostgresNodeStore, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}
	db, err := openPostgres(config)
	if err != nil {
		return nil, err
	}
	s := &PostgresNodeStore{db: db, table: config.NodesTable}
	if config.AutoMigrate {
		if err := s.migrate(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: migrate nodes table: %w", err)
		}
	}
	return s, nil
}

func (s *PostgresNodeStore) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			cid VARCHAR(255) PRIMARY KEY,
			genesis VARCHAR(255) NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_%s_genesis ON %s(genesis);
	`, s.table, s.table, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Put upserts node by its CID.
func (s *PostgresNodeStore) Put(ctx context.Context, node *graph.Node) error {
	data, err := codec.Encode(node)
	if err != nil {
		return errors.ErrSerialization.Wrap(err)
	}
	genesis := node.CID
	if !node.IsGenesis() {
		genesis = *node.Genesis
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (cid, genesis, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (cid) DO UPDATE SET data = EXCLUDED.data
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query, node.CID.String(), genesis.String(), data); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}

// Get returns the stored node for id, or (nil, nil) if unknown.
func (s *PostgresNodeStore) Get(ctx context.Context, id cid.ID) (*graph.Node, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE cid = $1`, s.table)
	var data []byte
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
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

// Enumerate returns every stored (CID, Node) pair.
func (s *PostgresNodeStore) Enumerate(ctx context.Context) ([]graph.StoredNode, error) {
	query := fmt.Sprintf(`SELECT cid, data FROM %s`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	defer rows.Close()

	var out []graph.StoredNode
	for rows.Next() {
		var cidStr string
		var data []byte
		if err := rows.Scan(&cidStr, &data); err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		id, err := cid.Parse(cidStr)
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		var node graph.Node
		if err := codec.Decode(data, &node); err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		node.CID = id
		out = append(out, graph.StoredNode{CID: id, Node: &node})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return out, nil
}

// NodesByGenesis implements graph.GenesisIndexedStore via the indexed
// genesis column.
func (s *PostgresNodeStore) NodesByGenesis(ctx context.Context, genesis cid.ID) ([]cid.ID, error) {
	query := fmt.Sprintf(`SELECT cid FROM %s WHERE genesis = $1`, s.table)
	rows, err := s.db.QueryContext(ctx, query, genesis.String())
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	defer rows.Close()

	var out []cid.ID
	for rows.Next() {
		var cidStr string
		if err := rows.Scan(&cidStr); err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		id, err := cid.Parse(cidStr)
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *PostgresNodeStore) Close() error { return s.db.Close() }

// PostgresOperationStore implements crdt.OperationStore over PostgreSQL.
type PostgresOperationStore struct {
	db    *sql.DB
	table string
}

// NewPostgresOperationStore opens a connection and, if configured, migrates
// the operations table.
func NewPostgresOperationStore(config *PostgresConfig) (*PostgresOperationStore, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}
	db, err := openPostgres(config)
	if err != nil {
		return nil, err
	}
	s := &PostgresOperationStore{db: db, table: config.OperationsTable}
	if config.AutoMigrate {
		if err := s.migrate(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: migrate operations table: %w", err)
		}
	}
	return s, nil
}

func (s *PostgresOperationStore) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			genesis VARCHAR(255) NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_%s_genesis ON %s(genesis);
	`, s.table, s.table, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append inserts op, keyed by its own ID.
func (s *PostgresOperationStore) Append(ctx context.Context, op *crdt.Operation) error {
	data, err := codec.Encode(op)
	if err != nil {
		return errors.ErrSerialization.Wrap(err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, genesis, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, s.table)
	if _, err := s.db.ExecContext(ctx, query, op.ID.String(), op.Genesis.String(), data); err != nil {
		return errors.ErrIO.Wrap(err)
	}
	return nil
}

// Get returns the stored operation for id, or (nil, nil) if unknown.
func (s *PostgresOperationStore) Get(ctx context.Context, id cid.ID) (*crdt.Operation, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.table)
	var data []byte
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
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
func (s *PostgresOperationStore) LoadByGenesis(ctx context.Context, genesis cid.ID) ([]*crdt.Operation, error) {
	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE genesis = $1`, s.table)
	rows, err := s.db.QueryContext(ctx, query, genesis.String())
	if err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	defer rows.Close()

	var out []*crdt.Operation
	for rows.Next() {
		var idStr string
		var data []byte
		if err := rows.Scan(&idStr, &data); err != nil {
			return nil, errors.ErrIO.Wrap(err)
		}
		id, err := cid.Parse(idStr)
		if err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		var op crdt.Operation
		if err := codec.Decode(data, &op); err != nil {
			return nil, errors.ErrSerialization.Wrap(err)
		}
		op.ID = id
		out = append(out, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrIO.Wrap(err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *PostgresOperationStore) Close() error { return s.db.Close() }
