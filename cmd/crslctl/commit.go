// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/monas-project/crsl/crdt"
	"github.com/monas-project/crsl/pkg/cid"
	"github.com/monas-project/crsl/repo"
)

// withExternalID sets op.ExternalID to a freshly minted UUID-derived id
// when --external-id was passed, instead of letting the commit fall back to
// an id derived from the operation's own canonical encoding.
func withExternalID(op *repo.Operation) error {
	if !commitExternalID {
		return nil
	}
	id, err := crdt.NewExternalID()
	if err != nil {
		return fmt.Errorf("mint external id: %w", err)
	}
	op.ExternalID = id
	return nil
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit an operation against a genesis document",
}

var (
	commitAuthor     string
	commitPayload    string
	commitPolicy     string
	commitGenesis    string
	commitUnixTime   int64
	commitExternalID bool
)

func addCommitFlags(cmd *cobra.Command, needsGenesis bool) {
	cmd.Flags().StringVarP(&commitAuthor, "author", "a", "", "Author of this operation (required)")
	cmd.Flags().StringVarP(&commitPayload, "payload", "p", "", "Payload value")
	cmd.Flags().Int64VarP(&commitUnixTime, "timestamp", "t", 0, "Logical/wall-clock timestamp (default: current unix time)")
	cmd.Flags().BoolVar(&commitExternalID, "external-id", false, "Mint a UUID-derived operation id instead of deriving one from content")
	if needsGenesis {
		cmd.Flags().StringVarP(&commitGenesis, "genesis", "g", "", "Genesis CID (required)")
	}
	cmd.MarkFlagRequired("author")
}

var commitCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new genesis document",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommit(cmd, &repo.Operation{
			Kind:       crdt.KindCreate,
			Payload:    commitPayload,
			Author:     commitAuthor,
			Timestamp:  resolveTimestamp(),
			PolicyType: commitPolicy,
		})
	},
}

var commitUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing genesis document's value",
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := cid.Parse(commitGenesis)
		if err != nil {
			return fmt.Errorf("invalid --genesis: %w", err)
		}
		return runCommit(cmd, &repo.Operation{
			Genesis:   genesis,
			Kind:      crdt.KindUpdate,
			Payload:   commitPayload,
			Author:    commitAuthor,
			Timestamp: resolveTimestamp(),
		})
	},
}

var commitDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete (tombstone) a genesis document's current value",
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := cid.Parse(commitGenesis)
		if err != nil {
			return fmt.Errorf("invalid --genesis: %w", err)
		}
		return runCommit(cmd, &repo.Operation{
			Genesis:   genesis,
			Kind:      crdt.KindDelete,
			Author:    commitAuthor,
			Timestamp: resolveTimestamp(),
		})
	},
}

func init() {
	addCommitFlags(commitCreateCmd, false)
	commitCreateCmd.Flags().StringVar(&commitPolicy, "policy", "", "Merge policy for this genesis (default: lww)")
	addCommitFlags(commitUpdateCmd, true)
	addCommitFlags(commitDeleteCmd, true)
	commitUpdateCmd.MarkFlagRequired("genesis")
	commitDeleteCmd.MarkFlagRequired("genesis")

	commitCmd.AddCommand(commitCreateCmd, commitUpdateCmd, commitDeleteCmd)
}

func resolveTimestamp() uint64 {
	if commitUnixTime != 0 {
		return uint64(commitUnixTime)
	}
	return uint64(time.Now().Unix())
}

func runCommit(cmd *cobra.Command, op *repo.Operation) error {
	if err := withExternalID(op); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if op.Kind == crdt.KindCreate && op.PolicyType == "" {
		op.PolicyType = cfg.Merge.DefaultPolicyType
	}
	e, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	nodeCID, err := e.repo.CommitOperation(cmd.Context(), op)
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	fmt.Printf("node:    %s\n", nodeCID)
	fmt.Printf("genesis: %s\n", op.Genesis)
	return nil
}
