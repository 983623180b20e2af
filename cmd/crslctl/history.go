// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monas-project/crsl/pkg/cid"
)

var historyGenesis string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print a genesis document's commit history",
	Long: `Print the CIDs of every node belonging to a genesis document, in
topological order: the genesis first, then children by ascending timestamp,
ties broken by ascending CID (spec §9 Open Question 1).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := cid.Parse(historyGenesis)
		if err != nil {
			return fmt.Errorf("invalid --genesis: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		e, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		history, err := e.repo.GetHistory(cmd.Context(), genesis)
		if err != nil {
			return fmt.Errorf("get history: %w", err)
		}
		for i, id := range history {
			fmt.Printf("%d: %s\n", i, id)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyGenesis, "genesis", "g", "", "Genesis CID (required)")
	historyCmd.MarkFlagRequired("genesis")
}
