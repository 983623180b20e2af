// Copyright (C) 2025 monas-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monas-project/crsl/pkg/cid"
)

var stateGenesis string

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print a genesis document's current projected value",
	Long: `Print the CRDT LWW projection for a genesis document: its current
value, or "<absent>" if the winning operation was a Delete (spec §4.5).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := cid.Parse(stateGenesis)
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

		st, err := e.repo.GetState(cmd.Context(), genesis)
		if err != nil {
			return fmt.Errorf("get state: %w", err)
		}
		if !st.Present {
			fmt.Println("<absent>")
			return nil
		}
		fmt.Printf("%v\n", st.Value)
		return nil
	},
}

func init() {
	stateCmd.Flags().StringVarP(&stateGenesis, "genesis", "g", "", "Genesis CID (required)")
	stateCmd.MarkFlagRequired("genesis")
}
