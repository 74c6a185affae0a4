// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// bera-proofs generates Merkle inclusion proofs for validators and balances
// in Berachain's beacon state, from a local JSON snapshot or a live beacon
// node, and can serve the proof API over REST.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/berachain/bera-proofs/api"
	"github.com/berachain/bera-proofs/beacon"
	"github.com/berachain/bera-proofs/config"
	"github.com/berachain/bera-proofs/prover"
	"github.com/berachain/bera-proofs/types"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to the YAML configuration file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	stateFileFlag = &cli.StringFlag{
		Name:  "state-file",
		Usage: "Generate against a local JSON state snapshot instead of a live node",
	}
	slotFlag = &cli.StringFlag{
		Name:  "slot",
		Usage: "Slot to fetch from the node: a number, \"head\" or \"finalized\"",
		Value: "head",
	}
	prevBlockRootFlag = &cli.StringFlag{
		Name:  "prev-block-root",
		Usage: "Previous-cycle block root (0x hex), defaults to the header 8 slots back",
	}
	prevStateRootFlag = &cli.StringFlag{
		Name:  "prev-state-root",
		Usage: "Previous-cycle state root (0x hex), defaults to the header 8 slots back",
	}
	electraFlag = &cli.BoolFlag{
		Name:  "electra",
		Usage: "Merkleize with the Electra state shape (pending partial withdrawals)",
	}
	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "REST listen address, overrides the configuration file",
	}

	proofFlags = []cli.Flag{
		configFlag, verbosityFlag, stateFileFlag, slotFlag,
		prevBlockRootFlag, prevStateRootFlag, electraFlag,
	}
)

func main() {
	app := &cli.App{
		Name:  "bera-proofs",
		Usage: "Merkle inclusion proofs for Berachain's beacon state",
		Commands: []*cli.Command{
			{
				Name:      "validator",
				Usage:     "Generate a validator inclusion proof",
				ArgsUsage: "<index or 0x pubkey>",
				Flags:     proofFlags,
				Action:    proofCommand("validator"),
			},
			{
				Name:      "balance",
				Usage:     "Generate a balance inclusion proof",
				ArgsUsage: "<index or 0x pubkey>",
				Flags:     proofFlags,
				Action:    proofCommand("balance"),
			},
			{
				Name:      "combined",
				Usage:     "Generate validator and balance proofs against one state",
				ArgsUsage: "<index or 0x pubkey>",
				Flags:     proofFlags,
				Action:    proofCommand("combined"),
			},
			{
				Name:   "serve",
				Usage:  "Serve the proof API over REST",
				Flags:  []cli.Flag{configFlag, verbosityFlag, listenFlag},
				Action: serveCommand,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(ctx.Int("verbosity")), false)
	log.SetDefault(log.NewLogger(handler))
}

// proofCommand builds the action for one proof kind, shared between the
// local-snapshot and live-node paths.
func proofCommand(kind string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		setupLogging(ctx)
		if ctx.NArg() != 1 {
			return fmt.Errorf("expecting one validator identifier, have %d arguments", ctx.NArg())
		}
		identifier := ctx.Args().First()
		opts := prover.Options{
			PrevBlockRoot: ctx.String(prevBlockRootFlag.Name),
			PrevStateRoot: ctx.String(prevStateRootFlag.Name),
			Electra:       ctx.Bool(electraFlag.Name),
		}
		var (
			result any
			err    error
		)
		if path := ctx.String(stateFileFlag.Name); path != "" {
			result, err = proveLocal(path, identifier, kind, opts)
		} else {
			result, err = proveRemote(ctx, identifier, kind, opts)
		}
		if err != nil {
			return err
		}
		return printJSON(result)
	}
}

// proveLocal runs the prover against a JSON snapshot on disk, no network.
func proveLocal(path, identifier, kind string, opts prover.Options) (any, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	state, err := types.LoadStateJSON(blob)
	if err != nil {
		return nil, err
	}
	index, err := api.ResolveIdentifier(state, identifier)
	if err != nil {
		return nil, err
	}
	log.Info("Generating proof from snapshot", "file", path, "slot", state.Slot, "validator", index)
	switch kind {
	case "validator":
		return prover.GenerateValidatorProof(state, index, opts)
	case "balance":
		return prover.GenerateBalanceProof(state, index, opts)
	default:
		return prover.GenerateCombinedProof(state, index, opts)
	}
}

// proveRemote generates through the service layer against the configured
// beacon node, filling in historical roots from the chain.
func proveRemote(ctx *cli.Context, identifier, kind string, opts prover.Options) (any, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	client := beacon.NewClient(cfg.BeaconURL(), time.Duration(cfg.Beacon.TimeoutSeconds)*time.Second)
	svc := api.NewService(client)
	req := api.ProofRequest{
		Identifier:    identifier,
		Slot:          ctx.String(slotFlag.Name),
		PrevBlockRoot: opts.PrevBlockRoot,
		PrevStateRoot: opts.PrevStateRoot,
		Electra:       opts.Electra,
	}
	switch kind {
	case "validator":
		return svc.ValidatorProof(ctx.Context, req)
	case "balance":
		return svc.BalanceProof(ctx.Context, req)
	default:
		return svc.CombinedProof(ctx.Context, req)
	}
}

func serveCommand(ctx *cli.Context) error {
	setupLogging(ctx)
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	addr := cfg.Server.ListenAddr
	if v := ctx.String(listenFlag.Name); v != "" {
		addr = v
	}
	client := beacon.NewClient(cfg.BeaconURL(), time.Duration(cfg.Beacon.TimeoutSeconds)*time.Second)
	server := api.NewServer(api.NewService(client))
	return server.Listen(addr)
}

func printJSON(v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}
