package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/config"
)

// Exit codes. The distinction between a tool failure and a proof that
// simply did not verify is part of the CLI contract: scripts gate claims
// on it.
const (
	exitOK           = 0
	exitToolError    = 1 // bad file, malformed input, record not found
	exitProofInvalid = 2 // well-formed proof that does not match the root
)

func main() {
	app := &cli.App{
		Name:  "merkle-airdrop-cli",
		Usage: "Build merkle trees over airdrop allocation lists and generate/verify inclusion proofs",
		Description: `A helper for token airdrops committed to on-chain as a merkle root.

This tool can:
- Compute the merkle root of a JSON allocation list of {address, amount} records
- Generate the inclusion proof for one allocation
- Verify a proof against the root recomputed from the list
- Serve root/proof/verify endpoints over HTTP for claim frontends`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address-prefix",
				Usage:   "Expected bech32 prefix of record addresses (empty accepts any)",
				EnvVars: []string{config.EnvAirdropAddressPrefix},
			},
			&cli.StringFlag{
				Name:    "hash-algo",
				Usage:   "Hash algorithm for leaves and tree nodes: sha256 or keccak256",
				Value:   config.HashAlgoSHA256.String(),
				EnvVars: []string{config.EnvAirdropHashAlgo},
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "Directory for the on-disk tree cache (empty disables caching)",
				EnvVars: []string{config.EnvAirdropCacheDir},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvAirdropDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generateRoot",
				Usage: "Compute and print the merkle root of an allocation list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON allocation list",
						Required: true,
						EnvVars:  []string{config.EnvAirdropFile},
					},
				},
				Action: generateRootCommand,
			},
			{
				Name:  "generateProofs",
				Usage: "Print the inclusion proof for one address/amount allocation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON allocation list",
						Required: true,
						EnvVars:  []string{config.EnvAirdropFile},
					},
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Bech32 address of the allocation",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Allocation amount (decimal integer)",
						Required: true,
					},
				},
				Action: generateProofsCommand,
			},
			{
				Name:  "verifyProofs",
				Usage: "Verify a proof against the root recomputed from the allocation list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON allocation list",
						Required: true,
						EnvVars:  []string{config.EnvAirdropFile},
					},
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Bech32 address of the allocation",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Allocation amount (decimal integer)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "proofs",
						Usage:    `Proof as a JSON array of {"hash": <hex>, "position": "left"|"right"}`,
						Required: true,
					},
				},
				Action: verifyProofsCommand,
			},
			{
				Name:  "serve",
				Usage: "Serve root/proof/verify endpoints over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the JSON allocation list",
						Required: true,
						EnvVars:  []string{config.EnvAirdropFile},
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   8080,
						Usage:   "HTTP listen port",
						EnvVars: []string{config.EnvAirdropPort},
					},
				},
				Action: serveCommand,
			},
		},
	}

	// cli.Exit errors carry their own exit codes and are handled inside
	// Run; anything else is a tool error.
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
