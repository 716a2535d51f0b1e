package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/airdrop"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/config"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/server"
)

func generateRootCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return toolError(err)
	}
	defer env.close()

	tree, err := env.tree()
	if err != nil {
		return toolError(err)
	}

	fmt.Println(merkle.HexDigest(tree.Root))
	return nil
}

func generateProofsCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return toolError(err)
	}
	defer env.close()

	tree, err := env.tree()
	if err != nil {
		return toolError(err)
	}

	leaf, err := env.encoding.EncodeLeaf(c.String("address"), c.String("amount"))
	if err != nil {
		return toolError(err)
	}

	index, ok := tree.FindLeaf(leaf)
	if !ok {
		return toolError(errors.Wrapf(airdrop.ErrNotFound,
			"address %s amount %s", c.String("address"), c.String("amount")))
	}

	proof, err := tree.GenerateProof(index)
	if err != nil {
		return toolError(err)
	}

	steps, err := merkle.MarshalProofSteps(proof.Steps)
	if err != nil {
		return toolError(err)
	}

	fmt.Println(string(steps))
	return nil
}

func verifyProofsCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return toolError(err)
	}
	defer env.close()

	tree, err := env.tree()
	if err != nil {
		return toolError(err)
	}

	leaf, err := env.encoding.EncodeLeaf(c.String("address"), c.String("amount"))
	if err != nil {
		return toolError(err)
	}

	steps, err := merkle.UnmarshalProofSteps([]byte(c.String("proofs")))
	if err != nil {
		return toolError(err)
	}

	valid, err := merkle.VerifyProof(leaf, steps, tree.Root, env.encoding.Hash)
	if err != nil {
		return toolError(err)
	}

	fmt.Println(valid)
	if !valid {
		return cli.Exit("", exitProofInvalid)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return toolError(err)
	}
	defer env.close()

	records, err := airdrop.LoadRecords(env.cfg.File)
	if err != nil {
		return toolError(err)
	}

	tree, err := env.tree()
	if err != nil {
		return toolError(err)
	}

	srv := server.NewServer(server.Config{
		Records:  records,
		Tree:     tree,
		Encoding: env.encoding,
		Port:     env.cfg.Port,
		Logger:   env.log,
	})
	if err := srv.Start(); err != nil {
		return toolError(err)
	}

	fmt.Printf("Proof service for %s listening on port %d\n", env.cfg.File, env.cfg.Port)
	fmt.Printf("Root: %s\n", merkle.HexDigest(tree.Root))
	fmt.Println("Press Ctrl+C to stop")

	select {}
}

// toolError maps any failure other than verified-false to exit code 1.
func toolError(err error) error {
	return cli.Exit(err.Error(), exitToolError)
}

// parseConfig builds the run configuration from flags and environment.
func parseConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		File:          c.String("file"),
		AddressPrefix: c.String("address-prefix"),
		HashAlgo:      config.HashAlgo(c.String("hash-algo")),
		CacheDir:      c.String("cache-dir"),
		Port:          c.Int("port"),
		Debug:         c.Bool("debug"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration error")
	}
	return cfg, nil
}
