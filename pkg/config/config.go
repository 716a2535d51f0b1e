package config

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/airdrop-tools/merkle-airdrop-cli/pkg/merkle"
)

// Environment variable names for merkle-airdrop-cli configuration.
// Every env var is mirrored by a CLI flag of the same meaning.
const (
	EnvAirdropFile          = "AIRDROP_FILE"
	EnvAirdropAddressPrefix = "AIRDROP_ADDRESS_PREFIX"
	EnvAirdropHashAlgo      = "AIRDROP_HASH_ALGO"
	EnvAirdropCacheDir      = "AIRDROP_CACHE_DIR"
	EnvAirdropPort          = "AIRDROP_PORT"
	EnvAirdropDebug         = "AIRDROP_DEBUG"
)

// HashAlgo selects the digest function used for leaves and node pairs.
type HashAlgo string

func (h HashAlgo) String() string {
	return string(h)
}

const (
	// HashAlgoSHA256 is the canonical default, matching the claim contract.
	HashAlgoSHA256 HashAlgo = "sha256"
	// HashAlgoKeccak256 targets EVM-style allocation lists.
	HashAlgoKeccak256 HashAlgo = "keccak256"
)

// Func resolves the algorithm name to the core hash function.
func (h HashAlgo) Func() (merkle.HashFn, error) {
	switch h {
	case HashAlgoSHA256, "":
		return merkle.SHA256, nil
	case HashAlgoKeccak256:
		return merkle.Keccak256, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s (supported: %s, %s)", h, HashAlgoSHA256, HashAlgoKeccak256)
	}
}

// Config is the complete configuration for one CLI invocation or one
// proof-service instance.
type Config struct {
	// File is the path to the JSON allocation list.
	File string `json:"file"`

	// AddressPrefix, when non-empty, pins the expected bech32 prefix of
	// every record address (e.g. "wasm"). Empty accepts any prefix.
	AddressPrefix string `json:"address_prefix"`

	// HashAlgo names the digest function for leaves and pairs.
	HashAlgo HashAlgo `json:"hash_algo"`

	// CacheDir, when non-empty, enables the on-disk snapshot cache.
	CacheDir string `json:"cache_dir,omitempty"`

	// Port is the proof service listen port (serve command only).
	Port int `json:"port,omitempty"`

	Debug bool `json:"debug"`
}

// Validate checks the configuration, aggregating every problem found.
func (c *Config) Validate() error {
	var allErrors field.ErrorList

	if c.File == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("file"), "allocation file path is required"))
	}
	if _, err := c.HashAlgo.Func(); err != nil {
		allErrors = append(allErrors, field.Invalid(field.NewPath("hashAlgo"), c.HashAlgo.String(), err.Error()))
	}
	if c.Port != 0 && (c.Port < 1 || c.Port > 65535) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "port must be between 1-65535"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
