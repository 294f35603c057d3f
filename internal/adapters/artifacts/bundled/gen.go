//go:build ignore

// Rewrites the bytecode of every bundled artifact from its listing.
// Run through go generate in the artifacts package.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/artifacts/evmasm"
)

type hardhatArtifact struct {
	Format                 string          `json:"_format"`
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               string          `json:"bytecode"`
	DeployedBytecode       string          `json:"deployedBytecode"`
	LinkReferences         json.RawMessage `json:"linkReferences"`
	DeployedLinkReferences json.RawMessage `json:"deployedLinkReferences"`
}

func main() {
	if err := run("bundled"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir string) error {
	listings, err := filepath.Glob(filepath.Join(dir, "*.evm"))
	if err != nil {
		return err
	}

	loader := evmasm.NewLoader(os.DirFS(dir))
	for _, listing := range listings {
		name := strings.TrimSuffix(filepath.Base(listing), ".evm")
		prog, err := loader.Load(name)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, name+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s has no artifact to update: %w", listing, err)
		}
		var artifact hardhatArtifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		artifact.Bytecode = hexutil.Encode(prog.Code)
		artifact.DeployedBytecode = hexutil.Encode(prog.Section("runtime"))

		out, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
			return err
		}
		fmt.Printf("%s: %d bytes\n", name, len(prog.Code))
	}
	return nil
}
