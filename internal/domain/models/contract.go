package models

import (
	"encoding/json"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
	// ArtifactFormatBundled marks the proxy contracts shipped with the deployer
	ArtifactFormatBundled ArtifactFormat = "bundled"
)

// Artifact is a compiled contract: its ABI and creation bytecode
type Artifact struct {
	Name       string          `json:"name"`
	SourceName string          `json:"sourceName,omitempty"` // e.g. "contracts/RealWorldCollectibles.sol"
	Path       string          `json:"path"`                 // artifact file on disk
	Format     ArtifactFormat  `json:"format"`
	ABI        json.RawMessage `json:"abi"`
	Bytecode   []byte          `json:"-"`
}

// FullyQualifiedName returns "source:Name" when the source is known
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.Name
	}
	return a.SourceName + ":" + a.Name
}

// Deployable reports whether the artifact carries creation bytecode
func (a *Artifact) Deployable() bool {
	return len(a.Bytecode) > 0
}
