package domain

import (
	"fmt"
	"math/big"
	"strings"
)

// ProxyKind selects the upgradeable proxy topology
type ProxyKind string

const (
	ProxyKindUUPS        ProxyKind = "uups"
	ProxyKindTransparent ProxyKind = "transparent"
	ProxyKindBeacon      ProxyKind = "beacon"
)

// ParseProxyKind parses a proxy kind name, case-insensitively
func ParseProxyKind(s string) (ProxyKind, error) {
	switch kind := ProxyKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case ProxyKindUUPS, ProxyKindTransparent, ProxyKindBeacon:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown proxy kind %q (expected uups, transparent or beacon)", s)
	}
}

// Stage identifies the step of a deployment protocol that failed
type Stage string

const (
	StageFactoryResolution    Stage = "factory-resolution"
	StageImplementationDeploy Stage = "implementation-deploy"
	StageProxyDeploy          Stage = "proxy-deploy"
	StageInitializerCall      Stage = "initializer-call"
	StageConfirmation         Stage = "confirmation"
)

// DeploymentKind describes how a result was deployed
type DeploymentKind string

const (
	DeploymentKindPlain DeploymentKind = "PLAIN"
	DeploymentKindProxy DeploymentKind = "PROXY"
)

// DefaultInitializer is the initializer method invoked through a freshly deployed proxy
const DefaultInitializer = "initialize"

// DeploymentSpec is the static intent for a single contract deployment.
type DeploymentSpec struct {
	Contract string
	Args     []any

	// Proxy is nil for plain deployments
	Proxy *ProxyKind

	// Initializer is the method called through the proxy. Defaults to "initialize".
	Initializer string

	// ProxyArtifact overrides the proxy contract identifier for the chosen kind
	ProxyArtifact string
}

// IsUpgradeable reports whether the spec deploys behind a proxy
func (s DeploymentSpec) IsUpgradeable() bool {
	return s.Proxy != nil
}

// InitializerName returns the configured initializer or the default one
func (s DeploymentSpec) InitializerName() string {
	if s.Initializer == "" {
		return DefaultInitializer
	}
	return s.Initializer
}

// TransactionRecord is a confirmed submission made on behalf of a spec
type TransactionRecord struct {
	Label             string
	Hash              string
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	BlockNumber       uint64
}

// Cost returns gas used times effective gas price, in wei
func (t TransactionRecord) Cost() *big.Int {
	if t.EffectiveGasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(t.GasUsed), t.EffectiveGasPrice)
}

// DeploymentResult is the outcome of a successful spec
type DeploymentResult struct {
	Contract        string
	Address         string
	TransactionHash string
	Kind            DeploymentKind

	// Proxy deployments only
	ProxyKind      ProxyKind
	Implementation string
	Beacon         string
	Admin          string // separately deployed ProxyAdmin, transparent kind only

	Transactions []TransactionRecord
}
