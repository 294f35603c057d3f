package models

import (
	"fmt"
	"time"
)

// DeploymentType represents the type of deployment
type DeploymentType string

const (
	SingletonDeployment DeploymentType = "SINGLETON"
	ProxyDeployment     DeploymentType = "PROXY"
)

// Deployment represents a contract deployment record in the registry
type Deployment struct {
	// Core identification
	ID           string         `json:"id"` // e.g., "31337/RealWorldCollectibles"
	Network      string         `json:"network"`
	ChainID      uint64         `json:"chainId"`
	ContractName string         `json:"contractName"`
	Address      string         `json:"address"`
	Type         DeploymentType `json:"type"`
	TxHash       string         `json:"txHash"`
	Deployer     string         `json:"deployer"`

	// Proxy information (null for non-proxy deployments)
	ProxyInfo *ProxyInfo `json:"proxyInfo"`

	CreatedAt time.Time `json:"createdAt"`
}

// ProxyInfo contains proxy-specific information
type ProxyInfo struct {
	Type           string `json:"type"` // e.g., "uups", "transparent", "beacon"
	Implementation string `json:"implementation"`
	Beacon         string `json:"beacon,omitempty"`
	Admin          string `json:"admin,omitempty"`
}

// DeploymentID builds the registry key for a contract on a chain
func DeploymentID(chainID uint64, contractName string) string {
	return fmt.Sprintf("%d/%s", chainID, contractName)
}
