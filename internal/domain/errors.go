package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for deployment operations
var (
	// ErrConfig is the class of every configuration failure. It is always fatal
	// and is raised before any chain I/O happens.
	ErrConfig = errors.New("configuration error")

	// ErrNoSigningKey is returned when a state-changing run has no signing credential
	ErrNoSigningKey = errors.New("no signing key configured")

	// ErrNetworkMismatch is returned when the node reports a different chain ID than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrArtifactNotFound is returned when no compiled artifact matches a contract identifier
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArtifactNotDeployable is returned for artifacts without creation bytecode (interfaces, abstract contracts)
	ErrArtifactNotDeployable = errors.New("artifact has no bytecode")

	// ErrSigning is returned when a transaction cannot be signed or the account cannot pay for it
	ErrSigning = errors.New("signing error")

	// ErrTransaction is returned when the node rejects a transaction
	ErrTransaction = errors.New("transaction error")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = fmt.Errorf("%w: reverted", ErrTransaction)

	// ErrConfirmationTimeout is returned when no receipt is observed before the deadline
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// ErrContractTooLarge is returned when init code exceeds the EIP-3860 limit
	ErrContractTooLarge = errors.New("contract init code too large")

	// ErrInitializerNotFound is returned when the implementation ABI lacks the initializer method
	ErrInitializerNotFound = errors.New("initializer not found")

	// ErrIncompatibleProxy is returned when a proxy or beacon constructor does not take the arguments its kind supplies
	ErrIncompatibleProxy = errors.New("incompatible proxy contract")
)

// ConfigError describes a structurally invalid or missing configuration value.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if e.Key != "" {
		msg = fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "configuration error: " + msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError creates a ConfigError for key
func NewConfigError(key, reason string) *ConfigError {
	return &ConfigError{Key: key, Reason: reason}
}

// FactoryError is returned when a contract factory cannot be produced for an identifier.
type FactoryError struct {
	Identifier  string
	Suggestions []string
	Err         error
}

func (e *FactoryError) Error() string {
	msg := fmt.Sprintf("contract %q: %v", e.Identifier, e.Err)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *FactoryError) Unwrap() error { return e.Err }

// DeploymentFailure records the spec that failed and the stage it failed at.
type DeploymentFailure struct {
	Contract string
	Stage    Stage
	Cause    error
}

func (f *DeploymentFailure) Error() string {
	return fmt.Sprintf("deployment of %s failed at %s: %v", f.Contract, f.Stage, f.Cause)
}

func (f *DeploymentFailure) Unwrap() error { return f.Cause }

// NewDeploymentFailure wraps cause into a DeploymentFailure
func NewDeploymentFailure(contract string, stage Stage, cause error) *DeploymentFailure {
	return &DeploymentFailure{
		Contract: contract,
		Stage:    stage,
		Cause:    cause,
	}
}
