package usecase

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
)

// ContractFactory is a compiled contract bound to the signer that will deploy it
type ContractFactory struct {
	Identifier string
	Artifact   *models.Artifact
	ABI        *abi.ABI
	Signer     Signer

	encoder ABIEncoder
}

// NewContractFactory binds artifact to signer
func NewContractFactory(identifier string, artifact *models.Artifact, contractABI *abi.ABI, signer Signer, encoder ABIEncoder) *ContractFactory {
	return &ContractFactory{
		Identifier: identifier,
		Artifact:   artifact,
		ABI:        contractABI,
		Signer:     signer,
		encoder:    encoder,
	}
}

// DeployData returns the creation bytecode followed by the encoded constructor arguments
func (f *ContractFactory) DeployData(args []any) ([]byte, error) {
	return f.encoder.EncodeConstructor(f.ABI, f.Artifact.Bytecode, args)
}

// CallData encodes a call to method against the contract ABI
func (f *ContractFactory) CallData(method string, args []any) ([]byte, error) {
	if _, ok := f.ABI.Methods[method]; !ok {
		return nil, fmt.Errorf("%w: %s has no method %q", domain.ErrInitializerNotFound, f.Identifier, method)
	}
	return f.encoder.EncodeCall(f.ABI, method, args)
}

// Name returns the artifact's contract name
func (f *ContractFactory) Name() string {
	if f.Artifact != nil && f.Artifact.Name != "" {
		return f.Artifact.Name
	}
	return f.Identifier
}

// ConstructorSignature returns the constructor input types, e.g. "(address,bytes)"
func (f *ContractFactory) ConstructorSignature() string {
	types := make([]string, len(f.ABI.Constructor.Inputs))
	for i, in := range f.ABI.Constructor.Inputs {
		types[i] = in.Type.String()
	}
	return "(" + strings.Join(types, ",") + ")"
}
