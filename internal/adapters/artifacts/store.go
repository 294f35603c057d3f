package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
)

// Store indexes compiled contract artifacts (Hardhat or Foundry layout) under a directory.
// The directory is walked once, on first use.
type Store struct {
	dir string
	log *slog.Logger

	once     sync.Once
	indexErr error
	byName   map[string][]*models.Artifact // key: contract name
	byFQN    map[string]*models.Artifact   // key: "source:Name"
}

// NewStore creates an artifact store rooted at dir
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		dir: dir,
		log: log,
	}
}

// ProvideStore creates a Store for Wire dependency injection
func ProvideStore(cfg *config.RuntimeConfig, log *slog.Logger) *Store {
	return NewStore(cfg.ArtifactsDir, log)
}

// rawArtifact covers both Hardhat and Foundry artifact files
type rawArtifact struct {
	Format       string          `json:"_format"`
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// Get returns the artifact for identifier, given as "Name" or "path/Source.sol:Name".
// A bare name the project does not define falls back to the bundled proxy contracts.
func (s *Store) Get(ctx context.Context, identifier string) (*models.Artifact, error) {
	if err := s.ensureIndexed(); err != nil {
		if artifact, ok := bundledArtifact(identifier); ok {
			s.log.Debug("using bundled artifact", "contract", identifier, "reason", err)
			return artifact, nil
		}
		return nil, err
	}

	if source, name, ok := strings.Cut(identifier, ":"); ok {
		if artifact, ok := s.byFQN[identifier]; ok {
			return artifact, nil
		}
		// allow the source to be given by file name only
		for _, artifact := range s.byName[name] {
			if filepath.Base(artifact.SourceName) == filepath.Base(source) {
				return artifact, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, identifier)
	}

	candidates := s.byName[identifier]
	switch len(candidates) {
	case 0:
		if artifact, ok := bundledArtifact(identifier); ok {
			s.log.Debug("using bundled artifact", "contract", identifier)
			return artifact, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, identifier)
	case 1:
		return candidates[0], nil
	default:
		fqns := lo.Map(candidates, func(a *models.Artifact, _ int) string { return a.FullyQualifiedName() })
		sort.Strings(fqns)
		return nil, fmt.Errorf("multiple artifacts named %s, use one of: %s", identifier, strings.Join(fqns, ", "))
	}
}

// Names returns every indexed contract name, sorted
func (s *Store) Names(ctx context.Context) []string {
	if err := s.ensureIndexed(); err != nil {
		return nil
	}
	names := lo.Keys(s.byName)
	sort.Strings(names)
	return names
}

func (s *Store) ensureIndexed() error {
	s.once.Do(func() {
		s.indexErr = s.index()
	})
	return s.indexErr
}

func (s *Store) index() error {
	s.byName = make(map[string][]*models.Artifact)
	s.byFQN = make(map[string]*models.Artifact)

	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: artifacts directory %s does not exist (compile the contracts first)", domain.ErrArtifactNotFound, s.dir)
	}

	err = filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		artifact, err := parseArtifact(path)
		if err != nil {
			s.log.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}
		if artifact == nil {
			return nil
		}

		s.byName[artifact.Name] = append(s.byName[artifact.Name], artifact)
		if artifact.SourceName != "" {
			s.byFQN[artifact.FullyQualifiedName()] = artifact
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", s.dir, err)
	}

	s.log.Debug("indexed artifacts", "dir", s.dir, "contracts", len(s.byName))
	return nil
}

// parseArtifact reads one artifact file. Returns nil, nil for JSON files that are not artifacts.
func parseArtifact(path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeArtifact(path, data)
}

func decodeArtifact(path string, data []byte) (*models.Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		return nil, nil
	}

	artifact := &models.Artifact{
		Path: path,
		ABI:  raw.ABI,
	}

	var hexCode string
	if raw.Bytecode[0] == '"' {
		// Hardhat: "bytecode": "0x..."
		if err := json.Unmarshal(raw.Bytecode, &hexCode); err != nil {
			return nil, err
		}
		artifact.Format = models.ArtifactFormatHardhat
		artifact.Name = raw.ContractName
		artifact.SourceName = raw.SourceName
	} else {
		// Foundry: "bytecode": {"object": "0x..."}
		var code foundryBytecode
		if err := json.Unmarshal(raw.Bytecode, &code); err != nil {
			return nil, err
		}
		hexCode = code.Object
		artifact.Format = models.ArtifactFormatFoundry
		artifact.Name = strings.TrimSuffix(filepath.Base(path), ".json")
		artifact.SourceName = foundrySource(raw.Metadata, artifact.Name, path)
	}

	if artifact.Name == "" {
		return nil, fmt.Errorf("artifact has no contract name")
	}

	if hexCode != "" && hexCode != "0x" {
		if !strings.HasPrefix(hexCode, "0x") {
			hexCode = "0x" + hexCode
		}
		code, err := hexutil.Decode(hexCode)
		if err != nil {
			// unlinked library placeholders end up here
			return nil, fmt.Errorf("invalid bytecode for %s: %w", artifact.Name, err)
		}
		artifact.Bytecode = code
	}

	return artifact, nil
}

// foundrySource finds the source file of a Foundry artifact, from its metadata
// when present, otherwise from the "<Source>.sol" directory it lives in
func foundrySource(metadata json.RawMessage, name, path string) string {
	if len(metadata) > 0 && metadata[0] == '{' {
		var meta foundryMetadata
		if err := json.Unmarshal(metadata, &meta); err == nil {
			for source, contract := range meta.Settings.CompilationTarget {
				if contract == name {
					return source
				}
			}
		}
	}
	return filepath.Base(filepath.Dir(path))
}
