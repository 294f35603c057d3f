package artifacts

//go:generate go run ./bundled/gen.go

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
)

// The proxy contracts a deployment needs when the project does not compile its own.
// Bytecode is assembled from the .evm listings next to each artifact.
//
//go:embed bundled/*.json
var bundledFS embed.FS

var (
	bundledOnce sync.Once
	bundled     map[string]*models.Artifact
)

// bundledArtifact returns the shipped artifact for a bare contract name
func bundledArtifact(name string) (*models.Artifact, bool) {
	bundledOnce.Do(func() {
		bundled = mustLoadBundled(bundledFS)
	})
	artifact, ok := bundled[name]
	if !ok {
		return nil, false
	}
	clone := *artifact
	return &clone, true
}

func mustLoadBundled(fsys fs.FS) map[string]*models.Artifact {
	paths, err := fs.Glob(fsys, "bundled/*.json")
	if err != nil {
		panic(err)
	}

	out := make(map[string]*models.Artifact, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			panic(err)
		}
		artifact, err := decodeArtifact(path, data)
		if err != nil || artifact == nil {
			panic(fmt.Sprintf("invalid bundled artifact %s: %v", path, err))
		}
		artifact.Format = models.ArtifactFormatBundled
		out[artifact.Name] = artifact
	}
	return out
}
