package evmasm

import (
	"fmt"
	"io/fs"
)

// Loader assembles NAME.evm listings from a file system, resolving
// .embed sections against the other listings in it
type Loader struct {
	fsys    fs.FS
	done    map[string]*Program
	loading map[string]bool
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:    fsys,
		done:    make(map[string]*Program),
		loading: make(map[string]bool),
	}
}

// Load assembles the listing for contract
func (l *Loader) Load(contract string) (*Program, error) {
	if prog, ok := l.done[contract]; ok {
		return prog, nil
	}
	if l.loading[contract] {
		return nil, fmt.Errorf("%s embeds itself", contract)
	}
	l.loading[contract] = true
	defer delete(l.loading, contract)

	src, err := fs.ReadFile(l.fsys, contract+".evm")
	if err != nil {
		return nil, err
	}

	prog, err := Assemble(string(src), func(embedded string) ([]byte, error) {
		p, err := l.Load(embedded)
		if err != nil {
			return nil, err
		}
		return p.Code, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s.evm: %w", contract, err)
	}

	l.done[contract] = prog
	return prog, nil
}
