package formatter

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stub file names. A file with the same name in a custom stub directory
// replaces the built-in one.
const (
	ModelStub            = "model.stub"
	CreateMigrationStub  = "migration.create.stub"
	AddMigrationStub     = "migration.add.stub"
	ForeignMigrationStub = "migration.foreign.stub"
)

//go:embed stubs/*.stub
var builtinStubs embed.FS

// Stubs holds the templates artifacts are rendered from.
// Placeholders are written {{name}}.
type Stubs struct {
	files map[string]string
}

// LoadStubs reads the built-in stubs and overrides them with any found in dir.
// An empty dir uses the built-in stubs only.
func LoadStubs(dir string) (*Stubs, error) {
	s := &Stubs{files: make(map[string]string)}

	for _, name := range []string{ModelStub, CreateMigrationStub, AddMigrationStub, ForeignMigrationStub} {
		content, err := builtinStubs.ReadFile("stubs/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in stub %s: %w", name, err)
		}

		if dir != "" {
			custom, err := os.ReadFile(filepath.Join(dir, name))
			switch {
			case err == nil:
				content = custom
			case !errors.Is(err, fs.ErrNotExist):
				return nil, fmt.Errorf("failed to read stub %s: %w", name, err)
			}
		}

		s.files[name] = string(content)
	}
	return s, nil
}

// Fill replaces the placeholders of a stub. Pairs are name, value.
func (s *Stubs) Fill(stub string, pairs ...string) string {
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{{"+pairs[i]+"}}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(s.files[stub])
}
