package recipe

import (
	"io"
	"io/fs"
	"os"
)

// -----------------------------------------------------------------------------

// Project represents the source tree a recipe configures.
type Project struct {
	Dir   string // root directory on disk, empty for in-memory projects
	DirFS fs.FS
}

// NewProject returns a Project rooted at dir.
func NewProject(dir string) *Project {
	return &Project{Dir: dir, DirFS: os.DirFS(dir)}
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(path string) ([]byte, error) {
	file, err := p.DirFS.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// -----------------------------------------------------------------------------
