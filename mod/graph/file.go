package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goplus/recipe/mod/module"
	"gopkg.in/yaml.v3"
)

// nodeFile is the on-disk form of a Node.
type nodeFile struct {
	Ref           string            `yaml:"ref" json:"ref"`
	PackageFolder string            `yaml:"package_folder" json:"package_folder"`
	BuildEnv      map[string]string `yaml:"buildenv" json:"buildenv"`
	Targets       []string          `yaml:"targets" json:"targets"`
	CMakeFileName string            `yaml:"cmake_file_name" json:"cmake_file_name"`
}

// File is the graph snapshot written by the dependency resolution subsystem.
// YAML and JSON are both accepted.
type File struct {
	Nodes []nodeFile `yaml:"nodes" json:"nodes"`
}

// Parse reads and parses a graph file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
func Parse(file string, data []byte) (*Graph, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var gf File
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&gf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse dependency graph: %w", err)
	}

	nodes := make([]Node, 0, len(gf.Nodes))
	for i, nf := range gf.Nodes {
		ref, err := module.Parse(nf.Ref)
		if err != nil {
			return nil, fmt.Errorf("dependency graph node %d: %w", i, err)
		}
		nodes = append(nodes, Node{
			Ref:           ref,
			PackageFolder: nf.PackageFolder,
			BuildEnv:      nf.BuildEnv,
			Targets:       nf.Targets,
			CMakeFileName: nf.CMakeFileName,
		})
	}
	return New(nodes...)
}
