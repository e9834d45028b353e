package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/goplus/recipe/mod/module"
)

var configTmpl = template.Must(template.New("config").Parse(`# Discovery file for {{.Ref}}. Generated, do not edit.
set({{.Prefix}}_VERSION "{{.Version}}")
set({{.Prefix}}_PACKAGE_FOLDER "{{.Folder}}")
{{range .Targets}}
if(NOT TARGET {{.}})
  add_library({{.}} INTERFACE IMPORTED)
{{- if $.Folder}}
  set_target_properties({{.}} PROPERTIES
    INTERFACE_INCLUDE_DIRECTORIES "${ {{- $.Prefix}}_PACKAGE_FOLDER}/include"
    INTERFACE_LINK_DIRECTORIES "${ {{- $.Prefix}}_PACKAGE_FOLDER}/lib")
{{- end}}
endif()
{{end -}}
set({{.Prefix}}_FOUND TRUE)
`))

var versionTmpl = template.Must(template.New("version").Parse(`set(PACKAGE_VERSION "{{.Version}}")
if(PACKAGE_FIND_VERSION VERSION_GREATER PACKAGE_VERSION)
  set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
  set(PACKAGE_VERSION_COMPATIBLE TRUE)
  if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
    set(PACKAGE_VERSION_EXACT TRUE)
  endif()
endif()
`))

type configData struct {
	Ref      string
	Prefix   string
	Version  string
	Folder   string
	FileName string
	Targets  []string
}

// Generate writes <file>-config.cmake and <file>-config-version.cmake for
// every package of a into dir. Output is deterministic: targets are
// rendered sorted by their effective name.
func Generate(a *Annotated, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var files []string
	for _, p := range a.Packages() {
		base, err := module.EscapePath(p.FileName)
		if err != nil || strings.ContainsRune(base, filepath.Separator) {
			return nil, fmt.Errorf("invalid discovery file name %q for %s", p.FileName, p.Node.Ref)
		}
		data := configData{
			Ref:      p.Node.Ref.String(),
			Prefix:   cmakeIdent(p.FileName),
			Version:  p.Node.Ref.Version,
			Folder:   filepath.ToSlash(p.Node.PackageFolder),
			FileName: p.FileName,
		}
		for _, t := range p.Targets {
			data.Targets = append(data.Targets, t.CMakeName)
		}
		sort.Strings(data.Targets)

		config := filepath.Join(dir, base+"-config.cmake")
		if err := render(config, configTmpl, data); err != nil {
			return nil, err
		}
		version := filepath.Join(dir, base+"-config-version.cmake")
		if err := render(version, versionTmpl, data); err != nil {
			return nil, err
		}
		files = append(files, config, version)
	}
	return files, nil
}

func render(path string, tmpl *template.Template, data any) error {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// cmakeIdent maps name to a string usable as a CMake variable prefix.
func cmakeIdent(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, name)
}
