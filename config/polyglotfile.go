// Package config — .polyglot.yaml project file support.
//
// A .polyglot.yaml next to the dataset pins per-project defaults so the
// command line only has to name the dataset path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project configuration file name.
const ProjectFileName = ".polyglot.yaml"

// ProjectFile is the .polyglot.yaml schema.
type ProjectFile struct {
	// OutputDir is the artifact output directory.
	OutputDir string `yaml:"output_dir,omitempty"`
	// Platforms is the default platform selection.
	Platforms []string `yaml:"platforms,omitempty"`
	// MasterDir enables master-override mode.
	MasterDir string `yaml:"master_dir,omitempty"`
	// EnableComments forwards CSV comments into the artifacts.
	EnableComments bool `yaml:"enable_comments,omitempty"`
	// BlackberryPackage is the Java package for .rrh headers.
	BlackberryPackage string `yaml:"blackberry_package,omitempty"`
	// MaxConcurrent bounds the per-locale worker pool.
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// LoadProjectFile reads .polyglot.yaml from dir. Returns nil without
// error when the file does not exist.
func LoadProjectFile(dir string) (*ProjectFile, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pf, nil
}

// Apply overlays the project file onto the settings. Empty fields leave
// the current value alone.
func (s *Settings) Apply(pf *ProjectFile) {
	if pf == nil {
		return
	}
	if pf.OutputDir != "" {
		s.OutputDir = pf.OutputDir
	}
	if len(pf.Platforms) > 0 {
		s.Platforms = append([]string(nil), pf.Platforms...)
	}
	if pf.MasterDir != "" {
		s.MasterDir = pf.MasterDir
	}
	if pf.EnableComments {
		s.EnableComments = true
	}
	if pf.BlackberryPackage != "" {
		s.BlackberryPackage = pf.BlackberryPackage
	}
	if pf.MaxConcurrent > 0 {
		s.MaxConcurrent = pf.MaxConcurrent
	}
}
