// Package config implements the compiler core's on-disk configuration:
// the set of directories modloader consults when resolving an import
// path, persisted as YAML so a project can commit it alongside its
// sources.
//
// Grounded on the teacher's internal/module/loader.go search-path
// handling (getDefaultSearchPaths/getStdlibPath, AILANG_PATH /
// AILANG_STDLIB environment overrides), generalized into a declarative,
// file-backed form using gopkg.in/yaml.v3 the way the rest of the
// retrieved example repos persist project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SearchPaths is the resolved set of directories the module loader and
// foreign importer consult, in priority order within each category.
type SearchPaths struct {
	// SDKPath is the root of the installed SDK (runtime headers, prebuilt
	// standard-library modules).
	SDKPath string `yaml:"sdk_path,omitempty"`
	// Import is the ordered list of directories searched for a plain
	// module import.
	Import []string `yaml:"import,omitempty"`
	// Framework is the ordered list of directories searched for a
	// framework-style (foreign) import.
	Framework []string `yaml:"framework,omitempty"`
	// RuntimeResource is the directory holding the runtime's resource
	// files (ABI descriptors, prebuilt witness tables).
	RuntimeResource string `yaml:"runtime_resource_path,omitempty"`
	// RuntimeLibrary is the directory holding the runtime's linkable
	// libraries.
	RuntimeLibrary string `yaml:"runtime_library_path,omitempty"`
	// ModuleImport is an additional path list searched only for
	// precompiled module-interface files, consulted after Import.
	ModuleImport []string `yaml:"module_import_path,omitempty"`
}

// envOverride holds the environment variable names this package
// consults, kept as fields so tests can substitute a fake environment
// without mutating the process's.
type envOverride struct {
	pathVar   string // colon/semicolon-separated extra import directories
	sdkVar    string
	lookupEnv func(string) (string, bool)
}

func defaultEnvOverride() envOverride {
	return envOverride{pathVar: "COREC_PATH", sdkVar: "COREC_SDK", lookupEnv: os.LookupEnv}
}

// Default returns the built-in search path set: the current directory,
// any COREC_PATH entries, and a user-home modules directory, mirroring
// the teacher's getDefaultSearchPaths/getStdlibPath fallback chain.
func Default() *SearchPaths {
	return defaultWithEnv(defaultEnvOverride())
}

func defaultWithEnv(env envOverride) *SearchPaths {
	imports := []string{"."}
	if v, ok := env.lookupEnv(env.pathVar); ok && v != "" {
		imports = append(imports, strings.Split(v, string(os.PathListSeparator))...)
	}
	if home, err := os.UserHomeDir(); err == nil {
		imports = append(imports, filepath.Join(home, ".corec", "modules"))
	}

	sdk := ""
	if v, ok := env.lookupEnv(env.sdkVar); ok {
		sdk = v
	}

	return &SearchPaths{
		SDKPath: sdk,
		Import:  imports,
	}
}

// Load reads a SearchPaths document from path.
func Load(path string) (*SearchPaths, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var sp SearchPaths
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &sp, nil
}

// Save writes sp to path as YAML.
func Save(path string, sp *SearchPaths) error {
	data, err := yaml.Marshal(sp)
	if err != nil {
		return fmt.Errorf("config: marshal search paths: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Merge returns a new SearchPaths with override's non-empty fields taking
// precedence over base's, and slice fields concatenated (override first,
// so an override entry shadows a base entry of the same name when a
// caller searches in order).
func Merge(base, override *SearchPaths) *SearchPaths {
	merged := *base
	if override.SDKPath != "" {
		merged.SDKPath = override.SDKPath
	}
	if override.RuntimeResource != "" {
		merged.RuntimeResource = override.RuntimeResource
	}
	if override.RuntimeLibrary != "" {
		merged.RuntimeLibrary = override.RuntimeLibrary
	}
	merged.Import = append(append([]string{}, override.Import...), base.Import...)
	merged.Framework = append(append([]string{}, override.Framework...), base.Framework...)
	merged.ModuleImport = append(append([]string{}, override.ModuleImport...), base.ModuleImport...)
	return &merged
}

// ResolveImport searches Import then ModuleImport for a file named
// name+ext, returning the first absolute path that exists.
func (sp *SearchPaths) ResolveImport(name, ext string) (string, bool) {
	return resolveIn(append(append([]string{}, sp.Import...), sp.ModuleImport...), name, ext)
}

// ResolveFramework searches Framework for a file named name+ext.
func (sp *SearchPaths) ResolveFramework(name, ext string) (string, bool) {
	return resolveIn(sp.Framework, name, ext)
}

func resolveIn(dirs []string, name, ext string) (string, bool) {
	filename := name
	if ext != "" && !strings.HasSuffix(filename, ext) {
		filename += ext
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, true
			}
			return abs, true
		}
	}
	return "", false
}
