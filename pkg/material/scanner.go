// Package material discovers PBR material sets in an input directory and
// loads their texture maps.
//
// Files follow the convention <material><role-suffix>.<ext>, for example
// brick_color.png, brick_normal.png and brick_roughness.png.
package material

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoMaterials is returned when a directory holds no recognizable maps.
var ErrNoMaterials = errors.New("no materials found")

// Role identifies which PBR map a file provides.
type Role int

const (
	RoleColor Role = iota
	RoleOcclusion
	RoleNormal
	RoleMetallic
	RoleRoughness
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleColor, RoleOcclusion, RoleNormal, RoleMetallic, RoleRoughness}

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleColor:
		return "Color"
	case RoleOcclusion:
		return "Occlusion"
	case RoleNormal:
		return "Normal"
	case RoleMetallic:
		return "Metallic"
	case RoleRoughness:
		return "Roughness"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Naming describes the file naming scheme of an input directory.
type Naming struct {
	Extension string // without the leading dot
	Suffixes  map[Role]string
}

// ext returns the extension with a leading dot.
func (n Naming) ext() string {
	return "." + strings.TrimPrefix(n.Extension, ".")
}

// Suffix returns the configured suffix for role, empty when the role is unused.
func (n Naming) Suffix(r Role) string {
	return n.Suffixes[r]
}

// FileName returns the expected file name of a role map.
func (n Naming) FileName(name string, r Role) string {
	return name + n.Suffix(r) + n.ext()
}

// Discover scans dir (non-recursively) and returns the sorted material names.
// Files with a different extension or without a known role suffix are ignored.
func Discover(dir string, naming Naming) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	suffixes := make([]string, 0, len(naming.Suffixes))
	for _, s := range naming.Suffixes {
		if s != "" {
			suffixes = append(suffixes, s)
		}
	}
	// Longest first, so "_roughness_alt" wins over "_alt".
	sort.Slice(suffixes, func(i, j int) bool {
		if len(suffixes[i]) != len(suffixes[j]) {
			return len(suffixes[i]) > len(suffixes[j])
		}
		return suffixes[i] < suffixes[j]
	})

	ext := naming.ext()
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		if !strings.EqualFold(filepath.Ext(file), ext) {
			continue
		}
		stem := file[:len(file)-len(ext)]
		for _, s := range suffixes {
			if strings.HasSuffix(stem, s) && len(stem) > len(s) {
				seen[strings.TrimSuffix(stem, s)] = struct{}{}
				break
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMaterials, dir)
	}
	return names, nil
}

// Files maps each present role to the path of its map.
type Files map[Role]string

// Locate resolves the map files of one material. Roles without a configured
// suffix or without a matching file are absent from the result. The extension
// matches without regard to case, as in Discover; an exact match wins.
func Locate(dir, name string, naming Naming) (Files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	ext := naming.ext()
	files := make(Files)
	for _, r := range Roles {
		if naming.Suffix(r) == "" {
			continue
		}
		want := naming.FileName(name, r)
		stem := name + naming.Suffix(r)
		for _, entry := range entries {
			file := entry.Name()
			if entry.IsDir() || len(file) != len(want) || file[:len(stem)] != stem {
				continue
			}
			if !strings.EqualFold(file[len(stem):], ext) {
				continue
			}
			files[r] = filepath.Join(dir, file)
			if file == want {
				break
			}
		}
	}
	return files, nil
}
