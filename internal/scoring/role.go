// Package scoring holds the role-aware scorers that consume a segmented
// résumé: ATS keyword match, section quality, resume strength, job
// description match and role prediction.
package scoring

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

type rolesFile struct {
	DefaultRole string `yaml:"default_role"`
	Aliases     []struct {
		Alias string `yaml:"alias"`
		Role  string `yaml:"role"`
	} `yaml:"aliases"`
	Skills []struct {
		Role     string   `yaml:"role"`
		Required []string `yaml:"required"`
	} `yaml:"skills"`
	DefaultSkills []string `yaml:"default_skills"`
}

type roleAlias struct {
	alias string
	role  string
}

type roleSkills struct {
	role     string
	required []string
}

// RoleTable maps role-name variants to canonical roles and canonical roles
// to their required skills. It is immutable once loaded.
type RoleTable struct {
	defaultRole   string
	aliases       []roleAlias
	aliasIndex    map[string]string
	skills        []roleSkills
	defaultSkills []string
}

// LoadRoles parses a YAML role table
func LoadRoles(data []byte) (*RoleTable, error) {
	var file rolesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing role table: %w", err)
	}
	if file.DefaultRole == "" {
		return nil, fmt.Errorf("role table has no default role")
	}
	if len(file.DefaultSkills) == 0 {
		return nil, fmt.Errorf("role table has no default skills")
	}

	t := &RoleTable{
		defaultRole:   file.DefaultRole,
		aliasIndex:    make(map[string]string, len(file.Aliases)),
		defaultSkills: lowerAll(file.DefaultSkills),
	}
	for _, a := range file.Aliases {
		key := strings.ToLower(strings.TrimSpace(a.Alias))
		if key == "" || a.Role == "" {
			continue
		}
		t.aliases = append(t.aliases, roleAlias{alias: key, role: a.Role})
		if _, ok := t.aliasIndex[key]; !ok {
			t.aliasIndex[key] = a.Role
		}
	}
	for _, s := range file.Skills {
		t.skills = append(t.skills, roleSkills{role: s.Role, required: lowerAll(s.Required)})
	}
	return t, nil
}

var defaultRoleTable = sync.OnceValue(func() *RoleTable {
	t, err := LoadRoles(defaultRoles)
	if err != nil {
		panic(fmt.Sprintf("embedded role table: %v", err))
	}
	return t
})

// DefaultRoles returns the process-wide role table built from the embedded data
func DefaultRoles() *RoleTable {
	return defaultRoleTable()
}

// seniorityPrefixes are dropped from the front of a role before lookup
var seniorityPrefixes = map[string]bool{
	"senior": true, "junior": true, "sr": true, "jr": true, "sr.": true, "jr.": true,
}

// NormalizeRole folds a free-text role onto a canonical role name. Lookup
// order: exact alias, alias without spaces, alias without '-', '_' or '.',
// then partial containment in either direction. Unknown roles are
// title-cased; an empty role is the default role.
func (t *RoleTable) NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return t.defaultRole
	}

	words := strings.Fields(strings.ToLower(role))
	for len(words) > 1 && seniorityPrefixes[words[0]] {
		words = words[1:]
	}
	normalized := strings.Join(words, " ")

	if r, ok := t.aliasIndex[normalized]; ok {
		return r
	}
	if r, ok := t.aliasIndex[strings.ReplaceAll(normalized, " ", "")]; ok {
		return r
	}
	for _, sep := range []string{"-", "_", "."} {
		if r, ok := t.aliasIndex[strings.ReplaceAll(normalized, sep, "")]; ok {
			return r
		}
	}

	for _, a := range t.aliases {
		if strings.Contains(normalized, a.alias) {
			return a.role
		}
		if len(normalized) >= 3 && strings.Contains(a.alias, normalized) {
			return a.role
		}
	}

	// Casers carry state and are not shared between goroutines
	return cases.Title(language.English).String(role)
}

// RequiredSkills returns the skills expected for a canonical role and the
// role whose table supplied them. Roles without a table fall back to the
// first role that contains or is contained in the name, then to the default
// set (reported as "").
func (t *RoleTable) RequiredSkills(role string) ([]string, string) {
	for _, s := range t.skills {
		if s.role == role {
			return clone(s.required), s.role
		}
	}

	lower := strings.ToLower(role)
	if lower != "" {
		for _, s := range t.skills {
			r := strings.ToLower(s.role)
			if strings.Contains(r, lower) || strings.Contains(lower, r) {
				return clone(s.required), s.role
			}
		}
	}

	return clone(t.defaultSkills), ""
}

// Roles lists the canonical roles that have a skill table, in table order
func (t *RoleTable) Roles() []string {
	out := make([]string, 0, len(t.skills))
	for _, s := range t.skills {
		out = append(out, s.role)
	}
	return out
}

// NormalizeRole folds a role using the default role table
func NormalizeRole(role string) string {
	return DefaultRoles().NormalizeRole(role)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}
