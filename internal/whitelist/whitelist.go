// Package whitelist describes which OpenCV classes and functions are exposed
// through the generated OpenCV.js bindings.
//
// A whitelist maps a module name (e.g. "imgproc") to its classes, and each
// class to the ordered list of members to expose. The empty class name holds
// the free functions of a module.
package whitelist

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
)

// FreeFunctions is the class key that holds module level functions
const FreeFunctions = ""

var (
	ErrDuplicateModule = errors.New("duplicate module")
	ErrDuplicateMember = errors.New("duplicate member")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidName     = errors.New("invalid name")
)

// Classes maps a class name (or FreeFunctions) to the members to expose
type Classes map[string][]string

// WhiteList maps a module name to its classes
type WhiteList map[string]Classes

// Group is a single module and its classes, the unit MakeWhiteList merges
type Group struct {
	Module  string
	Classes Classes
}

// Entry is one (module, class) pair with its members
type Entry struct {
	Module  string
	Class   string
	Members []string
}

// NewGroup creates a module group. The classes are copied, so later changes
// to the argument do not leak into the group.
func NewGroup(module string, classes Classes) Group {
	return Group{
		Module:  module,
		Classes: classes.clone(),
	}
}

// MakeWhiteList merges module groups into a single whitelist.
// A module that appears in more than one group is rejected.
func MakeWhiteList(groups ...Group) (WhiteList, error) {
	wl := make(WhiteList, len(groups))
	for _, g := range groups {
		if _, exists := wl[g.Module]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateModule, g.Module)
		}
		wl[g.Module] = g.Classes.clone()
	}
	if err := wl.Validate(); err != nil {
		return nil, err
	}
	return wl, nil
}

// Combine merges already built whitelists. The result does not depend on
// argument order, and Combine(MakeWhiteList(a), MakeWhiteList(b)) equals
// MakeWhiteList(a, b).
func Combine(lists ...WhiteList) (WhiteList, error) {
	var groups []Group
	for _, wl := range lists {
		for _, module := range wl.Modules() {
			groups = append(groups, Group{Module: module, Classes: wl[module]})
		}
	}
	return MakeWhiteList(groups...)
}

// Groups splits the whitelist back into module groups, sorted by module
func (wl WhiteList) Groups() []Group {
	groups := make([]Group, 0, len(wl))
	for _, module := range wl.Modules() {
		groups = append(groups, NewGroup(module, wl[module]))
	}
	return groups
}

// Validate reports every malformed name or duplicate member in the whitelist
func (wl WhiteList) Validate() error {
	var errs []error
	for _, module := range wl.Modules() {
		if err := checkName(module); err != nil {
			errs = append(errs, fmt.Errorf("module %q: %w", module, err))
			continue
		}
		for _, class := range wl[module].Names() {
			if class != FreeFunctions {
				if err := checkName(class); err != nil {
					errs = append(errs, fmt.Errorf("%s: class %q: %w", module, class, err))
					continue
				}
			}
			seen := make(map[string]bool)
			for _, member := range wl[module][class] {
				if err := checkName(member); err != nil {
					errs = append(errs, fmt.Errorf("%s: member %q: %w", qualify(module, class), member, err))
					continue
				}
				if seen[member] {
					errs = append(errs, fmt.Errorf("%w: %s.%s", ErrDuplicateMember, qualify(module, class), member))
					continue
				}
				seen[member] = true
			}
		}
	}
	return errors.Join(errs...)
}

// Modules returns the module names in sorted order
func (wl WhiteList) Modules() []string {
	modules := make([]string, 0, len(wl))
	for module := range wl {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// Entries flattens the whitelist into (module, class) entries sorted by
// module and then class. Free functions sort first within a module.
func (wl WhiteList) Entries() []Entry {
	var entries []Entry
	for _, module := range wl.Modules() {
		for _, class := range wl[module].Names() {
			entries = append(entries, Entry{
				Module:  module,
				Class:   class,
				Members: append([]string(nil), wl[module][class]...),
			})
		}
	}
	return entries
}

// Contains reports whether member is exposed for the given module and class
func (wl WhiteList) Contains(module, class, member string) bool {
	for _, m := range wl[module][class] {
		if m == member {
			return true
		}
	}
	return false
}

// Len returns the total number of exposed members
func (wl WhiteList) Len() int {
	n := 0
	for _, classes := range wl {
		for _, members := range classes {
			n += len(members)
		}
	}
	return n
}

// Clone returns a deep copy of the whitelist
func (wl WhiteList) Clone() WhiteList {
	if wl == nil {
		return nil
	}
	out := make(WhiteList, len(wl))
	for module, classes := range wl {
		out[module] = classes.clone()
	}
	return out
}

// Equal reports whether both whitelists expose the same members in the same order
func (wl WhiteList) Equal(other WhiteList) bool {
	if len(wl) != len(other) {
		return false
	}
	for module, classes := range wl {
		otherClasses, ok := other[module]
		if !ok || len(classes) != len(otherClasses) {
			return false
		}
		for class, members := range classes {
			otherMembers, ok := otherClasses[class]
			if !ok || len(members) != len(otherMembers) {
				return false
			}
			for i := range members {
				if members[i] != otherMembers[i] {
					return false
				}
			}
		}
	}
	return true
}

// Flatten returns the class keyed shape produced by the OpenCV build
// helper: members of equally named classes are concatenated across modules
// in module order, so free functions of all modules end up under "".
func (wl WhiteList) Flatten() map[string][]string {
	flat := make(map[string][]string)
	for _, module := range wl.Modules() {
		for _, class := range wl[module].Names() {
			flat[class] = append(flat[class], wl[module][class]...)
		}
	}
	return flat
}

// Names returns the class names in sorted order
func (c Classes) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Classes) clone() Classes {
	if c == nil {
		return Classes{}
	}
	out := make(Classes, len(c))
	for class, members := range c {
		out[class] = append([]string{}, members...)
	}
	return out
}

func qualify(module, class string) string {
	if class == FreeFunctions {
		return module
	}
	return module + "." + class
}

// checkName accepts C++ style identifiers
func checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return ErrInvalidName
	}
	return nil
}
