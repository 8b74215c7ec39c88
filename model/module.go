package model

import "sort"

// Module is a named container of members and nested child modules. The
// root module of a Package carries the package's own name.
type Module struct {
	Name    string
	Modules map[string]*Module
	Members map[string]Member
}

// NewModule constructs an empty Module with the given name.
func NewModule(name string) *Module {
	return &Module{
		Name:    name,
		Modules: make(map[string]*Module),
		Members: make(map[string]Member),
	}
}

// AddModule inserts (or replaces) a child module by name and returns
// it, for chained construction in tests and CLI handlers.
func (m *Module) AddModule(child *Module) *Module {
	if m.Modules == nil {
		m.Modules = make(map[string]*Module)
	}
	m.Modules[child.Name] = child
	return child
}

// AddMember inserts (or replaces) a member by name.
func (m *Module) AddMember(name string, member Member) {
	if m.Members == nil {
		m.Members = make(map[string]Member)
	}
	m.Members[name] = member
}

// SortedModuleNames returns child module names in lexicographic order,
// the iteration order of Validate's depth-first walk.
func (m *Module) SortedModuleNames() []string {
	names := make([]string, 0, len(m.Modules))
	for n := range m.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedMemberNames returns member names in lexicographic order.
func (m *Module) SortedMemberNames() []string {
	names := make([]string, 0, len(m.Members))
	for n := range m.Members {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// clone performs a deep structural copy of the module tree. Types and
// Members are immutable value/interface types built from immutable
// pieces, so copying the containers (maps, slices) that hold them is
// sufficient to guarantee no shared mutable substructure with the
// original.
func (m *Module) clone() *Module {
	if m == nil {
		return nil
	}
	out := &Module{
		Name:    m.Name,
		Modules: make(map[string]*Module, len(m.Modules)),
		Members: make(map[string]Member, len(m.Members)),
	}
	for name, child := range m.Modules {
		out.Modules[name] = child.clone()
	}
	for name, member := range m.Members {
		out.Members[name] = cloneMember(member)
	}
	return out
}

func cloneMember(m Member) Member {
	switch v := m.(type) {
	case Func:
		params := make([]Param, len(v.Params))
		copy(params, v.Params)
		return Func{Params: params, Return: v.Return}
	case Struct:
		fields := make(map[string]Type, len(v.Fields))
		for k, t := range v.Fields {
			fields[k] = t
		}
		order := make([]string, len(v.FieldOrder))
		copy(order, v.FieldOrder)
		return Struct{Fields: fields, FieldOrder: order}
	case Enum:
		variants := make(map[string]Type, len(v.Variants))
		for k, t := range v.Variants {
			variants[k] = t
		}
		order := make([]string, len(v.VariantOrder))
		copy(order, v.VariantOrder)
		return Enum{Variants: variants, VariantOrder: order}
	default:
		return m
	}
}
