package model

import (
	"encoding/json"
	"sort"

	"github.com/gregorybchris/myxa/version"
	"github.com/pkg/errors"
)

// The JSON encodings below use a raw-struct-plus-translation idiom
// (rawManifest/toProps-style): a small unexported DTO mirrors the wire
// shape exactly, and MarshalJSON/UnmarshalJSON translate between it
// and the real recursive ADT.
//
// Two fields ride alongside the obvious name/version/deps shape: a
// "requirements" field alongside "deps", since the resolver needs a
// published package's own unlocked requirements to extend its work
// list; and a "uses" field recording which absolute member paths this
// package's code references per dependency, since Ref alone can't
// express Func usage (Ref only targets Struct/Enum) and the
// resolver's used-members tracking needs Func usage too.

type typeDTO struct {
	Kind  string     `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Arg   *typeDTO   `json:"arg,omitempty"`
	Key   *typeDTO   `json:"key,omitempty"`
	Value *typeDTO   `json:"value,omitempty"`
	Args  []*typeDTO `json:"args,omitempty"`
}

func typeToDTO(t Type) (*typeDTO, error) {
	switch v := t.(type) {
	case Primitive:
		return &typeDTO{Kind: "Prim", Name: string(v.Kind)}, nil
	case List:
		arg, err := typeToDTO(v.Elem)
		if err != nil {
			return nil, err
		}
		return &typeDTO{Kind: "List", Arg: arg}, nil
	case Set:
		arg, err := typeToDTO(v.Elem)
		if err != nil {
			return nil, err
		}
		return &typeDTO{Kind: "Set", Arg: arg}, nil
	case Dict:
		key, err := typeToDTO(v.Key)
		if err != nil {
			return nil, err
		}
		val, err := typeToDTO(v.Value)
		if err != nil {
			return nil, err
		}
		return &typeDTO{Kind: "Dict", Key: key, Value: val}, nil
	case Tuple:
		args := make([]*typeDTO, len(v.Elems))
		for i, e := range v.Elems {
			d, err := typeToDTO(e)
			if err != nil {
				return nil, err
			}
			args[i] = d
		}
		return &typeDTO{Kind: "Tuple", Args: args}, nil
	case Ref:
		return &typeDTO{Kind: "Ref", Name: v.Name}, nil
	default:
		return nil, errors.Errorf("unknown type %T", t)
	}
}

func dtoToType(d *typeDTO) (Type, error) {
	if d == nil {
		return nil, errors.New("nil type")
	}
	switch d.Kind {
	case "Prim":
		return Primitive{Kind: PrimKind(d.Name)}, nil
	case "List":
		elem, err := dtoToType(d.Arg)
		if err != nil {
			return nil, err
		}
		return List{Elem: elem}, nil
	case "Set":
		elem, err := dtoToType(d.Arg)
		if err != nil {
			return nil, err
		}
		return Set{Elem: elem}, nil
	case "Dict":
		if d.Key == nil || d.Value == nil {
			return nil, errors.Wrap(ErrInvalidInterface, "dict type requires exactly two type args")
		}
		key, err := dtoToType(d.Key)
		if err != nil {
			return nil, err
		}
		val, err := dtoToType(d.Value)
		if err != nil {
			return nil, err
		}
		return Dict{Key: key, Value: val}, nil
	case "Tuple":
		elems := make([]Type, len(d.Args))
		for i, a := range d.Args {
			t, err := dtoToType(a)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return Tuple{Elems: elems}, nil
	case "Ref":
		return Ref{Name: d.Name}, nil
	default:
		return nil, errors.Errorf("unknown type kind %q", d.Kind)
	}
}

type paramDTO struct {
	Name string   `json:"name"`
	Type *typeDTO `json:"type"`
}

type memberDTO struct {
	Kind     string              `json:"kind"`
	Params   []paramDTO          `json:"params,omitempty"`
	Return   *typeDTO            `json:"return,omitempty"`
	Fields   map[string]*typeDTO `json:"fields,omitempty"`
	Variants map[string]*typeDTO `json:"variants,omitempty"`
}

func memberToDTO(m Member) (*memberDTO, error) {
	switch v := m.(type) {
	case Func:
		params := make([]paramDTO, len(v.Params))
		for i, p := range v.Params {
			d, err := typeToDTO(p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = paramDTO{Name: p.Name, Type: d}
		}
		ret, err := typeToDTO(v.Return)
		if err != nil {
			return nil, err
		}
		return &memberDTO{Kind: "Func", Params: params, Return: ret}, nil
	case Struct:
		fields := make(map[string]*typeDTO, len(v.Fields))
		for name, t := range v.Fields {
			d, err := typeToDTO(t)
			if err != nil {
				return nil, err
			}
			fields[name] = d
		}
		return &memberDTO{Kind: "Struct", Fields: fields}, nil
	case Enum:
		variants := make(map[string]*typeDTO, len(v.Variants))
		for name, t := range v.Variants {
			if t == nil {
				variants[name] = nil
				continue
			}
			d, err := typeToDTO(t)
			if err != nil {
				return nil, err
			}
			variants[name] = d
		}
		return &memberDTO{Kind: "Enum", Variants: variants}, nil
	default:
		return nil, errors.Errorf("unknown member %T", m)
	}
}

func dtoToMember(d *memberDTO) (Member, error) {
	switch d.Kind {
	case "Func":
		params := make([]Param, len(d.Params))
		for i, p := range d.Params {
			t, err := dtoToType(p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = Param{Name: p.Name, Type: t}
		}
		ret, err := dtoToType(d.Return)
		if err != nil {
			return nil, err
		}
		return Func{Params: params, Return: ret}, nil
	case "Struct":
		order := sortedKeys(d.Fields)
		fields := make([]Param, 0, len(order))
		for _, name := range order {
			t, err := dtoToType(d.Fields[name])
			if err != nil {
				return nil, err
			}
			fields = append(fields, Param{Name: name, Type: t})
		}
		return NewStruct(fields...), nil
	case "Enum":
		order := sortedKeys(d.Variants)
		variants := make([]EnumVariant, 0, len(order))
		for _, name := range order {
			dt := d.Variants[name]
			if dt == nil {
				variants = append(variants, EnumVariant{Name: name})
				continue
			}
			t, err := dtoToType(dt)
			if err != nil {
				return nil, err
			}
			variants = append(variants, EnumVariant{Name: name, Payload: t})
		}
		return NewEnum(variants...), nil
	default:
		return nil, errors.Errorf("unknown member kind %q", d.Kind)
	}
}

func sortedKeys(m map[string]*typeDTO) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type moduleDTO struct {
	Name    string                `json:"name"`
	Modules map[string]*moduleDTO `json:"modules,omitempty"`
	Members map[string]*memberDTO `json:"members,omitempty"`
}

func moduleToDTO(m *Module) (*moduleDTO, error) {
	if m == nil {
		return nil, nil
	}
	out := &moduleDTO{
		Name:    m.Name,
		Modules: make(map[string]*moduleDTO, len(m.Modules)),
		Members: make(map[string]*memberDTO, len(m.Members)),
	}
	for name, child := range m.Modules {
		d, err := moduleToDTO(child)
		if err != nil {
			return nil, err
		}
		out.Modules[name] = d
	}
	for name, member := range m.Members {
		d, err := memberToDTO(member)
		if err != nil {
			return nil, err
		}
		out.Members[name] = d
	}
	return out, nil
}

func dtoToModule(d *moduleDTO) (*Module, error) {
	if d == nil {
		return nil, nil
	}
	out := NewModule(d.Name)
	for name, childDTO := range d.Modules {
		child, err := dtoToModule(childDTO)
		if err != nil {
			return nil, err
		}
		out.Modules[name] = child
	}
	for name, memberDTO := range d.Members {
		member, err := dtoToMember(memberDTO)
		if err != nil {
			return nil, err
		}
		out.Members[name] = member
	}
	return out, nil
}

type depDTO struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type depReqDTO struct {
	Name       string `json:"name"`
	MinVersion string `json:"min_version"`
}

type packageDTO struct {
	Info struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Version     string `json:"version"`
	} `json:"info"`
	Deps         map[string]depDTO    `json:"deps,omitempty"`
	Requirements map[string]depReqDTO `json:"requirements,omitempty"`
	Uses         map[string][]string  `json:"uses,omitempty"`
	RootModule   *moduleDTO           `json:"root_module"`
}

// MarshalJSON encodes pkg to its on-disk wire shape.
func (pkg *Package) MarshalJSON() ([]byte, error) {
	root, err := moduleToDTO(pkg.Root)
	if err != nil {
		return nil, err
	}
	dto := packageDTO{
		Deps:         make(map[string]depDTO, len(pkg.Deps)),
		Requirements: make(map[string]depReqDTO, len(pkg.Requirements)),
		Uses:         make(map[string][]string, len(pkg.Uses)),
		RootModule:   root,
	}
	dto.Info.Name = pkg.Info.Name
	dto.Info.Description = pkg.Info.Description
	dto.Info.Version = pkg.Info.Version.String()

	for name, dep := range pkg.Deps {
		dto.Deps[name] = depDTO{Name: dep.Name, Version: dep.Version.String()}
	}
	for name, req := range pkg.Requirements {
		dto.Requirements[name] = depReqDTO{Name: req.Name, MinVersion: req.MinVersion.String()}
	}
	for name, paths := range pkg.Uses {
		dto.Uses[name] = append([]string(nil), paths...)
	}

	return json.Marshal(dto)
}

// UnmarshalJSON decodes pkg from its on-disk wire shape.
func (pkg *Package) UnmarshalJSON(data []byte) error {
	var dto packageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	v, err := version.Parse(dto.Info.Version)
	if err != nil {
		return errors.Wrap(err, "package info version")
	}

	root, err := dtoToModule(dto.RootModule)
	if err != nil {
		return errors.Wrap(err, "root module")
	}

	deps := make(map[string]Dep, len(dto.Deps))
	for name, d := range dto.Deps {
		dv, err := version.Parse(d.Version)
		if err != nil {
			return errors.Wrapf(err, "dep %q version", name)
		}
		deps[name] = Dep{Name: d.Name, Version: dv}
	}

	reqs := make(map[string]DepReq, len(dto.Requirements))
	for name, r := range dto.Requirements {
		rv, err := version.Parse(r.MinVersion)
		if err != nil {
			return errors.Wrapf(err, "requirement %q min version", name)
		}
		reqs[name] = DepReq{Name: r.Name, MinVersion: rv}
	}

	uses := make(map[string][]string, len(dto.Uses))
	for name, paths := range dto.Uses {
		uses[name] = append([]string(nil), paths...)
	}

	pkg.Info = PackageInfo{Name: dto.Info.Name, Description: dto.Info.Description, Version: v}
	pkg.Root = root
	pkg.Deps = deps
	pkg.Requirements = reqs
	pkg.Uses = uses
	return nil
}
