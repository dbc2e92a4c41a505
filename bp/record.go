package bp

import (
	"fmt"
	"io"
)

// Kind identifies what a Record declares.
type Kind int

const (
	// KindGroup declares a group path.
	KindGroup Kind = iota + 1
	// KindScalar writes a rank-0 variable.
	KindScalar
	// KindArray writes a variable of rank >= 1.
	KindArray
	// KindDatasetAttribute attaches an attribute to a written variable.
	KindDatasetAttribute
	// KindGroupAttribute attaches an attribute to a group.
	KindGroupAttribute
)

var kindNames = map[Kind]string{
	KindGroup:            "group",
	KindScalar:           "scalar",
	KindArray:            "array",
	KindDatasetAttribute: "dataset_attr",
	KindGroupAttribute:   "group_attr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown record kind %q", s)
}

// OwnerKind tells whether an attribute belongs to a dataset or a group.
type OwnerKind int

const (
	// OwnerDataset attaches to a variable written earlier in the stream.
	OwnerDataset OwnerKind = iota + 1
	// OwnerGroup attaches to a group.
	OwnerGroup
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerDataset:
		return "dataset"
	case OwnerGroup:
		return "group"
	default:
		return fmt.Sprintf("owner(%d)", int(k))
	}
}

// Dimension is one axis of a variable as written by one process:
// the process-local block of Local elements starts at Offset within a
// global array of Global elements. Global is 0 for purely local arrays.
type Dimension struct {
	Global uint64
	Local  uint64
	Offset uint64
}

// Variable describes one write of a named variable.
type Variable struct {
	Name string
	// Path is the group the variable lives in.
	Path string
	Type ScalarType
	Dims []Dimension
	// Append stores repeated writes of the same variable as steps.
	Append bool
	Value  Value
}

// Rank returns the number of dimensions; 0 denotes a scalar.
func (v *Variable) Rank() int { return len(v.Dims) }

// LocalExtents returns the per-axis extent of the written block.
func (v *Variable) LocalExtents() []uint64 {
	out := make([]uint64, len(v.Dims))
	for i, d := range v.Dims {
		out[i] = d.Local
	}
	return out
}

// Attribute is a named value attached to a dataset or a group.
type Attribute struct {
	Name string
	// Owner is the full path of the owning dataset or group.
	Owner     string
	OwnerKind OwnerKind
	Type      ScalarType
	Value     Value
}

// Record is one entry of a decoded BP stream. Exactly one of Path,
// Variable and Attribute is meaningful, selected by Kind.
type Record struct {
	Kind      Kind
	Path      string
	Variable  *Variable
	Attribute *Attribute
}

// Target returns the namespace path the record refers to.
func (r Record) Target() string {
	switch r.Kind {
	case KindGroup:
		return r.Path
	case KindScalar, KindArray:
		if r.Variable == nil {
			return ""
		}
		if r.Variable.Path == "" || r.Variable.Path == "/" {
			return "/" + r.Variable.Name
		}
		return r.Variable.Path + "/" + r.Variable.Name
	case KindDatasetAttribute, KindGroupAttribute:
		if r.Attribute == nil {
			return ""
		}
		return r.Attribute.Owner
	default:
		return ""
	}
}

// Decoder yields the records of one BP container in container order.
// Next returns io.EOF once the stream is exhausted.
type Decoder interface {
	Next() (Record, error)
	io.Closer
}

// GroupRecord declares a group.
func GroupRecord(path string) Record {
	return Record{Kind: KindGroup, Path: path}
}

// VariableRecord wraps v, choosing KindScalar or KindArray by rank.
func VariableRecord(v *Variable) Record {
	if v.Rank() == 0 {
		return Record{Kind: KindScalar, Variable: v}
	}
	return Record{Kind: KindArray, Variable: v}
}

// AttributeRecord wraps a, choosing the kind by its owner.
func AttributeRecord(a *Attribute) Record {
	if a.OwnerKind == OwnerGroup {
		return Record{Kind: KindGroupAttribute, Attribute: a}
	}
	return Record{Kind: KindDatasetAttribute, Attribute: a}
}
