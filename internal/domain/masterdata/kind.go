package masterdata

import (
	"github.com/bizcore/backend/internal/domain/shared"
)

// Kind identifies one of the managed master-data record types.
type Kind string

const (
	KindCompany         Kind = "company"
	KindBranch          Kind = "branch"
	KindWarehouse       Kind = "warehouse"
	KindProduct         Kind = "product"
	KindProductCategory Kind = "product_category"
	KindProductUnit     Kind = "product_unit"
	KindSupplier        Kind = "supplier"
	KindBrand           Kind = "brand"
	KindUnit            Kind = "unit"
)

// ScopeKind identifies which aggregate owns the code-uniqueness domain
// for a kind: companies belong to a user, everything else to a company.
type ScopeKind string

const (
	ScopeKindUser    ScopeKind = "user"
	ScopeKindCompany ScopeKind = "company"
)

// Descriptor carries the per-kind metadata the generic core is driven by:
// the code prefix used by the allocator, the scope kind, the searchable
// columns, the optional parent/child relationships and whether the kind
// carries a per-scope exclusivity flag.
type Descriptor struct {
	Kind          Kind
	CodePrefix    string
	Scope         ScopeKind
	ParentKind    Kind // referenced parent record kind, empty when none
	ChildKind     Kind // owned sub-record kind, reconciled inside the parent's transaction
	HasExclusive  bool // at most one record per scope may hold the flag
	HasFactor     bool // carries a unit conversion factor
	SearchColumns []string
	ParentSearch  bool // free-text search also matches the parent record's name
	OrderBy       []string
}

// defaultOrder keeps listings stable across pages: flagged record first,
// then explicit sort order, then name, with id as the final tiebreaker.
var defaultOrder = []string{"is_exclusive DESC", "sort_order ASC", "name ASC", "id ASC"}

var descriptors = map[Kind]Descriptor{
	KindCompany: {
		Kind:          KindCompany,
		CodePrefix:    "CP",
		Scope:         ScopeKindUser,
		HasExclusive:  true,
		SearchColumns: []string{"code", "name", "short_name", "contact_name", "phone"},
		OrderBy:       defaultOrder,
	},
	KindBranch: {
		Kind:          KindBranch,
		CodePrefix:    "BC",
		Scope:         ScopeKindCompany,
		HasExclusive:  true,
		SearchColumns: []string{"code", "name", "short_name", "address", "phone"},
		OrderBy:       defaultOrder,
	},
	KindWarehouse: {
		Kind:          KindWarehouse,
		CodePrefix:    "WH",
		Scope:         ScopeKindCompany,
		ParentKind:    KindBranch,
		HasExclusive:  true,
		SearchColumns: []string{"code", "name", "short_name", "address"},
		ParentSearch:  true,
		OrderBy:       defaultOrder,
	},
	KindProduct: {
		Kind:          KindProduct,
		CodePrefix:    "PR",
		Scope:         ScopeKindCompany,
		ParentKind:    KindProductCategory,
		ChildKind:     KindProductUnit,
		SearchColumns: []string{"code", "name", "short_name", "description"},
		ParentSearch:  true,
		OrderBy:       defaultOrder,
	},
	KindProductCategory: {
		Kind:          KindProductCategory,
		CodePrefix:    "PC",
		Scope:         ScopeKindCompany,
		SearchColumns: []string{"code", "name", "description"},
		OrderBy:       defaultOrder,
	},
	KindProductUnit: {
		Kind:          KindProductUnit,
		CodePrefix:    "PU",
		Scope:         ScopeKindCompany,
		ParentKind:    KindProduct,
		HasFactor:     true,
		SearchColumns: []string{"code", "name"},
		ParentSearch:  true,
		OrderBy:       defaultOrder,
	},
	KindSupplier: {
		Kind:          KindSupplier,
		CodePrefix:    "SP",
		Scope:         ScopeKindCompany,
		SearchColumns: []string{"code", "name", "short_name", "contact_name", "phone"},
		OrderBy:       defaultOrder,
	},
	KindBrand: {
		Kind:          KindBrand,
		CodePrefix:    "BR",
		Scope:         ScopeKindCompany,
		SearchColumns: []string{"code", "name", "description"},
		OrderBy:       defaultOrder,
	},
	KindUnit: {
		Kind:          KindUnit,
		CodePrefix:    "UN",
		Scope:         ScopeKindCompany,
		SearchColumns: []string{"code", "name", "short_name"},
		OrderBy:       defaultOrder,
	},
}

// Describe returns the metadata for a kind
func Describe(kind Kind) (Descriptor, error) {
	desc, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, shared.NewDomainError("INVALID_INPUT", "Unknown record kind: "+string(kind))
	}
	return desc, nil
}

// ParseKind validates a raw kind string
func ParseKind(raw string) (Kind, error) {
	if _, ok := descriptors[Kind(raw)]; !ok {
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown record kind: "+raw)
	}
	return Kind(raw), nil
}

// Kinds returns all managed kinds
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(descriptors))
	for k := range descriptors {
		kinds = append(kinds, k)
	}
	return kinds
}
