package formatter

import (
	"slices"
	"strings"
)

// BucketKind classifies the imports a bucket holds
type BucketKind int

const (
	CoreBucket BucketKind = iota
	ThirdPartyBucket
	CustomBucket
)

func (k BucketKind) String() string {
	switch k {
	case CoreBucket:
		return "core"
	case ThirdPartyBucket:
		return "third-party"
	case CustomBucket:
		return "custom"
	default:
		return "unknown"
	}
}

// Bucket is an ordered group of imports sharing one classification.
type Bucket struct {
	Kind    BucketKind
	Prefix  string // set for CustomBucket only
	Imports []Import
}

// Prefixes is the caller-declared list of custom bucket prefixes. It is
// built once and only read afterwards, so a single value may be shared by
// sorters running in different goroutines.
type Prefixes struct {
	list []string
}

// NewPrefixes keeps the caller order, drops empty entries and collapses
// duplicates onto their first occurrence.
func NewPrefixes(prefixes ...string) Prefixes {
	list := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" || slices.Contains(list, p) {
			continue
		}
		list = append(list, p)
	}
	return Prefixes{list: list}
}

// Append returns a new Prefixes with extra prefixes added after the existing ones.
func (p Prefixes) Append(prefixes ...string) Prefixes {
	return NewPrefixes(append(p.List(), prefixes...)...)
}

// List returns a copy of the prefixes in declaration order.
func (p Prefixes) List() []string {
	return slices.Clone(p.list)
}

// Len returns the number of distinct prefixes.
func (p Prefixes) Len() int {
	return len(p.list)
}

// match returns the index of the longest prefix of path, or -1.
// Equal lengths resolve to the first declared prefix.
func (p Prefixes) match(path string) int {
	best := -1
	for i, prefix := range p.list {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if best < 0 || len(prefix) > len(p.list[best]) {
			best = i
		}
	}
	return best
}

// Sorter owns the buckets of one file. Iteration order is always core,
// third-party, then custom buckets in the order their prefixes were declared.
type Sorter struct {
	prefixes   Prefixes
	core       []Import
	thirdParty []Import
	custom     [][]Import // parallel to prefixes.list
}

// NewSorter creates empty core and third-party buckets plus one custom
// bucket per prefix.
func NewSorter(prefixes Prefixes) *Sorter {
	return &Sorter{
		prefixes: prefixes,
		custom:   make([][]Import, prefixes.Len()),
	}
}

// isDomainPath reports whether path looks like a networked package path.
func isDomainPath(path string) bool {
	return strings.Contains(path, ".") && strings.Contains(path, "/")
}

// Classify returns the bucket kind for path and, for custom buckets, the
// winning prefix.
func (s *Sorter) Classify(path string) (BucketKind, string) {
	kind, i := s.classify(path)
	if kind == CustomBucket {
		return kind, s.prefixes.list[i]
	}
	return kind, ""
}

// classify also returns the custom bucket index, -1 for other kinds.
func (s *Sorter) classify(path string) (BucketKind, int) {
	if !isDomainPath(path) {
		return CoreBucket, -1
	}
	if i := s.prefixes.match(path); i >= 0 {
		return CustomBucket, i
	}
	return ThirdPartyBucket, -1
}

// Insert appends imp to the bucket it classifies into.
func (s *Sorter) Insert(imp Import) {
	switch kind, i := s.classify(imp.Path); kind {
	case CoreBucket:
		s.core = append(s.core, imp)
	case ThirdPartyBucket:
		s.thirdParty = append(s.thirdParty, imp)
	default:
		s.custom[i] = append(s.custom[i], imp)
	}
}

// Sort orders every bucket by import path. Imports with equal paths keep
// their insertion order.
func (s *Sorter) Sort() {
	byPath := func(a, b Import) int { return strings.Compare(a.Path, b.Path) }
	slices.SortStableFunc(s.core, byPath)
	slices.SortStableFunc(s.thirdParty, byPath)
	for _, bucket := range s.custom {
		slices.SortStableFunc(bucket, byPath)
	}
}

// Buckets returns all buckets in output order, empty ones included.
func (s *Sorter) Buckets() []Bucket {
	buckets := make([]Bucket, 0, 2+len(s.custom))
	buckets = append(buckets,
		Bucket{Kind: CoreBucket, Imports: s.core},
		Bucket{Kind: ThirdPartyBucket, Imports: s.thirdParty},
	)
	for i, imports := range s.custom {
		buckets = append(buckets, Bucket{Kind: CustomBucket, Prefix: s.prefixes.list[i], Imports: imports})
	}
	return buckets
}

// Count returns the number of imports across all buckets.
func (s *Sorter) Count() int {
	n := len(s.core) + len(s.thirdParty)
	for _, bucket := range s.custom {
		n += len(bucket)
	}
	return n
}

// Single returns the lone import when the sorter holds exactly one.
func (s *Sorter) Single() (Import, bool) {
	if s.Count() != 1 {
		return Import{}, false
	}
	for _, bucket := range s.Buckets() {
		if len(bucket.Imports) == 1 {
			return bucket.Imports[0], true
		}
	}
	return Import{}, false
}
