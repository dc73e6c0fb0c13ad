package analyzer

import "github.com/matzehuels/pkgcycle/pkg/model"

// PackageMetrics holds the design metrics of one package.
// Percentages are integers between 0 and 100.
type PackageMetrics struct {
	Name                    string `json:"name" yaml:"name" bson:"name"`
	Classes                 int    `json:"classes" yaml:"classes" bson:"classes"`
	AbstractClasses         int    `json:"abstract_classes" yaml:"abstract_classes" bson:"abstract_classes"`
	Afferent                int    `json:"afferent" yaml:"afferent" bson:"afferent"`
	Efferent                int    `json:"efferent" yaml:"efferent" bson:"efferent"`
	Instability             int    `json:"instability" yaml:"instability" bson:"instability"`
	Abstractness            int    `json:"abstractness" yaml:"abstractness" bson:"abstractness"`
	Distance                int    `json:"distance" yaml:"distance" bson:"distance"`
	UnstableDependencies    int    `json:"unstable_dependencies" yaml:"unstable_dependencies" bson:"unstable_dependencies"`
	UnstableDependencyRatio int    `json:"unstable_dependency_ratio" yaml:"unstable_dependency_ratio" bson:"unstable_dependency_ratio"`
	Degree                  int    `json:"degree" yaml:"degree" bson:"degree"`
	CycleIDs                []int  `json:"cycle_ids,omitempty" yaml:"cycle_ids,omitempty" bson:"cycle_ids,omitempty"`
}

// Summary holds graph-level counts.
type Summary struct {
	Packages      int     `json:"packages" yaml:"packages" bson:"packages"`
	Classes       int     `json:"classes" yaml:"classes" bson:"classes"`
	Edges         int     `json:"edges" yaml:"edges" bson:"edges"`
	Cycles        int     `json:"cycles" yaml:"cycles" bson:"cycles"`
	AverageDegree float64 `json:"average_degree" yaml:"average_degree" bson:"average_degree"`
}

// Afferent returns Ca, the number of packages using p.
func Afferent[E any](p *model.Package[E]) int { return len(p.UsedBy()) }

// Efferent returns Ce, the number of packages p uses.
func Efferent[E any](p *model.Package[E]) int { return len(p.UsesNames()) }

// Instability returns Ce*100/(Ca+Ce), or 0 for an uncoupled package.
func Instability[E any](p *model.Package[E]) int {
	ca, ce := Afferent(p), Efferent(p)
	if ca+ce == 0 {
		return 0
	}
	return ce * 100 / (ca + ce)
}

// AbstractClasses returns the number of abstract classes in p.
func AbstractClasses[E any](p *model.Package[E]) int {
	n := 0
	for _, c := range p.Classes() {
		if c.IsAbstract() {
			n++
		}
	}
	return n
}

// Abstractness returns abstract*100/classes, or 0 for an empty package.
func Abstractness[E any](p *model.Package[E]) int {
	total := p.ClassCount()
	if total == 0 {
		return 0
	}
	return AbstractClasses(p) * 100 / total
}

// Distance returns the distance from the main sequence, |A + I - 100|.
func Distance[E any](p *model.Package[E]) int {
	d := Abstractness(p) + Instability(p) - 100
	if d < 0 {
		return -d
	}
	return d
}

// UnstableDependencies counts the packages using p that are less stable
// than p, and returns the count and its ratio to the total coupling.
func UnstableDependencies[E any](p *model.Package[E]) (count, ratio int) {
	own := Instability(p)
	users := p.UsedBy()
	for _, u := range users {
		if Instability(u) > own {
			count++
		}
	}
	total := len(users) + Efferent(p)
	if total == 0 {
		return count, 0
	}
	return count, count * 100 / total
}

// ComputeMetrics returns the metrics of every package in name order.
// CycleIDs are the 1-based positions in cycles of the cycles containing the
// package.
func ComputeMetrics[E any](m *model.Model[E], cycles []Cycle[E]) []PackageMetrics {
	ids := make(map[string][]int)
	for i, c := range cycles {
		for _, name := range c.Names() {
			ids[name] = append(ids[name], i+1)
		}
	}

	pkgs := m.Packages()
	out := make([]PackageMetrics, len(pkgs))
	for i, p := range pkgs {
		unstable, ratio := UnstableDependencies(p)
		ca, ce := Afferent(p), Efferent(p)
		out[i] = PackageMetrics{
			Name:                    p.Name(),
			Classes:                 p.ClassCount(),
			AbstractClasses:         AbstractClasses(p),
			Afferent:                ca,
			Efferent:                ce,
			Instability:             Instability(p),
			Abstractness:            Abstractness(p),
			Distance:                Distance(p),
			UnstableDependencies:    unstable,
			UnstableDependencyRatio: ratio,
			Degree:                  ca + ce,
			CycleIDs:                ids[p.Name()],
		}
	}
	return out
}

// Summarize returns graph-level counts for m. AverageDegree is
// 2*edges/packages.
func Summarize[E any](m *model.Model[E], cycles []Cycle[E]) Summary {
	s := Summary{
		Packages: m.PackageCount(),
		Classes:  m.ClassCount(),
		Edges:    m.EdgeCount(),
		Cycles:   len(cycles),
	}
	if s.Packages > 0 {
		s.AverageDegree = 2 * float64(s.Edges) / float64(s.Packages)
	}
	return s
}

// IndexMetrics maps metrics by package name.
func IndexMetrics(ms []PackageMetrics) map[string]PackageMetrics {
	out := make(map[string]PackageMetrics, len(ms))
	for _, pm := range ms {
		out[pm.Name] = pm
	}
	return out
}
