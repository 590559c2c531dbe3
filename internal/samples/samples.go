// Package samples is the built-in catalogue of compilation jobs used by
// `gcir emit` to exercise the construction layer end to end.
package samples

import (
	"fmt"
	"sort"

	"gcir/internal/backend/llvm"
	"gcir/internal/driver"
)

// Sample is one catalogue entry.
type Sample struct {
	Name        string
	Description string
	Build       func(*llvm.Builder)
}

// Job wraps the sample for the driver.
func (s Sample) Job() driver.Job {
	return driver.Job{Name: s.Name, Build: s.Build}
}

var catalogue = []Sample{
	{Name: "add", Description: "i32 addition of two parameters", Build: buildAdd},
	{Name: "tracked-load", Description: "load an object reference through a raw container", Build: buildTrackedLoad},
	{Name: "pointer-xchg", Description: "atomic exchange of a tracked slot", Build: buildPointerXchg},
	{Name: "safepoint", Description: "patch-point call with a stack map of live references", Build: buildSafepoint},
	{Name: "switch", Description: "multi-way branch merged by a phi", Build: buildSwitch},
	{Name: "math", Description: "sqrt, pow, bswap and ctlz intrinsics", Build: buildMath},
	{Name: "globals", Description: "external globals, a unique counter and a string constant", Build: buildGlobals},
}

// All returns every sample sorted by name.
func All() []Sample {
	out := make([]Sample, len(catalogue))
	copy(out, catalogue)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the sample called name.
func Lookup(name string) (Sample, bool) {
	for _, s := range catalogue {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

// Jobs resolves names to driver jobs; no names selects every sample.
func Jobs(names []string) ([]driver.Job, error) {
	if len(names) == 0 {
		all := All()
		jobs := make([]driver.Job, len(all))
		for i, s := range all {
			jobs[i] = s.Job()
		}
		return jobs, nil
	}
	jobs := make([]driver.Job, 0, len(names))
	for _, name := range names {
		s, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown sample %q", name)
		}
		jobs = append(jobs, s.Job())
	}
	return jobs, nil
}
