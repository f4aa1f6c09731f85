package extract

import "sort"

// Resolver matches lexical callee names against the full set of declarations
// observed in a run. Resolution policy, in order:
//
//  1. A declaration in the calling file wins.
//  2. Otherwise the first declaring file in lexicographic path order wins
//     (the directory traversal order), which keeps repeated runs identical.
//  3. Names with no declaration anywhere resolve to nothing: the call targets
//     code outside the analyzed tree and is dropped.
//
// This is deliberately lexical matching, not symbol resolution.
type Resolver struct {
	byName map[string][]string // callee name → sorted declaring file paths
}

// NewResolver builds a Resolver from per-file extraction results.
func NewResolver(results []FileResult) *Resolver {
	r := &Resolver{byName: make(map[string][]string)}
	for _, res := range results {
		for _, d := range res.Decls {
			r.byName[d.Name] = append(r.byName[d.Name], res.Path)
		}
	}
	for name, files := range r.byName {
		sort.Strings(files)
		r.byName[name] = dedupSorted(files)
	}
	return r
}

// Resolve returns the declaring file for a callee name observed in
// callerFile, or false if the name is not declared anywhere in the run.
func (r *Resolver) Resolve(callerFile, callee string) (string, bool) {
	files, ok := r.byName[callee]
	if !ok {
		return "", false
	}
	for _, f := range files {
		if f == callerFile {
			return f, true
		}
	}
	return files[0], true
}

// Ambiguous reports whether a callee name is declared in more than one file.
func (r *Resolver) Ambiguous(callee string) bool {
	return len(r.byName[callee]) > 1
}

func dedupSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || s[i-1] != v {
			out = append(out, v)
		}
	}
	return out
}
