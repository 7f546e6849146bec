package search

import "strings"

// PathSeparator joins qualified-path segments in rendered path strings.
const PathSeparator = "::"

// Compile flattens the collected seeds into the final item sequence.
//
// Seeds are emitted in their collected (declaration-visit) order. Member
// seeds resolve their enclosing path through the parent's path table entry;
// seeds whose parent cannot be resolved are dropped and counted, never
// failing the build.
func Compile(seeds []Seed, r Resolver) (items []Item, dropped int) {
	items = make([]Item, 0, len(seeds))

	for _, s := range seeds {
		if s.Parent == nil {
			items = append(items, Item{
				Kind: s.Kind,
				Name: s.Name,
				Path: s.Path,
				Desc: ShortDesc(s.Doc),
			})
			continue
		}

		fqp, _, ok := r.PathOf(*s.Parent)
		if !ok {
			fqp, ok = r.TraitPathOf(*s.Parent)
		}
		if !ok || len(fqp) == 0 {
			dropped++
			continue
		}

		parent := *s.Parent
		items = append(items, Item{
			Kind:   s.Kind,
			Name:   s.Name,
			Path:   strings.Join(fqp[:len(fqp)-1], PathSeparator),
			Desc:   ShortDesc(s.Doc),
			Parent: &parent,
		})
	}

	return items, dropped
}
