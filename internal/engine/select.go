package engine

import (
	"github.com/alexisbeaulieu97/powar/pkg/module"
)

// SelectModules filters registry down to the modules requested by selection,
// preserving registry order. Names that match no module are ignored.
func SelectModules(registry []module.Module, selection module.Selection) []module.Module {
	switch sel := selection.(type) {
	case module.Only:
		names := nameSet(sel.Names)
		return filterModules(registry, func(m module.Module) bool { return names[m.Name] })
	case module.Skip:
		names := nameSet(sel.Names)
		return filterModules(registry, func(m module.Module) bool { return !names[m.Name] })
	default:
		return filterModules(registry, func(module.Module) bool { return true })
	}
}

func filterModules(registry []module.Module, keep func(module.Module) bool) []module.Module {
	out := make([]module.Module, 0, len(registry))
	for _, m := range registry {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
