package gpu

// QueryCapabilities asks the runtime for the instance extensions and layers
// it currently has registered. Empty lists are not an error.
func QueryCapabilities(rt Runtime) (Capabilities, error) {
	return queryCapabilities(rt, true)
}

// queryCapabilities skips the layer query unless withLayers is set.
func queryCapabilities(rt Runtime, withLayers bool) (Capabilities, error) {
	exts, err := rt.InstanceExtensions()
	if err != nil {
		return Capabilities{}, mark(err, ErrCommand, "can't get supported extensions list")
	}
	caps := Capabilities{Extensions: exts}
	if !withLayers {
		return caps, nil
	}
	caps.Layers, err = rt.InstanceLayers()
	if err != nil {
		return Capabilities{}, mark(err, ErrCommand, "can't get available layers list")
	}
	return caps, nil
}

// Unsupported returns the entries of requested that do not appear in
// available, in request order and without duplicates. Matching is exact and
// case-sensitive; empty requested names are ignored.
func Unsupported(requested []string, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[name] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, name := range requested {
		if name == "" {
			continue
		}
		if _, ok := have[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}
	return missing
}

// ExtensionNames projects extension descriptors to their names.
func ExtensionNames(exts []ExtensionProperties) []string {
	names := make([]string, 0, len(exts))
	for _, e := range exts {
		names = append(names, e.Name)
	}
	return names
}

// LayerNames projects layer descriptors to their names.
func LayerNames(layers []LayerProperties) []string {
	names := make([]string, 0, len(layers))
	for _, l := range layers {
		names = append(names, l.Name)
	}
	return names
}

// without returns names minus every entry of drop, keeping order and
// removing empty names and duplicates.
func without(names []string, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := skip[n]; ok {
			continue
		}
		skip[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
