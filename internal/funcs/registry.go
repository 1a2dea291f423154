package funcs

import (
	"fmt"
	"sort"
	"strings"
)

// constructors maps short function names to factories. Add a line here when
// adding a new profile variant.
var constructors = map[string]func() FunctionObject{
	NameFlatSky:           func() FunctionObject { return NewFlatSky() },
	NameGaussian1D:        func() FunctionObject { return NewGaussian1D() },
	NameGaussian:          func() FunctionObject { return NewGaussian() },
	NameExponential:       func() FunctionObject { return NewExponential() },
	NameSersic:            func() FunctionObject { return NewSersic() },
	NameExponentialDisk3D: func() FunctionObject { return NewExponentialDisk3D() },
}

// New instantiates a profile variant by its short name. Unknown names are a
// configuration error and the message lists the known set.
func New(name string) (FunctionObject, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("funcs: unknown function type %q (known: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names returns the sorted list of registered function names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
