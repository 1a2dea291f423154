package funcs

// NameFlatSky is the registry name of the constant-background profile.
const NameFlatSky = "FlatSky"

// FlatSky is a spatially constant sky background.
type FlatSky struct {
	iSky  float64
	ready bool
}

// NewFlatSky returns an un-setup FlatSky profile.
func NewFlatSky() *FlatSky {
	return &FlatSky{}
}

func (f *FlatSky) Name() string         { return NameFlatSky }
func (f *FlatSky) NParams() int         { return 1 }
func (f *FlatSky) ParamNames() []string { return []string{"I_sky"} }

func (f *FlatSky) Setup(params []float64, offset int, xc, yc float64) {
	f.iSky = params[offset]
	f.ready = true
}

func (f *FlatSky) GetValue(x, y float64) float64 {
	if !f.ready {
		notSetup(NameFlatSky)
	}
	return f.iSky
}
