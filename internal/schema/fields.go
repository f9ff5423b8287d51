package schema

import (
	"sort"
	"strings"
)

// Tag is a category bit attached to a canonical field.
type Tag uint32

const (
	TagCTD Tag = 1 << iota
	TagDiscrete
	TagCalculated
	TagFlag
	TagFile
	TagBottleClosureTime
	TagTime
	TagDate
	TagAreaRD
	TagCruiseID
	TagCTDPressure
	TagDepth
	TagLatitude
	TagLongitude
	TagBeamAttenuation
	TagOxygenSaturation
	TagSensorSuffix
)

// tagTerms maps each substring-derived tag to the term that sets it.
var tagTerms = []struct {
	tag  Tag
	term string
}{
	{TagCTD, "ctd"},
	{TagDiscrete, "discrete"},
	{TagCalculated, "calculated"},
	{TagFlag, "flag"},
	{TagFile, "file"},
	{TagBottleClosureTime, "bottle_closure_time"},
	{TagTime, "time"},
	{TagDate, "date"},
	{TagAreaRD, "area_rd"},
	{TagCruiseID, "cruise_id"},
	{TagCTDPressure, "ctd_pressure"},
	{TagDepth, "depth"},
	{TagLatitude, "latitude"},
	{TagLongitude, "longitude"},
	{TagBeamAttenuation, "beam_attenuation"},
	{TagOxygenSaturation, "oxygen_saturation"},
}

const (
	numericTags   = TagCTD | TagDiscrete | TagCalculated
	numericSkip   = TagFile | TagBottleClosureTime | TagFlag
	profileTags   = TagCTD | TagDate | TagAreaRD | TagCruiseID
	profileSkip   = TagFlag | TagFile | TagBottleClosureTime | TagDepth | TagLatitude | TagLongitude | TagBeamAttenuation | TagOxygenSaturation | TagSensorSuffix
	discreteTags  = TagAreaRD | TagCruiseID | TagDate | TagCTDPressure | TagDiscrete | TagCalculated
	discreteSkip  = TagFlag
	sensorSuffix1 = "_1"
	sensorSuffix2 = "_2"
)

// Field is a canonical column name with its category tags.
type Field struct {
	Name string
	Tags Tag
}

// Describe derives the tags of a canonical name.
func Describe(name string) Field {
	f := Field{Name: name}
	for _, tt := range tagTerms {
		if strings.Contains(name, tt.term) {
			f.Tags |= tt.tag
		}
	}
	if strings.HasSuffix(name, sensorSuffix1) || strings.HasSuffix(name, sensorSuffix2) {
		f.Tags |= TagSensorSuffix
	}
	return f
}

// Has reports whether any of the given tags is set.
func (f Field) Has(tags Tag) bool { return f.Tags&tags != 0 }

// Numeric reports whether the field holds measured values that must be
// floating point: ctd, discrete, or calculated, and not a file name, bottle
// closure time, or quality flag.
func (f Field) Numeric() bool { return f.Has(numericTags) && !f.Has(numericSkip) }

// Profile reports whether the field belongs to the CTD profile projection.
func (f Field) Profile() bool { return f.Has(profileTags) && !f.Has(profileSkip) }

// Discrete reports whether the field belongs to the discrete sample projection.
func (f Field) Discrete() bool { return f.Has(discreteTags) && !f.Has(discreteSkip) }

// IsTime reports whether the field is parsed as a timestamp.
func (f Field) IsTime() bool { return f.Has(TagTime) }

// Derived columns added by the pipeline.
const (
	CruiseID        = "cruise_id"
	Cruise          = "cruise"
	Station         = "station"
	StartTime       = "start_time"
	Date            = "date"
	AreaRD          = "area_rd"
	ArrayRD         = "array_rd"
	CTDTemperature  = "ctd_temperature"
	CTDConductivity = "ctd_conductivity"
	CTDSalinity     = "ctd_salinity"
	CTDPressure     = "ctd_pressure"
	CalculatedDIC   = "calculated_dic"
	CalculatedPCO2  = "calculated_pco2"
)

// DualSensors are measurements recorded by a primary (_1) and a secondary
// (_2) sensor.
var DualSensors = []string{CTDTemperature, CTDConductivity, CTDSalinity}

// Catalog is an immutable lookup of known canonical fields.
type Catalog struct {
	fields map[string]Field
}

// NewCatalog builds a catalog from canonical names plus the derived columns.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{fields: make(map[string]Field, len(names)+8)}
	derived := append([]string{CruiseID, Date, AreaRD, ArrayRD}, DualSensors...)
	for _, n := range append(derived, names...) {
		c.fields[n] = Describe(n)
	}
	return c
}

// Lookup returns the field for name. Names outside the catalog are described
// on the fly with the same rules.
func (c *Catalog) Lookup(name string) Field {
	if c != nil {
		if f, ok := c.fields[name]; ok {
			return f
		}
	}
	return Describe(name)
}

// Names returns the catalog's field names sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.fields))
	for n := range c.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
