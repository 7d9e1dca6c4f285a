// Package sector carries the canonical sector taxonomy and the listed-company
// to sector assignments. The data ships embedded so lookups never depend on
// runtime files.
package sector

import (
	_ "embed"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed sectors.yaml
var sectorsYAML []byte

type catalog struct {
	Sectors   []string          `yaml:"sectors"`
	Companies map[string]string `yaml:"companies"`
}

var data catalog

func init() {
	if err := yaml.Unmarshal(sectorsYAML, &data); err != nil {
		panic(eris.Wrap(err, "sector: parse embedded catalog"))
	}
}

// SectorFor returns the canonical sector for a company name. The lookup is an
// exact match against the listed name; ok is false for unknown companies.
func SectorFor(companyName string) (string, bool) {
	s, ok := data.Companies[companyName]
	return s, ok
}

// Sectors returns the canonical sector names in catalog order.
func Sectors() []string {
	out := make([]string, len(data.Sectors))
	copy(out, data.Sectors)
	return out
}

// CompaniesBySector returns the companies assigned to a sector, sorted by
// name. Unknown sectors yield an empty slice.
func CompaniesBySector(sector string) []string {
	var out []string
	for company, s := range data.Companies {
		if s == sector {
			out = append(out, company)
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of mapped companies.
func Count() int {
	return len(data.Companies)
}
