// Package careprofile maps plant species to default care parameters.
//
// Profiles load from a .csv, .xlsx (first sheet) or .html (first <table>)
// file whose header names the columns species, water_frequency_days and
// light. Header matching ignores case, spaces, dashes and underscores, and
// accepts a few aliases.
package careprofile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

type Profile struct {
	Species            string `json:"species"`
	WaterFrequencyDays int    `json:"water_frequency_days"`
	Light              string `json:"light,omitempty"`
}

type Catalogue struct {
	bySpecies map[string]Profile
}

func key(species string) string { return strings.ToLower(strings.Join(strings.Fields(species), " ")) }

// New builds a catalogue from ps. Later entries win.
func New(ps ...Profile) *Catalogue {
	c := &Catalogue{bySpecies: make(map[string]Profile, len(ps))}
	for _, p := range ps {
		if k := key(p.Species); k != "" && p.WaterFrequencyDays > 0 {
			c.bySpecies[k] = p
		}
	}
	return c
}

// Builtin covers common houseplants.
func Builtin() *Catalogue {
	return New(
		Profile{"Boston fern", 3, "bright indirect"},
		Profile{"Pothos", 7, "low to bright indirect"},
		Profile{"Snake plant", 14, "low to bright"},
		Profile{"Monstera", 7, "bright indirect"},
		Profile{"Peace lily", 5, "low to medium"},
		Profile{"Fiddle leaf fig", 7, "bright indirect"},
		Profile{"ZZ plant", 14, "low to bright indirect"},
		Profile{"Spider plant", 7, "bright indirect"},
		Profile{"Calathea", 4, "medium indirect"},
		Profile{"Succulent", 14, "bright direct"},
		Profile{"Cactus", 21, "bright direct"},
		Profile{"Aloe vera", 14, "bright direct"},
		Profile{"Rubber plant", 7, "bright indirect"},
		Profile{"Philodendron", 7, "medium indirect"},
		Profile{"Orchid", 7, "bright indirect"},
	)
}

// Lookup matches species case-insensitively.
func (c *Catalogue) Lookup(species string) (Profile, bool) {
	if c == nil {
		return Profile{}, false
	}
	p, ok := c.bySpecies[key(species)]
	return p, ok
}

func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	return len(c.bySpecies)
}

// All returns every profile sorted by species.
func (c *Catalogue) All() []Profile {
	out := make([]Profile, 0, c.Len())
	if c == nil {
		return out
	}
	for _, p := range c.bySpecies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Species) < key(out[j].Species) })
	return out
}

// Merge returns a catalogue holding both, with other's entries taking
// precedence.
func (c *Catalogue) Merge(other *Catalogue) *Catalogue {
	return New(append(c.All(), other.All()...)...)
}

// LoadFile picks a reader by extension.
func LoadFile(path string) (*Catalogue, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		rows, err = csvRows(f)
	case ".xlsx":
		rows, err = xlsxRows(path)
	case ".html", ".htm":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		rows, err = htmlRows(f)
	default:
		return nil, fmt.Errorf("care profiles: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("care profiles %s: %w", path, err)
	}
	return fromRows(rows)
}

func csvRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func xlsxRows(path string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return x.GetRows(sheets[0])
}

// XLSXReader reads a workbook from r, used where profiles arrive as an upload.
func XLSXReader(r io.Reader) (*Catalogue, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

func htmlRows(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no <table> found")
	}
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

func fromRows(rows [][]string) (*Catalogue, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty profile table")
	}
	head := map[string]int{}
	for i, h := range rows[0] {
		head[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := head[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
	cSpecies := findAny("species", "type", "plant")
	cFreq := findAny("water_frequency_days", "water_every_days", "interval", "frequency")
	cLight := findAny("light", "light_requirement", "sun")
	if cSpecies == -1 || cFreq == -1 {
		return nil, fmt.Errorf("missing required columns, found %v, need species and water_frequency_days", rows[0])
	}

	var ps []Profile
	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		freq, err := strconv.Atoi(get(cFreq))
		if err != nil || freq <= 0 || get(cSpecies) == "" {
			continue
		}
		ps = append(ps, Profile{Species: get(cSpecies), WaterFrequencyDays: freq, Light: get(cLight)})
	}
	return New(ps...), nil
}

// Load returns the builtin catalogue overlaid with the file at path, if any.
func Load(path string) (*Catalogue, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}
	c, err := LoadFile(path)
	if err != nil {
		return Builtin(), err
	}
	return Builtin().Merge(c), nil
}
