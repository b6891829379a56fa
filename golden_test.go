package canopy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type goldenAttribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type goldenConfig struct {
	T2          float64 `json:"t2"`
	T1          float64 `json:"t1"`
	NumClusters int     `json:"num_clusters"`
	Normalize   bool    `json:"normalize"`
}

type goldenData struct {
	Dataset     string            `json:"dataset"`
	Attributes  []goldenAttribute `json:"attributes"`
	Config      goldenConfig      `json:"config"`
	Records     [][]string        `json:"records"`
	Densities   []float64         `json:"densities"`
	Centers     []string          `json:"centers"`
	Memberships [][]int           `json:"memberships"`
	Rendering   string            `json:"rendering"`
}

func loadGoldenFile(t *testing.T, path string) goldenData {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}
	var gd goldenData
	if err := json.Unmarshal(data, &gd); err != nil {
		t.Fatalf("failed to parse golden file %s: %v", path, err)
	}
	return gd
}

func goldenSchema(t *testing.T, attrs []goldenAttribute) *Schema {
	t.Helper()
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		if len(a.Values) > 0 {
			out[i] = CategoricalAttribute(a.Name, a.Values...)
		} else {
			out[i] = NumericAttribute(a.Name)
		}
	}
	s, err := NewSchema(out...)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func goldenConfigToConfig(s *Schema, gc goldenConfig) Config {
	cfg := DefaultConfig()
	cfg.T2 = gc.T2
	cfg.T1 = gc.T1
	cfg.NumClusters = gc.NumClusters
	cfg.Logger = NoopLogger()
	cfg.Workers = 1
	if !gc.Normalize {
		cfg.Distance = NewNormalizedDistance(s, nil, WithoutNormalization())
	}
	return cfg
}

// runGolden streams the golden records in file order. Streaming skips the
// shuffle, so the output is fully determined by the records and radii.
func runGolden(t *testing.T, gd goldenData) *Result {
	t.Helper()
	s := goldenSchema(t, gd.Attributes)
	c, err := New(s, goldenConfigToConfig(s, gd.Config))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	for i, fields := range gd.Records {
		r, err := s.Parse(fields)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if err := c.Update(r); err != nil {
			t.Fatalf("Update(%d) error: %v", i, err)
		}
	}
	return c.Finalize()
}

func TestGoldenCanopies(t *testing.T) {
	files, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatalf("failed to glob testdata: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no golden test files found in testdata/")
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			gd := loadGoldenFile(t, f)
			result := runGolden(t, gd)

			if len(result.Canopies) != len(gd.Centers) {
				t.Fatalf("canopies: golden=%d, got=%d", len(gd.Centers), len(result.Canopies))
			}
			for i, c := range result.Canopies {
				if got := result.Schema.Format(c.Center); got != gd.Centers[i] {
					t.Errorf("center[%d]: golden=%q, got=%q", i, gd.Centers[i], got)
				}
				if c.Density != gd.Densities[i] {
					t.Errorf("density[%d]: golden=%v, got=%v", i, gd.Densities[i], c.Density)
				}
				if got := c.Membership.Indices(); !reflect.DeepEqual(got, gd.Memberships[i]) {
					t.Errorf("membership[%d]: golden=%v, got=%v", i, gd.Memberships[i], got)
				}
			}
		})
	}
}

func TestGoldenRendering(t *testing.T) {
	files, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatalf("failed to glob testdata: %v", err)
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			gd := loadGoldenFile(t, f)
			if got := runGolden(t, gd).String(); got != gd.Rendering {
				t.Errorf("rendering mismatch\ngolden:\n%s\ngot:\n%s", gd.Rendering, got)
			}
		})
	}
}

// TestGoldenMembershipRoundTrip checks that the rendered memberships survive
// a trip through their packed words.
func TestGoldenMembershipRoundTrip(t *testing.T) {
	files, err := filepath.Glob("testdata/*.json")
	if err != nil {
		t.Fatalf("failed to glob testdata: %v", err)
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			for i, c := range runGolden(t, loadGoldenFile(t, f)).Canopies {
				decoded := MembershipFromWords(c.Membership.Words())
				if decoded.String() != c.Membership.String() {
					t.Errorf("membership[%d]: %s != %s", i, decoded, c.Membership)
				}
			}
		})
	}
}
