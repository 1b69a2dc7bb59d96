package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

// Ids of records in testdata/catalog.json that tests refer to by name.
const (
	GenreActionID = "3d8d9bf5-0d90-4353-88ba-4ccc5d2c07ff"
	GenreSciFiID  = "6c162475-c7ed-4461-9184-001ef3d9f26e"
	GenreDramaID  = "1cacff68-643e-4ddd-8f57-84b62538081a"
	GenreComedyID = "5373d043-3f41-4ea8-9947-4b746c601bbd"

	FilmStarWarsID    = "025c58cd-1b7e-43be-9ffb-8571a613579b"
	FilmEmpireID      = "0312ed51-8833-413f-bff5-0e139c11264a"
	FilmBladeRunnerID = "7f3a2c9e-44a1-4f0b-9a53-7d5f1c2b8e61"
	FilmGodfatherID   = "b1f1e0a4-2f5e-4d1c-8c7b-3f2a9e6d4c10"
	FilmForrestGumpID = "c2e4d6f8-1a3b-4c5d-9e7f-8a9b0c1d2e3f"
	FilmAnnieHallID   = "d3f5a7b9-2c4d-4e6f-8a0b-1c2d3e4f5a6b"
	FilmManhattanID   = "e4a6b8c0-3d5e-4f7a-9b1c-2d3e4f5a6b7c"
	FilmSchindlersID  = "f5b7c9d1-4e6f-4a8b-8c2d-3e4f5a6b7c8d"
	FilmDeletedID     = "00000000-dead-4bad-8bad-000000000000"

	PersonHamillID     = "26e83050-29ef-4163-a99d-b546cac208f8"
	PersonFordID       = "5b4bf1bc-3397-4e83-9b17-8b10c6544ed1"
	PersonAllenID      = "9e2d7c1b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	PersonLostCreditID = "8c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"
	PersonUncreditedID = "4e5f6a7b-8c9d-4e0f-9a1b-2c3d4e5f6a7b"
)

// Catalog holds the raw index documents of the shared catalog fixture.
type Catalog struct {
	Films   [][]byte
	Genres  [][]byte
	Persons [][]byte
}

// LoadCatalog loads testdata/catalog.json from this package directory,
// so any package in the module can share the same documents.
func LoadCatalog(t *testing.T) *Catalog {
	t.Helper()

	var doc struct {
		Movies  []json.RawMessage `json:"movies"`
		Genres  []json.RawMessage `json:"genres"`
		Persons []json.RawMessage `json:"persons"`
	}
	LoadFixtureJSON(t, filepath.Join(packageDir(t), FixturePath("catalog.json")), &doc)

	return &Catalog{
		Films:   rawList(doc.Movies),
		Genres:  rawList(doc.Genres),
		Persons: rawList(doc.Persons),
	}
}

// Documents returns the fixture grouped by index name.
func (c *Catalog) Documents() map[string][][]byte {
	return map[string][][]byte{
		"movies":  c.Films,
		"genres":  c.Genres,
		"persons": c.Persons,
	}
}

// Film returns the raw movie document with the given uuid.
func (c *Catalog) Film(t *testing.T, id string) []byte {
	t.Helper()
	return find(t, c.Films, id)
}

// Genre returns the raw genre document with the given uuid.
func (c *Catalog) Genre(t *testing.T, id string) []byte {
	t.Helper()
	return find(t, c.Genres, id)
}

// Person returns the raw person document with the given uuid.
func (c *Catalog) Person(t *testing.T, id string) []byte {
	t.Helper()
	return find(t, c.Persons, id)
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// CompareJSONWithGolden marshals actual and compares it with the JSON
// document stored in the golden file. Formatting and key order are ignored.
func CompareJSONWithGolden(t *testing.T, path string, actual any) {
	t.Helper()

	got, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual value for %s: %v", path, err)
	}

	var want, have any
	if err := json.Unmarshal(LoadFixture(t, path), &want); err != nil {
		t.Fatalf("failed to parse golden file %s: %v", path, err)
	}
	if err := json.Unmarshal(got, &have); err != nil {
		t.Fatalf("failed to parse actual JSON for %s: %v", path, err)
	}

	if !reflect.DeepEqual(want, have) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, LoadFixture(t, path), got)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}

func packageDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to resolve testsupport package directory")
	}
	return filepath.Dir(file)
}

func rawList(items []json.RawMessage) [][]byte {
	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item)
	}
	return out
}

func find(t *testing.T, docs [][]byte, id string) []byte {
	t.Helper()

	for _, raw := range docs {
		var head struct {
			UUID string `json:"uuid"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			t.Fatalf("failed to parse fixture document: %v", err)
		}
		if head.UUID == id {
			return raw
		}
	}
	t.Fatalf("fixture document %s not found", id)
	return nil
}
