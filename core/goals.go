package core

import (
	"fmt"
	"os"

	"github.com/wctc-net-database/gradedash/schema"
	"gopkg.in/yaml.v3"
)

// builtinGoals is the stretch goal catalog shipped with the binary.
var builtinGoals = []schema.StretchGoal{
	{ID: "CsvHelper", Name: "Parse CSV with CsvHelper", Week: "Week 1", Assignment: "w1-file-i-o"},
	{ID: "JsonPersistence", Name: "Persist data as JSON", Week: "Week 2", Assignment: "w2-json"},
	{ID: "InterfaceSegregation", Name: "Split fat interfaces", Week: "Week 3", Assignment: "w3-solid"},
	{ID: "DependencyInjection", Name: "Wire services with DI", Week: "Week 4", Assignment: "w4-di"},
	{ID: "UnitTests", Name: "Add unit tests", Week: "Week 5", Assignment: "w5-testing"},
	{ID: "EfMigrations", Name: "Use EF Core migrations", Week: "Week 6", Assignment: "w6-ef-core"},
	{ID: "SeedData", Name: "Seed the database", Week: "Week 7", Assignment: "w7-seeding"},
	{ID: "LinqQueries", Name: "Query with LINQ projections", Week: "Week 8", Assignment: "w8-linq"},
}

// goalsFile is the YAML layout of --goals-file.
type goalsFile struct {
	Goals []schema.StretchGoal `yaml:"goals"`
}

// GoalCatalog resolves opaque stretch goal ids to display metadata.
// Ids match exactly; they are never case folded.
type GoalCatalog struct {
	byID  map[string]schema.StretchGoal
	order []string
}

// NewGoalCatalog builds a catalog. Later goals replace earlier ones with the same id.
func NewGoalCatalog(goals ...[]schema.StretchGoal) *GoalCatalog {
	c := &GoalCatalog{byID: make(map[string]schema.StretchGoal)}
	for _, list := range goals {
		for _, g := range list {
			if g.ID == "" {
				continue
			}
			if _, ok := c.byID[g.ID]; !ok {
				c.order = append(c.order, g.ID)
			}
			c.byID[g.ID] = g
		}
	}
	return c
}

// DefaultGoalCatalog returns the built-in catalog.
func DefaultGoalCatalog() *GoalCatalog {
	return NewGoalCatalog(builtinGoals)
}

// LoadGoalCatalog layers the goals file and the config overrides over the built-in catalog.
func LoadGoalCatalog(path string, overrides []schema.StretchGoal) (*GoalCatalog, error) {
	var fromFile []schema.StretchGoal
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read goals file: %w", err)
		}
		var doc goalsFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse goals file %s: %w", path, err)
		}
		fromFile = doc.Goals
	}
	return NewGoalCatalog(builtinGoals, fromFile, overrides), nil
}

// Lookup returns the catalog entry for id.
func (c *GoalCatalog) Lookup(id string) (schema.StretchGoal, bool) {
	if c == nil {
		return schema.StretchGoal{}, false
	}
	g, ok := c.byID[id]
	return g, ok
}

// DefaultFor returns the suggested goal for an assignment pattern.
func (c *GoalCatalog) DefaultFor(pattern string) (schema.StretchGoal, bool) {
	if c == nil || pattern == "" {
		return schema.StretchGoal{}, false
	}
	for _, id := range c.order {
		if g := c.byID[id]; g.Assignment == pattern {
			return g, true
		}
	}
	return schema.StretchGoal{}, false
}

// All returns the catalog in insertion order.
func (c *GoalCatalog) All() []schema.StretchGoal {
	if c == nil {
		return nil
	}
	out := make([]schema.StretchGoal, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
