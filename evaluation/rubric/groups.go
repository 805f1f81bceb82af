/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Group names a set of criteria, such as a system change level or a system
// change condition.
type Group struct {
	Name     string   `json:"name"`
	Criteria []string `json:"criteria"`
}

// Groups keeps the order the groups were declared in.
type Groups []Group

// ParseGroups reads a mapping of group name to criterion titles, in JSON or
// YAML, preserving declaration order.
func ParseGroups(data []byte) (Groups, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing group map: %w", err)
	}
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("group map must be a mapping of name to criteria (line %d)", root.Line)
	}

	m := root.Content[0]
	groups := make(Groups, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		var members []string
		if err := val.Decode(&members); err != nil {
			return nil, fmt.Errorf("group %q (line %d): %w", key.Value, key.Line, err)
		}
		groups = append(groups, Group{Name: key.Value, Criteria: members})
	}
	return groups, nil
}

// LoadGroups reads and parses the group map at path.
func LoadGroups(path string) (Groups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group map: %w", err)
	}
	return ParseGroups(data)
}

// GroupScore is the average score of one group.
type GroupScore struct {
	Name string `json:"name"`
	// Average is rounded to two decimals and is 0 when no member was scored.
	Average float64 `json:"average"`
	// Scored counts members that have a score.
	Scored int `json:"scored"`
	// Members is the group size.
	Members int `json:"members"`
}

// Averages computes each group's mean over the members present in scores.
func (g Groups) Averages(scores map[string]float64) []GroupScore {
	out := make([]GroupScore, 0, len(g))
	for _, grp := range g {
		gs := GroupScore{Name: grp.Name, Members: len(grp.Criteria)}
		var sum float64
		for _, c := range grp.Criteria {
			if s, ok := scores[c]; ok {
				sum += s
				gs.Scored++
			}
		}
		if gs.Scored > 0 {
			gs.Average = Round(sum/float64(gs.Scored), 2)
		}
		out = append(out, gs)
	}
	return out
}

// Round rounds v half to even at the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
