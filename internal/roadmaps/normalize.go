package roadmaps

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"career-coach/internal/llm"
)

//go:embed schema/roadmap.schema.json
var roadmapSchemaJSON string

var roadmapSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(roadmapSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("roadmap schema: %v", err))
	}
	return schema
}()

// Normalized is a validated graph plus the ids of edges removed to make it
// consistent.
type Normalized struct {
	Graph        Graph
	DroppedEdges []string
}

// Normalize parses a fence-wrapped roadmap reply. Parse failures and node
// problems reject the reply; edges that point nowhere or repeat an id are
// dropped.
func Normalize(reply string) (Normalized, error) {
	cleaned := llm.StripCodeFences(reply)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}

	result, err := roadmapSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrInvalidRoadmap, err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		sort.Strings(reasons)
		return Normalized{}, fmt.Errorf("%w: %s", ErrInvalidRoadmap, strings.Join(reasons, "; "))
	}

	var graph Graph
	if err := json.Unmarshal([]byte(cleaned), &graph); err != nil {
		return Normalized{}, fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}

	nodes := make(map[string]struct{}, len(graph.InitialNodes))
	for _, n := range graph.InitialNodes {
		if _, dup := nodes[n.ID]; dup {
			return Normalized{}, fmt.Errorf("%w: duplicate node id %q", ErrInvalidRoadmap, n.ID)
		}
		nodes[n.ID] = struct{}{}
	}

	edges, dropped := repairEdges(graph.InitialEdges, nodes)
	graph.InitialEdges = edges
	return Normalized{Graph: graph, DroppedEdges: dropped}, nil
}

func repairEdges(in []Edge, nodes map[string]struct{}) ([]Edge, []string) {
	kept := make([]Edge, 0, len(in))
	dropped := []string{}
	seen := make(map[string]struct{}, len(in))
	for _, e := range in {
		_, src := nodes[e.Source]
		_, dst := nodes[e.Target]
		_, dup := seen[e.ID]
		if e.ID == "" || dup || !src || !dst {
			dropped = append(dropped, e.ID)
			continue
		}
		seen[e.ID] = struct{}{}
		kept = append(kept, e)
	}
	return kept, dropped
}
