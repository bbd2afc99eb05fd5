package roadmaps

import (
	"encoding/json"
	"time"
)

// Record is one persisted roadmap.
type Record struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Field     string `json:"field"`
	Title     string `json:"title"`
	Graph     Graph  `json:"roadmapData"`
	// GraphJSON is the exact document stored for Graph.
	GraphJSON json.RawMessage `json:"-"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Graph is the node/edge layout a roadmap renders as.
type Graph struct {
	RoadmapTitle string `json:"roadmapTitle"`
	Description  string `json:"description"`
	Duration     string `json:"duration"`
	InitialNodes []Node `json:"initialNodes"`
	InitialEdges []Edge `json:"initialEdges"`
}

const (
	NodeTurbo  = "turbo"
	NodeBranch = "branch"
)

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated *bool  `json:"animated,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Request names the skill or role to build a roadmap for.
type Request struct {
	Field string `json:"field" validate:"required,max=200"`
}
