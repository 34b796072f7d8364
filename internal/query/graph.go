package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/engramhq/engram/internal/record"
)

// NodeKind is the closed set of lineage graph node types.
type NodeKind string

const (
	NodeEngram NodeKind = "engram"
	NodeFile   NodeKind = "file"
	NodeAgent  NodeKind = "agent"
	NodeCommit NodeKind = "commit"
)

// EdgeLabel is the closed set of lineage graph edge labels.
type EdgeLabel string

const (
	EdgeModified      EdgeLabel = "modified"
	EdgeUsedAgent     EdgeLabel = "used_agent"
	EdgeFollowsFrom   EdgeLabel = "follows_from"
	EdgeTouchedFile   EdgeLabel = "touched_file"
	EdgeProducedBy    EdgeLabel = "produced_by"
	EdgeContinues     EdgeLabel = "continues"
	EdgeRefactorOf    EdgeLabel = "refactor_of"
	EdgeFixFor        EdgeLabel = "fix_for"
	EdgeConflictsWith EdgeLabel = "conflicts_with"
	EdgeSupersedes    EdgeLabel = "supersedes"
)

// NodeID uniquely identifies a node within a Graph: "<kind>:<key>".
type NodeID string

func engramNodeID(id record.ID) NodeID { return NodeID(fmt.Sprintf("engram:%s", id)) }
func fileNodeID(path string) NodeID    { return NodeID(fmt.Sprintf("file:%s", path)) }
func agentNodeID(name string) NodeID   { return NodeID(fmt.Sprintf("agent:%s", name)) }
func commitNodeID(sha string) NodeID   { return NodeID(fmt.Sprintf("commit:%s", sha)) }

// Node is one tagged-union vertex in the lineage graph.
type Node struct {
	ID      NodeID
	Kind    NodeKind
	Summary string // engram nodes only
	Path    string // file nodes only
	Name    string // agent nodes only
	Model   string // agent nodes only
	SHA     string // commit nodes only
}

func (n Node) label() string {
	switch n.Kind {
	case NodeEngram:
		if n.Summary != "" {
			return n.Summary
		}
		return string(n.ID)
	case NodeFile:
		return n.Path
	case NodeAgent:
		if n.Model != "" {
			return fmt.Sprintf("%s (%s)", n.Name, n.Model)
		}
		return n.Name
	case NodeCommit:
		return n.SHA
	default:
		return string(n.ID)
	}
}

// Edge is one directed, labeled connection between two nodes.
type Edge struct {
	From  NodeID
	To    NodeID
	Label EdgeLabel
}

// Graph is an in-memory lineage graph built from a set of records.
type Graph struct {
	nodes map[NodeID]Node
	edges []Edge
	adj   map[NodeID][]Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]Node), adj: make(map[NodeID][]Edge)}
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.nodes[n.ID]; !ok {
		g.nodes[n.ID] = n
	}
}

func (g *Graph) addEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.adj[e.From] = append(g.adj[e.From], e)
	g.adj[e.To] = append(g.adj[e.To], Edge{From: e.To, To: e.From, Label: e.Label})
}

// BuildGraph constructs a lineage graph over every record known to loader.
// Nodes and edges it can derive directly: engram/file/agent/commit nodes,
// touched_file and modified edges from operations.file_changes, used_agent
// from manifest.agent, produced_by from manifest.git_commits, and
// follows_from/continues from lineage.parent_engram/related_engrams. The
// refactor_of/fix_for/conflicts_with/supersedes labels are part of the
// closed edge-label set but are not inferred automatically here; nothing
// in a record's stored fields distinguishes them from a generic relation.
func BuildGraph(ctx context.Context, loader Loader) (*Graph, error) {
	manifests, err := loader.List(ctx)
	if err != nil {
		return nil, err
	}

	g := NewGraph()
	for _, m := range manifests {
		data, err := loader.Read(string(m.ID))
		if err != nil {
			return nil, err
		}
		engramID := engramNodeID(m.ID)
		g.addNode(Node{ID: engramID, Kind: NodeEngram, Summary: m.Summary})

		if m.Agent.Name != "" {
			agentID := agentNodeID(m.Agent.Name)
			g.addNode(Node{ID: agentID, Kind: NodeAgent, Name: m.Agent.Name, Model: m.Agent.Model})
			g.addEdge(Edge{From: engramID, To: agentID, Label: EdgeUsedAgent})
		}

		for _, fc := range data.Operations.FileChanges {
			fileID := fileNodeID(fc.Path)
			g.addNode(Node{ID: fileID, Kind: NodeFile, Path: fc.Path})
			if fc.Change.Kind == record.ChangeModified {
				g.addEdge(Edge{From: engramID, To: fileID, Label: EdgeModified})
			} else {
				g.addEdge(Edge{From: engramID, To: fileID, Label: EdgeTouchedFile})
			}
		}

		for _, sha := range m.GitCommits {
			commitID := commitNodeID(sha)
			g.addNode(Node{ID: commitID, Kind: NodeCommit, SHA: sha})
			g.addEdge(Edge{From: commitID, To: engramID, Label: EdgeProducedBy})
		}

		if data.Lineage.ParentEngram != nil {
			parentID := engramNodeID(*data.Lineage.ParentEngram)
			g.addNode(Node{ID: parentID, Kind: NodeEngram})
			g.addEdge(Edge{From: engramID, To: parentID, Label: EdgeFollowsFrom})
		}
		for _, related := range data.Lineage.RelatedEngrams {
			relatedID := engramNodeID(related)
			g.addNode(Node{ID: relatedID, Kind: NodeEngram})
			g.addEdge(Edge{From: engramID, To: relatedID, Label: EdgeContinues})
		}
	}
	return g, nil
}

// Nodes returns every node in the graph, in no particular order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Edges returns every directed edge in the graph, in no particular order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Neighbors returns every node reachable from start within depth hops
// (depth 1 = direct neighbors only), breadth-first, excluding start itself.
func (g *Graph) Neighbors(start NodeID, depth int) []Node {
	if depth <= 0 {
		return nil
	}
	visited := map[NodeID]bool{start: true}
	frontier := []NodeID{start}
	var result []Node

	for d := 0; d < depth; d++ {
		var next []NodeID
		for _, id := range frontier {
			for _, e := range g.adj[id] {
				if visited[e.To] {
					continue
				}
				visited[e.To] = true
				next = append(next, e.To)
				if n, ok := g.nodes[e.To]; ok {
					result = append(result, n)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// SubgraphFor returns the induced subgraph over nodes matching filter: the
// matching nodes plus every edge whose endpoints both match.
func (g *Graph) SubgraphFor(filter func(Node) bool) *Graph {
	sub := NewGraph()
	for id, n := range g.nodes {
		if filter(n) {
			sub.nodes[id] = n
		}
	}
	seen := make(map[Edge]bool)
	for _, e := range g.edges {
		if _, fromOK := sub.nodes[e.From]; !fromOK {
			continue
		}
		if _, toOK := sub.nodes[e.To]; !toOK {
			continue
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		sub.edges = append(sub.edges, e)
		sub.adj[e.From] = append(sub.adj[e.From], e)
		sub.adj[e.To] = append(sub.adj[e.To], Edge{From: e.To, To: e.From, Label: e.Label})
	}
	return sub
}

// DOT renders the graph in Graphviz DOT format, with node ids and labels
// quoted and escaped.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph engram {\n")

	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := g.nodes[id]
		fmt.Fprintf(&b, "  %s [label=%s, shape=%s];\n", dotQuote(string(id)), dotQuote(n.label()), dotShape(n.Kind))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", dotQuote(string(e.From)), dotQuote(string(e.To)), dotQuote(string(e.Label)))
	}
	b.WriteString("}\n")
	return b.String()
}

func dotShape(k NodeKind) string {
	switch k {
	case NodeEngram:
		return "box"
	case NodeFile:
		return "note"
	case NodeAgent:
		return "ellipse"
	case NodeCommit:
		return "diamond"
	default:
		return "plaintext"
	}
}

func dotQuote(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
