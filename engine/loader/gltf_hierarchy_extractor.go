package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// NodeTemplate is the rest pose of one imported node.
type NodeTemplate struct {
	Name     string
	Position [3]float32
	Rotation [4]float32
	Scale    [3]float32
	Weights  []float32
	Children []int
}

// Hierarchy is the imported node tree. It is immutable; every Instantiate call builds a
// fresh GameObject tree so entities never share animated state.
type Hierarchy struct {
	name  string
	nodes []NodeTemplate
	roots []int
}

// Nodes returns the node templates in document order.
func (h *Hierarchy) Nodes() []NodeTemplate {
	return h.nodes
}

// Instantiate builds a GameObject tree in rest pose under a root named after the asset.
//
// Returns:
//   - game_object.GameObject: the new root
func (h *Hierarchy) Instantiate() game_object.GameObject {
	children := make([]game_object.GameObject, 0, len(h.roots))
	for _, r := range h.roots {
		children = append(children, h.instantiate(r))
	}
	return game_object.NewGameObject(
		game_object.WithName(h.name),
		game_object.WithChildren(children...),
	)
}

func (h *Hierarchy) instantiate(index int) game_object.GameObject {
	n := &h.nodes[index]
	children := make([]game_object.GameObject, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, h.instantiate(c))
	}
	options := []game_object.GameObjectBuilderOption{
		game_object.WithName(n.Name),
		game_object.WithPosition(n.Position[0], n.Position[1], n.Position[2]),
		game_object.WithRotation(n.Rotation[0], n.Rotation[1], n.Rotation[2], n.Rotation[3]),
		game_object.WithScale(n.Scale[0], n.Scale[1], n.Scale[2]),
		game_object.WithChildren(children...),
	}
	if len(n.Weights) > 0 {
		options = append(options, game_object.WithWeights(n.Weights...))
	}
	return game_object.NewGameObject(options...)
}

// gltfExtractHierarchy reads the node tree of the default scene, or of every parentless
// node when the document has no scenes.
func gltfExtractHierarchy(doc *gltfDocument, name string) (*Hierarchy, error) {
	h := &Hierarchy{name: name, nodes: make([]NodeTemplate, len(doc.Nodes))}

	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i := range doc.Nodes {
		src := &doc.Nodes[i]
		n := NodeTemplate{
			Name:     gltfNodeName(doc, i),
			Rotation: [4]float32{0, 0, 0, 1},
			Scale:    [3]float32{1, 1, 1},
			Children: src.Children,
		}
		if src.Matrix != nil {
			n.Position, n.Rotation, n.Scale = common.DecomposeTRS(*src.Matrix)
		}
		if src.Translation != nil {
			n.Position = *src.Translation
		}
		if src.Rotation != nil {
			n.Rotation = *src.Rotation
		}
		if src.Scale != nil {
			n.Scale = *src.Scale
		}
		switch {
		case len(src.Weights) > 0:
			n.Weights = append([]float32(nil), src.Weights...)
		case src.Mesh != nil && *src.Mesh >= 0 && *src.Mesh < len(doc.Meshes):
			n.Weights = append([]float32(nil), doc.Meshes[*src.Mesh].Weights...)
		}

		for _, c := range src.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if parent[c] != -1 {
				return nil, fmt.Errorf("node %d has more than one parent", c)
			}
			parent[c] = i
		}
		h.nodes[i] = n
	}

	scene := -1
	switch {
	case doc.Scene != nil:
		scene = *doc.Scene
	case len(doc.Scenes) > 0:
		scene = 0
	}
	if scene >= 0 && scene < len(doc.Scenes) {
		for _, r := range doc.Scenes[scene].Nodes {
			if r < 0 || r >= len(doc.Nodes) {
				return nil, fmt.Errorf("scene %d: node index %d out of range", scene, r)
			}
			h.roots = append(h.roots, r)
		}
	} else {
		for i, p := range parent {
			if p == -1 {
				h.roots = append(h.roots, i)
			}
		}
	}

	if err := h.checkAcyclic(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hierarchy) checkAcyclic() error {
	state := make([]uint8, len(h.nodes))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case 1:
			return fmt.Errorf("node %d is its own ancestor", i)
		case 2:
			return nil
		}
		state[i] = 1
		for _, c := range h.nodes[i].Children {
			if err := visit(c); err != nil {
				return err
			}
		}
		state[i] = 2
		return nil
	}
	for _, r := range h.roots {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}
