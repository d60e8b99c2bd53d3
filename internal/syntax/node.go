package syntax

// Shape tags a parse-tree node with the grammatical construct it covers.
type Shape int

const (
	ShapeScript Shape = iota
	ShapeBlock
	ShapeDependencies
	ShapeBuildscript
	ShapeStatement
	ShapeNormalDeclaration
	ShapePlatformDeclaration
	ShapeEnforcedPlatformDeclaration
	ShapeTestFixturesDeclaration
	ShapeConfiguration
	ShapeExternalDependency
	ShapeProjectDependency
	ShapeFileDependency
	ShapeIdentifier
)

func (s Shape) String() string {
	switch s {
	case ShapeScript:
		return "script"
	case ShapeBlock:
		return "block"
	case ShapeDependencies:
		return "dependencies"
	case ShapeBuildscript:
		return "buildscript"
	case ShapeStatement:
		return "statement"
	case ShapeNormalDeclaration:
		return "normalDeclaration"
	case ShapePlatformDeclaration:
		return "platformDeclaration"
	case ShapeEnforcedPlatformDeclaration:
		return "enforcedPlatformDeclaration"
	case ShapeTestFixturesDeclaration:
		return "testFixturesDeclaration"
	case ShapeConfiguration:
		return "configuration"
	case ShapeExternalDependency:
		return "externalDependency"
	case ShapeProjectDependency:
		return "projectDependency"
	case ShapeFileDependency:
		return "fileDependency"
	case ShapeIdentifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// IsDeclaration reports whether s is one of the four declaration shapes.
func (s Shape) IsDeclaration() bool {
	switch s {
	case ShapeNormalDeclaration, ShapePlatformDeclaration,
		ShapeEnforcedPlatformDeclaration, ShapeTestFixturesDeclaration:
		return true
	}
	return false
}

// IsDependency reports whether s is one of the three dependency shapes.
func (s Shape) IsDependency() bool {
	switch s {
	case ShapeExternalDependency, ShapeProjectDependency, ShapeFileDependency:
		return true
	}
	return false
}

// Node is one parse-tree node. Start and Stop are inclusive token indices.
// Open is the index of the '{' of a block shape and -1 otherwise.
type Node struct {
	Shape    Shape
	Start    int
	Stop     int
	Open     int
	Children []*Node
}

// NewNode returns a node with no opening brace.
func NewNode(shape Shape, start, stop int, children ...*Node) *Node {
	return &Node{Shape: shape, Start: start, Stop: stop, Open: -1, Children: children}
}

// Child returns the first direct child with the given shape, or nil.
func (n *Node) Child(shape Shape) *Node {
	for _, c := range n.Children {
		if c.Shape == shape {
			return c
		}
	}
	return nil
}

// Dependency returns the dependency child of a declaration node, or nil.
func (n *Node) Dependency() *Node {
	for _, c := range n.Children {
		if c.Shape.IsDependency() {
			return c
		}
	}
	return nil
}

// IsBlock reports whether n owns a brace-delimited body.
func (n *Node) IsBlock() bool {
	return n.Open >= 0
}
