package analysis

// NodeDoc is the serializable form of a presentation node, tagged by Kind.
type NodeDoc struct {
	Kind     NodeKind  `json:"kind" yaml:"kind"`
	Token    string    `json:"path,omitempty" yaml:"path,omitempty"`
	Href     string    `json:"href,omitempty" yaml:"href,omitempty"`
	Ply      int       `json:"ply,omitempty" yaml:"ply,omitempty"`
	SAN      string    `json:"san,omitempty" yaml:"san,omitempty"`
	Eval     string    `json:"eval,omitempty" yaml:"eval,omitempty"`
	Active   bool      `json:"active,omitempty" yaml:"active,omitempty"`
	Number   int       `json:"turn,omitempty" yaml:"turn,omitempty"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	White    *NodeDoc  `json:"white,omitempty" yaml:"white,omitempty"`
	Black    *NodeDoc  `json:"black,omitempty" yaml:"black,omitempty"`
	Border   bool      `json:"border,omitempty" yaml:"border,omitempty"`
	Children []NodeDoc `json:"children,omitempty" yaml:"children,omitempty"`
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Result   string    `json:"result,omitempty" yaml:"result,omitempty"`
	Status   string    `json:"status,omitempty" yaml:"status,omitempty"`
}

func Docs(nodes []Node) []NodeDoc {
	out := make([]NodeDoc, 0, len(nodes))
	for _, n := range nodes {
		if d := Doc(n); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func Doc(n Node) *NodeDoc {
	if n == nil {
		return nil
	}
	d := &NodeDoc{Kind: n.Kind()}
	switch v := n.(type) {
	case MoveNode:
		d.Token, d.Href, d.Ply = v.Token, v.Href, v.Ply
		d.SAN, d.Eval, d.Active = v.SAN, v.Eval, v.Active
	case EmptyMoveNode:
	case TurnNode:
		d.Number, d.Label = v.Number, v.Label
		d.White, d.Black = Doc(v.White), Doc(v.Black)
	case VariationBlockNode:
		d.Token, d.Border = v.Token, v.Border
		d.Children = Docs(v.Children)
	case VariationInlineNode:
		d.Token = v.Token
		d.Children = Docs(v.Children)
	case AnnotationNode:
		d.Type, d.Text = string(v.Type), v.Text
	case ResultNode:
		d.Result, d.Status = v.Result, v.Status
	}
	return d
}
