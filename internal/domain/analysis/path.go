package analysis

import (
	"fmt"
	"strconv"
	"strings"

	errs "chess_analyse/internal/errors"
)

// rootToken is what the empty path encodes to, so that every path has a
// non-empty token usable as an attribute value.
const rootToken = "0"

// PathSegment addresses a ply on one branch. Variation > 0 means the cursor
// leaves this branch at Ply and continues in the Variation-th (1-based)
// variation of the move found there.
type PathSegment struct {
	Ply       int `json:"ply" bson:"ply"`
	Variation int `json:"variation,omitempty" bson:"variation,omitempty"`
}

// Path is a cursor into the tree. The empty path is the starting position.
type Path []PathSegment

func RootPath() Path {
	return Path{}
}

func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Encode writes the path as "ply[:variation],ply[:variation],...".
func (p Path) Encode() string {
	if p.IsRoot() {
		return rootToken
	}
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(seg.Ply))
		if seg.Variation > 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(seg.Variation))
		}
	}
	return sb.String()
}

func (p Path) String() string {
	return p.Encode()
}

// DecodePath parses a token produced by Encode. It never panics; anything it
// can't read comes back as ErrMalformedPath.
func DecodePath(token string) (Path, error) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "#")
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", errs.ErrMalformedPath)
	}
	if token == rootToken {
		return RootPath(), nil
	}

	parts := strings.Split(token, ",")
	path := make(Path, 0, len(parts))
	for i, part := range parts {
		plyStr, varStr, hasVar := strings.Cut(part, ":")
		ply, err := strconv.Atoi(plyStr)
		if err != nil || ply < 1 {
			return nil, fmt.Errorf("%w: bad ply %q", errs.ErrMalformedPath, plyStr)
		}
		seg := PathSegment{Ply: ply}
		if hasVar {
			v, err := strconv.Atoi(varStr)
			if err != nil || v < 1 {
				return nil, fmt.Errorf("%w: bad variation %q", errs.ErrMalformedPath, varStr)
			}
			seg.Variation = v
		}
		// only the trailing segment may stay on its branch
		if i < len(parts)-1 && seg.Variation == 0 {
			return nil, fmt.Errorf("%w: segment %d does not descend", errs.ErrMalformedPath, i)
		}
		if i == len(parts)-1 && seg.Variation != 0 {
			return nil, fmt.Errorf("%w: trailing segment descends", errs.ErrMalformedPath)
		}
		path = append(path, seg)
	}
	return path, nil
}

// WithPly points the trailing segment at ply on the branch the path is on.
// On the root path it starts the mainline.
func (p Path) WithPly(ply int) Path {
	if p.IsRoot() {
		return Path{{Ply: ply}}
	}
	out := p.clone()
	out[len(out)-1].Ply = ply
	return out
}

// WithVariation descends into the index-th (1-based) variation attached to
// the move the path currently points at. Root and indexes below 1 address no
// variation, so the path comes back unchanged.
func (p Path) WithVariation(index int) Path {
	if p.IsRoot() || index < 1 {
		return p.clone()
	}
	out := p.clone()
	last := len(out) - 1
	out[last].Variation = index
	return append(out, PathSegment{Ply: out[last].Ply})
}

// Ply of the addressed move, 0 at root.
func (p Path) Ply() int {
	if p.IsRoot() {
		return 0
	}
	return p[len(p)-1].Ply
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) clone() Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return out
}
