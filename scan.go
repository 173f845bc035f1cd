package nanoblocks

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// MountPoint describes an element declaring a block, as found by Scan.
type MountPoint struct {
	Node *html.Node
	// Name is the marker attribute value verbatim.
	Name string
	// Parts lists the simple block names; more than one means a composite.
	Parts []string
	// ID is the element identity, empty when one would be generated.
	ID string
	// Eager is true when Init would create the block at startup.
	Eager bool
}

// Scan lists the elements under root that declare a block, in document order,
// without creating instances or assigning identities. Options select the
// markup conventions; the rest are ignored.
func Scan(root *html.Node, opts ...Option) []MountPoint {
	o := newOptions(opts...)

	var out []*html.Node
	if (attrMatcher{key: o.markerAttr}).Match(root) {
		out = append(out, root)
	}
	out = append(out, cascadia.QueryAll(root, attrMatcher{key: o.markerAttr})...)

	eager := classMatcher(o.initClass)
	mounts := make([]MountPoint, 0, len(out))
	for _, n := range out {
		name, _ := getAttr(n, o.markerAttr)
		parts := strings.Fields(name)
		if len(parts) == 0 {
			continue
		}
		id, _ := getAttr(n, o.idAttr)
		mounts = append(mounts, MountPoint{
			Node:  n,
			Name:  name,
			Parts: parts,
			ID:    id,
			Eager: eager.Match(n),
		})
	}
	return mounts
}
