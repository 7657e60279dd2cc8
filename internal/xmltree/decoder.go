package xmltree

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/nfe-wms-connector/internal/model"
)

// Decode parses raw XML into a generic tree. The returned node is a
// synthetic document node holding the root element as its only child,
// so lookups address the root by tag name. Decoding is pure: it fails
// with a MalformedDocumentError and never partially succeeds.
func Decode(data []byte) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewMalformedDocumentError(err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewMalformedDocumentError(errNoRoot)
	}

	out := &Node{}
	out.addChild(root.Tag, convert(root))
	return out, nil
}

var errNoRoot = errRootless{}

type errRootless struct{}

func (errRootless) Error() string { return "document has no root element" }

func convert(el *etree.Element) *Node {
	n := &Node{}

	if attrs := el.Attr; len(attrs) > 0 {
		n.attrs = make(map[string]string, len(attrs))
		for _, a := range attrs {
			n.attrs[a.Key] = a.Value
		}
	}

	for _, child := range el.ChildElements() {
		n.addChild(child.Tag, convert(child))
	}

	// Scalar text is only meaningful when the element has no child
	// elements; mixed content keeps the leading text etree reports.
	n.text = strings.TrimSpace(el.Text())

	return n
}
