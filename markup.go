package nanoblocks

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Attrs returns the attributes that mount block name on an element, for use
// in templ templates with the default markup conventions:
//
//	<div { nanoblocks.Attrs("popup")... }>
func Attrs(name string) templ.Attributes {
	return templ.Attributes{DefaultMarkerAttr: name}
}

// EagerAttrs is Attrs plus the class that makes Init create the block at
// startup instead of on its first event.
func EagerAttrs(name string) templ.Attributes {
	return templ.Attributes{
		DefaultMarkerAttr: name,
		"class":           DefaultInitClass,
	}
}

// Mount returns a templ component rendering a tag that carries block name,
// with extra attributes and children.
//
//	@nanoblocks.Mount("div", "popup", templ.Attributes{"class": "popup"}, true, body())
//
// eager adds the init class to any class given in attrs. Rendering fails
// for a tag that is not a plain element name.
func Mount(tag, name string, attrs templ.Attributes, eager bool, children ...templ.Component) templ.Component {
	merged := templ.Attributes{}
	maps.Copy(merged, attrs)
	merged[DefaultMarkerAttr] = name
	if eager {
		class, _ := merged["class"].(string)
		merged["class"] = strings.TrimSpace(class + " " + DefaultInitClass)
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !validTag(tag) {
			return fmt.Errorf("nanoblocks: invalid tag name %q", tag)
		}
		if _, err := io.WriteString(w, "<"+tag+renderAttrs(merged)+">"); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// validTag reports whether tag matches [A-Za-z][A-Za-z0-9-]*.
func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, c := range tag {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// renderAttrs renders attributes in sorted order. Boolean attributes are
// written bare when true and omitted when false.
func renderAttrs(attrs templ.Attributes) string {
	var sb strings.Builder
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		switch v := attrs[key].(type) {
		case bool:
			if v {
				sb.WriteString(" " + templ.EscapeString(key))
			}
		case string:
			sb.WriteString(fmt.Sprintf(` %s="%s"`, templ.EscapeString(key), templ.EscapeString(v)))
		default:
			sb.WriteString(fmt.Sprintf(` %s="%s"`, templ.EscapeString(key), templ.EscapeString(fmt.Sprint(v))))
		}
	}
	return sb.String()
}
