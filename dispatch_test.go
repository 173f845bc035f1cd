package nanoblocks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func TestDispatchMenu(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="menu"><span class="item">X</span></div>`)
	rec := &Recorder{}
	page.Registry.Define("menu", Options{
		Events: map[string]any{
			"click .item": "select",
			"click":       "toggle",
		},
		Methods: map[string]any{
			"select": rec.DOM("select", Continue),
			"toggle": rec.DOM("toggle", Continue),
		},
	})

	if !page.Click(page.MustQuery(".item")) {
		t.Fatal("dispatch reported a hard stop")
	}

	want := []Call{
		{Label: "select", Node: "span.item"},
		{Label: "toggle", Node: "div#nb-0"},
	}
	if diff := cmp.Diff(want, rec.Calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchMenuSelectStops(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="menu"><span class="item">X</span></div>`)
	rec := &Recorder{}
	page.Registry.Define("menu", Options{
		Events: map[string]any{
			"click .item": rec.DOM("select", StopPropagation),
			"click":       rec.DOM("toggle", Continue),
		},
	})

	if page.Click(page.MustQuery(".item")) {
		t.Error("dispatch should report the hard stop")
	}
	if diff := cmp.Diff([]string{"select"}, rec.Labels()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchInheritancePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		child func(rec *Recorder) any
		want  []string
	}{
		{"concatenated", func(rec *Recorder) any { return rec.DOM("C", Continue) }, []string{"C", "P"}},
		{"override", func(rec *Recorder) any { return Override(rec.DOM("C", Continue)) }, []string{"C"}},
		{"soft stop skips base", func(rec *Recorder) any { return rec.DOM("C", StopChain) }, []string{"C"}},
		{"nil suppresses", func(rec *Recorder) any { return nil }, []string{}},
		{"Clear suppresses", func(rec *Recorder) any { return Clear }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewTestPage(t, `<div id="root" data-nb="child"></div>`)
			rec := &Recorder{}
			page.Registry.Define("parent", Options{Events: map[string]any{"click": rec.DOM("P", Continue)}})
			page.Registry.Extend("child", "parent", Options{Events: map[string]any{"click": tt.child(rec)}})

			page.Click(page.MustQuery("#root"))
			if diff := cmp.Diff(tt.want, rec.Labels()); diff != "" {
				t.Errorf("calls (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchHardAndSoftStop(t *testing.T) {
	const markup = `
		<div data-nb="outer">
			<div data-nb="inner">
				<p><span id="t" class="a b">x</span></p>
			</div>
		</div>`

	tests := []struct {
		name     string
		child    Result
		wantOK   bool
		wantCall []string
	}{
		{"continue", Continue, true, []string{"A child", "A base", "B", "inner", "outer"}},
		{"soft stop", StopChain, true, []string{"A child", "B", "inner", "outer"}},
		{"hard stop", StopPropagation, false, []string{"A child"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewTestPage(t, markup)
			rec := &Recorder{}
			reg := page.Registry
			reg.Define("outer", Options{Events: map[string]any{"click": rec.DOM("outer", Continue)}})
			reg.Define("inner-base", Options{Events: map[string]any{"click .a": rec.DOM("A base", Continue)}})
			reg.Extend("inner", "inner-base", Options{Events: map[string]any{
				"click .a": rec.DOM("A child", tt.child),
				"click .b": rec.DOM("B", Continue),
				"click":    rec.DOM("inner", Continue),
			}})

			if ok := page.Click(page.MustQuery("#t")); ok != tt.wantOK {
				t.Errorf("Dispatch() = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.wantCall, rec.Labels()); diff != "" {
				t.Errorf("calls (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchInnermostFirst(t *testing.T) {
	page := NewTestPage(t, `
		<section data-nb="list">
			<ul class="items">
				<li class="row"><a id="link" class="link">go</a></li>
			</ul>
		</section>`)
	rec := &Recorder{}
	page.Registry.Define("list", Options{Events: map[string]any{
		"click .items": rec.DOM("items", Continue),
		"click .row":   rec.DOM("row", Continue),
		"click .link":  rec.DOM("link", Continue),
		"click":        rec.DOM("root", Continue),
	}})

	page.Click(page.MustQuery("#link"))
	want := []Call{
		{Label: "link", Node: "a#link.link"},
		{Label: "row", Node: "li.row"},
		{Label: "items", Node: "ul.items"},
		{Label: "root", Node: "section#nb-0"},
	}
	if diff := cmp.Diff(want, rec.Calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchSelectorsDoNotLeaveSegment(t *testing.T) {
	// .panel is outside the inner block's segment, so the inner block's
	// selector must not match it; the outer block's must.
	page := NewTestPage(t, `
		<div data-nb="outer"><div class="panel">
			<div data-nb="inner"><button id="b">x</button></div>
		</div></div>`)
	rec := &Recorder{}
	page.Registry.Define("outer", Options{Events: map[string]any{"click .panel": rec.DOM("outer panel", Continue)}})
	page.Registry.Define("inner", Options{Events: map[string]any{"click .panel": rec.DOM("inner panel", Continue)}})

	page.Click(page.MustQuery("#b"))
	if diff := cmp.Diff([]string{"outer panel"}, rec.Labels()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchComposite(t *testing.T) {
	tests := []struct {
		marker string
		want   []string
	}{
		{"popup draggable", []string{"popup", "draggable"}},
		{"draggable popup", []string{"draggable", "popup"}},
		{"popup popup", []string{"popup", "popup"}},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			page := NewTestPage(t, `<div id="x" data-nb="`+tt.marker+`"></div>`)
			rec := &Recorder{}
			page.Registry.Define("popup", Options{Events: map[string]any{"click": rec.DOM("popup", Continue)}})
			page.Registry.Define("draggable", Options{Events: map[string]any{"click": rec.DOM("draggable", Continue)}})

			page.Click(page.MustQuery("#x"))
			if diff := cmp.Diff(tt.want, rec.Labels()); diff != "" {
				t.Errorf("calls (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchCompositeHardStopSkipsLaterLayers(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="page"><div id="x" data-nb="a b"></div></div>`)
	rec := &Recorder{}
	reg := page.Registry
	reg.Define("page", Options{Events: map[string]any{"click": rec.DOM("page", Continue)}})
	reg.Define("a", Options{Events: map[string]any{"click": rec.DOM("a", StopPropagation)}})
	reg.Define("b", Options{Events: map[string]any{"click": rec.DOM("b", Continue)}})

	page.Click(page.MustQuery("#x"))
	if diff := cmp.Diff([]string{"a"}, rec.Labels()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchHover(t *testing.T) {
	const markup = `
		<div data-nb="page">
			<div id="one" data-nb="card"><span id="s1" class="icon">1</span><em id="e1">e</em></div>
			<div id="two" data-nb="card"><span id="s2" class="icon">2</span></div>
		</div>`

	setup := func(t *testing.T) (*TestPage, *Recorder) {
		page := NewTestPage(t, markup)
		rec := &Recorder{}
		reg := page.Registry
		reg.Define("page", Options{Events: map[string]any{
			"mouseover": rec.DOM("page enter", Continue),
			"mouseout":  rec.DOM("page leave", Continue),
		}})
		reg.Define("card", Options{Events: map[string]any{
			"mouseover":       rec.DOM("enter", Continue),
			"mouseout":        rec.DOM("leave", Continue),
			"mouseover .icon": rec.DOM("icon enter", Continue),
		}})
		return page, rec
	}

	t.Run("within the same block", func(t *testing.T) {
		page, rec := setup(t)
		page.Hover("mouseover", page.MustQuery("#one"), page.MustQuery("#e1"))
		page.Hover("mouseout", page.MustQuery("#one"), page.MustQuery("#s1"))
		if len(rec.Calls) != 0 {
			t.Errorf("no handler should fire, got %v", rec.Labels())
		}
	})

	t.Run("between siblings inside one block", func(t *testing.T) {
		page, rec := setup(t)
		page.Hover("mouseover", page.MustQuery("#s1"), page.MustQuery("#e1"))
		// The root contains the node being left and is skipped; the entered
		// node does not, so its selector handler fires.
		want := []Call{{Label: "icon enter", Node: "span#s1.icon"}}
		if diff := cmp.Diff(want, rec.Calls); diff != "" {
			t.Errorf("calls (-want +got):\n%s", diff)
		}
	})

	t.Run("into a descendant", func(t *testing.T) {
		page, rec := setup(t)
		page.Hover("mouseover", page.MustQuery("#s1"), page.MustQuery("#one"))
		want := []Call{{Label: "icon enter", Node: "span#s1.icon"}}
		if diff := cmp.Diff(want, rec.Calls); diff != "" {
			t.Errorf("calls (-want +got):\n%s", diff)
		}
	})

	t.Run("between disjoint blocks", func(t *testing.T) {
		page, rec := setup(t)
		s1, s2 := page.MustQuery("#s1"), page.MustQuery("#s2")
		page.Hover("mouseout", s1, s2)
		page.Hover("mouseover", s2, s1)

		want := []Call{
			{Label: "leave", Node: "div#one"},
			{Label: "icon enter", Node: "span#s2.icon"},
			{Label: "enter", Node: "div#two"},
		}
		if diff := cmp.Diff(want, rec.Calls); diff != "" {
			t.Errorf("calls (-want +got):\n%s", diff)
		}
	})

	t.Run("without related target bubbles", func(t *testing.T) {
		page, rec := setup(t)
		page.Fire("mouseover", page.MustQuery("#two"))
		if diff := cmp.Diff([]string{"enter", "page enter"}, rec.Labels()); diff != "" {
			t.Errorf("calls (-want +got):\n%s", diff)
		}
	})
}

func TestDispatchCreatesBlocksLazily(t *testing.T) {
	page := NewTestPage(t, `
		<div data-nb="keys"><div data-nb="menu"><b id="t" class="other">x</b></div></div>`)
	reg := page.Registry
	inits := 0
	countInit := func(*Block, string, any) { inits++ }
	reg.Define("keys", Options{Events: map[string]any{"keydown": func(*Block, *Event, *html.Node) {}, "init": countInit}})
	reg.Define("menu", Options{Events: map[string]any{"click .item": func(*Block, *Event, *html.Node) {}, "init": countInit}})

	page.Click(page.MustQuery("#t"))
	if inits != 0 {
		t.Errorf("%d blocks created, want none", inits)
	}
	if _, ok := getAttr(page.MustQuery(`[data-nb="menu"]`), "id"); ok {
		t.Error("identity should not be assigned without a handler run")
	}
}

func TestDispatchCreatesBlockOnce(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="menu"><b id="t">x</b></div>`)
	var seen []*Block
	inits := 0
	page.Registry.Define("menu", Options{Events: map[string]any{
		"click":   func(b *Block, e *Event, n *html.Node) { seen = append(seen, b) },
		"click b": func(b *Block, e *Event, n *html.Node) { seen = append(seen, b) },
		"init":    func(*Block, string, any) { inits++ },
	}})

	page.Click(page.MustQuery("#t"))
	page.Click(page.MustQuery("#t"))

	if inits != 1 {
		t.Errorf("init fired %d times, want 1", inits)
	}
	if len(seen) != 4 {
		t.Fatalf("handlers ran %d times, want 4", len(seen))
	}
	for _, b := range seen[1:] {
		if b != seen[0] {
			t.Fatal("handlers received different block instances")
		}
	}
	if seen[0].Node() != page.MustQuery(`[data-nb="menu"]`) {
		t.Error("block bound to the wrong node")
	}
}

func TestDispatchOutsideBlocks(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="menu"></div><p id="p">free</p>`)
	rec := &Recorder{}
	page.Registry.Define("menu", Options{Events: map[string]any{"click": rec.DOM("menu", Continue)}})

	if !page.Click(page.MustQuery("#p")) {
		t.Error("dispatch outside blocks should not stop")
	}
	if len(rec.Calls) != 0 {
		t.Errorf("unexpected calls %v", rec.Labels())
	}
	if !page.Fire("keyup", page.MustQuery("#p")) {
		t.Error("event type without listener should pass")
	}
}

func TestDispatchMultipleSelectorsOnOneNode(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="tabs"><a id="t" class="tab active">x</a></div>`)
	rec := &Recorder{}
	page.Registry.Define("tabs", Options{Events: map[string]any{
		"click .tab":    rec.DOM("tab", Continue),
		"click .active": rec.DOM("active", Continue),
		"click a":       rec.DOM("a", StopChain),
	}})

	page.Click(page.MustQuery("#t"))
	// Selector keys are tried in sorted order of the event names.
	if diff := cmp.Diff([]string{"active", "tab", "a"}, rec.Labels()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchCustomMatcher(t *testing.T) {
	var asked []string
	matcher := MatcherFunc(func(n *html.Node, selector string) bool {
		asked = append(asked, selector)
		return n.Data == "b"
	})
	page := NewTestPage(t, `<div data-nb="x"><b id="t">x</b></div>`, WithMatcher(matcher))
	rec := &Recorder{}
	page.Registry.Define("x", Options{Events: map[string]any{"click anything": rec.DOM("hit", Continue)}})

	page.Click(page.MustQuery("#t"))
	if diff := cmp.Diff([]string{"hit"}, rec.Labels()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"anything"}, asked); diff != "" {
		t.Errorf("matcher calls (-want +got):\n%s", diff)
	}
}

func TestDispatchCustomMarkerAttr(t *testing.T) {
	page := NewTestPage(t, `<div data-block="menu"><b id="t">x</b></div>`, WithMarkerAttr("data-block"), WithIDPrefix("blk"))
	rec := &Recorder{}
	page.Registry.Define("menu", Options{Events: map[string]any{"click": rec.DOM("menu", Continue)}})

	page.Click(page.MustQuery("#t"))
	want := []Call{{Label: "menu", Node: "div#blk0"}}
	if diff := cmp.Diff(want, rec.Calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDispatchHandlerPanicPropagates(t *testing.T) {
	page := NewTestPage(t, `<div data-nb="outer"><div data-nb="boom"><b id="t">x</b></div></div>`)
	rec := &Recorder{}
	page.Registry.Define("outer", Options{Events: map[string]any{"click": rec.DOM("outer", Continue)}})
	page.Registry.Define("boom", Options{Events: map[string]any{
		"click": func(*Block, *Event, *html.Node) Result { panic("boom") },
	}})

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		page.Click(page.MustQuery("#t"))
	}()
	if len(rec.Calls) != 0 {
		t.Errorf("outer block ran after a panic: %v", rec.Labels())
	}
}
