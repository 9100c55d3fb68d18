package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeIsInteractive(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want bool
	}{
		{
			name: "nil node",
			node: nil,
			want: false,
		},
		{
			name: "text node",
			node: &VNode{Kind: KindText, Text: "hello"},
			want: false,
		},
		{
			name: "element without handlers",
			node: &VNode{Kind: KindElement, Tag: "div", Props: Props{"class": "form-group"}},
			want: false,
		},
		{
			name: "element with onblur",
			node: &VNode{Kind: KindElement, Tag: "input", Props: Props{"onblur": func() {}}},
			want: true,
		},
		{
			name: "bare on prefix is not a handler",
			node: &VNode{Kind: KindElement, Tag: "div", Props: Props{"on": "x"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsInteractive(); got != tt.want {
				t.Errorf("IsInteractive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeAttrsAndHandlers(t *testing.T) {
	blur := func() {}
	node := Input(ID("email"), Name("email"), Key("k1"), OnBlur(blur), OnInput(blur))

	attrs := node.Attrs()
	if attrs["id"] != "email" || attrs["name"] != "email" {
		t.Errorf("Attrs() = %v, want id and name", attrs)
	}
	if _, ok := attrs["key"]; ok {
		t.Error("Attrs() should not include key")
	}
	if _, ok := attrs["onblur"]; ok {
		t.Error("Attrs() should not include handlers")
	}

	handlers := node.Handlers()
	if len(handlers) != 2 {
		t.Fatalf("Handlers() len = %d, want 2", len(handlers))
	}
	if handlers["blur"] == nil || handlers["input"] == nil {
		t.Errorf("Handlers() = %v, want blur and input", handlers)
	}

	if Div().Handlers() != nil {
		t.Error("Handlers() on element without handlers should be nil")
	}
}

func TestFuncComponent(t *testing.T) {
	comp := Func(func() *VNode { return Span(Text("rendered")) })
	node := comp.Render()
	if node.Tag != "span" {
		t.Errorf("Tag = %v, want span", node.Tag)
	}
}
