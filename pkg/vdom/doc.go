// Package vdom provides declarative markup construction for validated forms.
//
// A VNode tree describes a page: elements, text, fragments and components.
// Props holds attributes and event handlers; Attr and EventHandler are used
// to build Props. Trees are turned into live documents by the dom package.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Form(ID("signup"),
//	    Div(Class("form-group"),
//	        Label(For("email"), Text("Email")),
//	        Input(ID("email"), Name("email"), Type("email")),
//	        Span(Class("form-message")),
//	    ),
//	    Button(Type("submit"), Text("Sign up")),
//	)
//
// # Event Handlers
//
// OnBlur, OnInput and OnSubmit store handlers under "on<event>"
// props. The dom package registers them as listeners when it builds a
// document from the tree.
package vdom
