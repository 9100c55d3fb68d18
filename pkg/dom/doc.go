// Package dom provides a live, in-memory document that form validation runs
// against.
//
// A Document wraps an HTML node tree (golang.org/x/net/html) and exposes the
// small capability surface a form validator needs:
//
//   - element lookup by CSS selector (single and multi-match), compiled with
//     cascadia and cached per document
//   - closest-ancestor traversal
//   - class markers and text content
//   - event subscription and dispatch, with PreventDefault
//   - field state: value, checked, files, type, name, disabled
//   - the native form submission trigger
//
// Documents are built from markup (Parse, ParseString) or from a vdom tree
// (FromVNode). Handlers attached to vdom nodes with OnBlur, OnInput and
// friends become event listeners.
//
// Every text or class change made through the API is appended to a mutation
// log. Hosts that mirror the document elsewhere (see package live) drain it
// with TakeMutations after each event.
//
// A Document is not safe for concurrent use. Event handlers run to
// completion before the next event is dispatched.
package dom
