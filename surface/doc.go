// Package surface models the transient presentation surface the workflow
// controller drives: inline flash messages next to form regions, a
// single-instance modal dialog, and the login/register view toggle.
//
// The package never touches a real document. A host embeds the controller by
// implementing [Renderer]; [MemoryRenderer] is a complete in-memory host used
// by tests and demos.
//
// # Modal contract
//
// [Manager] owns at most one active [Dialog]. Opening a new dialog first
// dismisses the previous one and tears down its dismiss hook, so dismiss
// callbacks fire at most once per open and never leak across an open/close
// cycle. The first control of a freshly presented dialog is focused
// asynchronously, after a short settle delay, and only if the dialog is still
// alive by then.
package surface
