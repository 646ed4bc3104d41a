// Package authflow is a client-side authentication workflow controller. It
// sequences a multi-step credential-verification process — registration with
// email one-time-password confirmation, login, and password recovery via
// email OTP — against a remote authentication service, and drives the
// transient UI surface of the hosting page through explicit handles.
//
// The package is the public surface. It exposes [Controller], [Builder],
// [Config], value types, sentinel errors, and the flow event and metrics
// registries. Presentation lives behind [surface.Renderer]; the network
// boundary lives in the api subpackage; token persistence lives in the
// session subpackage.
//
// # Architecture boundaries
//
//   - The remote authentication service is a black box: the controller only
//     interprets the normalized {success, message, data} envelope.
//   - The controller never owns the page. It queries and mutates through the
//     renderer the host supplies and tolerates the surface disappearing while
//     a request is in flight (continuations check liveness and no-op).
//   - A single modal slot exists at any time; whichever flow opens a dialog
//     evicts the previous one.
//
// Controllers are built through [Builder] and are safe for use from the
// single event/goroutine the host drives them from; internal state is still
// mutex-guarded so timer continuations may fire from other goroutines.
package authflow
