// Package formula runs the Lua formula scripts shipped with the game client.
//
// Only the subset those scripts actually use is supported: named functions
// doing arithmetic and branching on their parameters. Modules are loaded into
// a sandboxed interpreter without the io, os or package libraries.
//
// Besides running formulas, a Module can render a function's body into a
// JavaScript-flavoured expression for display on the web front-end. Rendering
// is purely textual and works for modules loaded with SourceOnly, whose code
// is never executed.
package formula
