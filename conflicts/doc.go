// Package conflicts implements version-conflict handling for dependency
// resolution.
//
// A Container batches up competing candidate components per module key and
// flags a conflict as soon as two distinct candidates exist, or a module is
// forced aside by a replacement rule. A Handler pops pending conflicts one
// at a time and delegates the decision to an ordered resolver chain; the
// first resolver that decides wins. The baseline VersionResolver is always
// decisive and picks the candidate with the highest version precedence.
//
// The package is deliberately unaware of graph structure: the driver owning
// the graph registers candidates, and reacts to resolved conflicts through
// the callback passed to Handler.ResolveNext.
package conflicts
