// Package rank orders the candidates of a family best-first.
//
// The order is built from a fixed sequence of tie-break stages, several of
// which are only present when the corresponding option is set. A disabled
// stage is omitted from the chain entirely, so it cannot influence the
// result. The sort is stable: candidates equal on every active stage keep
// their discovery order.
package rank
