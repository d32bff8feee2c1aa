// Package services is the core of kbqa.
//
// Each service guards its state with a mutex and calls the backend with
// the lock released, so bubbletea commands and MCP handlers may call in
// from any goroutine. Where requests can overlap, each carries a token
// from a counter and only the newest one may publish its result; older
// ones get ErrSuperseded.
package services
