// Package daemonrun hosts the storefrontd process runtime: logger setup,
// preflight logging, seed import, service wiring, and signal handling.
package daemonrun
