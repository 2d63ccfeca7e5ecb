// Command storefrontd serves the storefront catalog HTTP API until it receives
// SIGINT or SIGTERM.
package main
