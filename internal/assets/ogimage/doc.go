// Package ogimage extracts the representative image of a share page.
//
// It backs the daemon's /resolve-image endpoint: the page is fetched, its
// head is parsed with golang.org/x/net/html, and the first of og:image,
// twitter:image, or <link rel="image_src"> is returned as an absolute URL.
// A URL that already serves image bytes is returned as-is.
package ogimage
