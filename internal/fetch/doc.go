// Package fetch pulls new podcast episodes from configured RSS feeds into the
// audio layout, keyed by feed name and publication date.
package fetch
