// Package domain holds the types every layer of kbqa shares: documents and
// their per-type index, previews, chat messages with citations, staged
// upload files, settings, and the error kinds that cross layer boundaries.
//
// It imports only the standard library. Every other internal package
// may import domain; domain imports none of them.
package domain
