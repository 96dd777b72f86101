// Package lifecycle closes modmail threads on staff request.
package lifecycle
