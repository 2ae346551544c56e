// Package icon loads the bitmaps drawn for diagram nodes.
//
// Node icons arrive asynchronously: a graph marks each icon pending as the
// node is created, hands the URL to a [Fetcher], and draws a placeholder
// until the fetcher delivers a [Result]. The owner of the graph then
// resolves the icon and redraws just that node.
//
// [URLLoader] understands three kinds of reference:
//
//   - data: URIs with base64 payloads, as embedded by the server
//   - http and https URLs, fetched through [httputil.Client]
//   - relative paths, joined to a base directory or base URL
//
// PNG, JPEG and GIF are decoded. A scale other than 1 resizes every icon
// with Lanczos resampling, for high-density output.
package icon
