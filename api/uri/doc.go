// Package uri decomposes WHATWG URLs into flat, serializable records.
//
// Every address hiroi reports, whether a discovered link or the document it
// was found in, passes through FromURL. Inputs supplied by a caller are
// validated with ParseAbsolute before anything touches the network.
package uri
