// Package server exposes the sentiment analyzer over HTTP.
//
// Routes:
//
//	POST /analyze-sentiment/  {"text": "..."} -> {"label": "...", "score": 0.99}
//	GET  /health/live
//	GET  /health/ready
//
// Classification failures are returned to echo unchanged so the caller sees
// echo's generic 500 response.
package server
