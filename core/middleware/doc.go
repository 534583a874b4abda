// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or bearer token).
//   - rayid: Tags every request with a unique id (RayID), stored in the
//     Fiber locals and echoed in the X-Ray-ID response header for tracing.
//
// The start command registers rayid first, then request logging, then auth.
package middleware
