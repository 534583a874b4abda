// Package datasets exposes the stored datasets over HTTP, so reference
// datasets can be seeded and mismatch rows inspected without direct access
// to the backend.
//
// # HTTP Endpoints
//
//   - GET /datasets : Lists dataset ids.
//   - GET /datasets/:id : Returns items (supports ?offset= and ?limit=).
//   - PUT /datasets/:id : Replaces the items with the JSON array in the body.
//   - POST /datasets/:id/items : Appends the JSON array in the body.
//   - DELETE /datasets/:id : Deletes the dataset.
package datasets
