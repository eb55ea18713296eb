// Package comment implements the product review module: buyer-gated creation,
// the waiting/approved/rejected moderation workflow, like/dislike/report
// engagement, and the read-side feeds.
//
// Files in this package:
//   - types.go   — DTOs, response structs, sentinel errors, messages
//   - service.go — Service struct and all business-logic methods
//   - handler.go — Handler struct, route registration, and HTTP handlers
//   - helpers.go — Pure utility/helper functions (display name, sorting)
package comment
