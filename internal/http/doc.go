// Package http provides HTTP handlers and middleware for the matchmaker API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"participant_id","password"}.
//     The token is also surfaced via the `X-Session-Token` header and a
//     `session_token` cookie. DELETE /sessions/current revokes the caller's token.
//   - GET /participants, POST /participants, GET /participants/{id},
//     DELETE /participants/{id}: participant directory. Mutations are
//     administrator only.
//   - GET /participants/{id}/availability lists busy slot ids;
//     POST /participants/{id}/availability/{slotID} toggles one marker.
//   - GET /participants/{id}/preferences, POST .../preferences (body
//     {"target_id"}), DELETE .../preferences/{targetID}, and
//     POST .../preferences/reorder (body {"from","to"}) manage a requester's
//     ranked list.
//   - GET /slots, POST /slots, GET /rooms, POST /rooms, DELETE /rooms/{id}:
//     the shared catalogs. Mutations are administrator only.
//   - POST /matching/run regenerates the meeting ledger; GET /meetings lists
//     it; POST /meetings/{id}/lock (body {"room_id"}) pins a meeting;
//     POST /schedule/reset clears both ledgers; POST /cancellations (body
//     {"id","kind"}) cancels a meeting or a request in place.
//   - POST /requests fans a direct request out to its targets; GET /requests
//     and GET /participants/{id}/requests list the ledger;
//     PUT /requests/{id}/status and PUT /requests/{id}/room update one record.
//   - GET /participants/{id}/counters returns the pending and confirmed
//     meeting counts shown on participant badges.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
