// Package api exposes the sync server over HTTP.
//
// The web client and the CLI speak to a single endpoint, POST /api/proxy, with
// a JSON body {"action": "...", ...payload}. Actions:
//
//	ping           {}                      200 {"message":"pong"}
//	auth-register  {username, password}    201 {"message", "token"}
//	auth-login     {username, password}    200 {"message", "username", "token"}
//	sync-load      {username}              200 {"data": SyncData|null}
//	sync-merge     {username, data}        200 {"data": SyncData}
//
// sync-* actions require "Authorization: Bearer <token>" issued to the same
// username. Errors are {"error": "..."} with a status chosen by statusFor.
package api
