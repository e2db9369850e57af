// Package server exposes an editor session over HTTP.
//
// # Overview
//
// [Server] wraps a [store.App] and a [viewport.Controller] in a chi router.
// Handlers never touch the stores directly: every request body is decoded
// on the request goroutine and the work itself runs through
// [store.Loop.Do], so HTTP clients, the frame ticker and any other caller
// observe the same single-threaded editor.
//
//	loop := store.NewLoop()
//	go loop.Run(ctx)
//	go ctrl.Run(ctx, loop)
//
//	srv := server.New(app, loop, ctrl, server.Options{Logger: logger})
//	err := srv.ListenAndServe(ctx, ":8080")
//
// # Errors
//
// Failures are JSON objects {"error": {"code": ..., "message": ...}}
// carrying the [errors.Code] of the failure. Not-found codes map to 404,
// invalid input and cycles to 400, NO_PROJECT to 409 and everything else
// to 500. A canceled operation is not a failure and answers 204.
package server
