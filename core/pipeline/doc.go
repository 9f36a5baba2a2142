// Package pipeline turns an HTTP request into a run of lifecycle hooks and a
// handler chain.
//
// For every request the pipeline:
//
//  1. builds a handler.Context and runs the onRequest hooks;
//  2. runs preParsing and parses the body;
//  3. resolves the route, answering 404 {"message":"Route not found"} on a miss;
//  4. runs preValidation and preHandler;
//  5. runs global middleware followed by the route handlers;
//  6. runs onResponse and flushes the response.
//
// Any error from a hook or a handler, and any handler panic, goes to the error
// handler, which runs the onError hooks and renders the response. The error
// handler never re-enters the chain.
//
// The chain uses an index cursor. A handler's next is honoured only while the
// cursor still points at that handler, so calling next twice, or after the chain
// finished, does nothing.
package pipeline
