// Package request is the synchronous command/response layer built on the
// same topic set as the event manager. Exactly one handler serves each
// topic; callers block with a timeout while a single broker goroutine
// routes their request to the handler and copies the response back.
//
// Unlike the publish/subscribe side, this layer fans in: requests to all
// topics are serialized through one goroutine, so a slow handler delays
// every request behind it. Timeouts are advisory for the caller only and
// never cancel an in-flight handler.
package request
