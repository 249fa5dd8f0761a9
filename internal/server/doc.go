// Package server exposes games over HTTP. GET /health answers "OK" and GET
// /ws upgrades to a websocket carrying one game session per connection.
//
// Every interpreter event is pushed as a JSON frame {"type": ..., "data":
// ...} where type is the event name. Clients send session inputs such as
// {"type":"choose","index":0}; inputs that produce data are answered with a
// "reply" frame and rejected inputs with an "input_error" frame.
package server
