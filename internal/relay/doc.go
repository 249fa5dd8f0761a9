// Package relay connects a game session to a remote presentation host over
// socket.io. Interpreter events are emitted on one event name as
// {"type": ..., "data": ...} objects; player input arrives on another event
// name in the same shape as session.Input.
package relay
