// Package session drives one player's game: it owns a compiled project, an
// interpreter and a save slot store, and serializes every player input so
// that at most one interpreter run is in flight.
//
// Sessions are presentation-agnostic. The console player, the websocket
// server and the socket.io relay all feed player input through Apply and
// receive interpreter events through the vm.Sink given in Options.
package session
