// Package vm executes compiled programs.
//
// A Machine owns one RuntimeState and advances it instruction by instruction
// until the program ends or an instruction suspends execution to wait for the
// player: a pause, a dialogue line or a menu. The caller resumes the machine
// through Acknowledge, ChooseMenu, Interact or Combine. Everything the
// presentation layer needs to know is reported as an Event to the Sink given
// at construction time.
//
// A Machine is not safe for concurrent use; callers serialize access.
package vm
