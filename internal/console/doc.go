// Package console is a line-oriented terminal player. It renders
// interpreter events as text, numbers the action links and menu options it
// shows, and turns typed commands into player input.
//
// Commands:
//
//	<enter>            continue after a pause or dialogue line
//	<n>                choose menu option n, or follow action link n
//	look|use|apply <n> switch the action mode, then follow link n
//	select [item]      select an inventory item, or clear the selection
//	combine <a> + <b>  combine two items
//	new                start a new game
//	save               save into a new slot
//	slots              list save slots
//	load <n>           load slot n of the last listing
//	report             print the analyzer report
//	quit               leave
package console
